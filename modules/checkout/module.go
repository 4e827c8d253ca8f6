package checkout

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/specialistvlad/burstmatrix/internal/action"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input holds the step parameters, named after actions/checkout.
type Input struct {
	Repository string
	Ref        string
	// Depth limits history; 0 fetches everything.
	Depth int
}

func parseInput(req *action.Request) (*Input, error) {
	in := &Input{
		Repository: req.With("repository"),
		Ref:        req.With("ref"),
		Depth:      1,
	}
	if raw := req.With("fetch-depth"); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil || depth < 0 {
			return nil, errors.Newf("invalid fetch-depth %q", raw)
		}
		in.Depth = depth
	}
	return in, nil
}

// referenceName accepts a branch name or a fully qualified ref.
func referenceName(ref string) plumbing.ReferenceName {
	if strings.HasPrefix(ref, "refs/") {
		return plumbing.ReferenceName(ref)
	}
	return plumbing.NewBranchReferenceName(ref)
}

// Checkout is the handler for the 'checkout' action. It clones the
// configured repository into the job's working directory. Without a
// repository the job builds the current working tree and nothing happens.
func Checkout(ctx context.Context, req *action.Request) error {
	logger := ctxlog.FromContext(ctx).With("action", "checkout")

	in, err := parseInput(req)
	if err != nil {
		return err
	}
	if in.Repository == "" {
		logger.Debug("No repository configured, using the current working tree.")
		return nil
	}
	if req.Dir == "" {
		return errors.New("checkout requires a job working directory")
	}

	opts := &git.CloneOptions{
		URL:   in.Repository,
		Depth: in.Depth,
	}
	if in.Ref != "" {
		opts.ReferenceName = referenceName(in.Ref)
		opts.SingleBranch = true
	}
	if req.Stderr != nil {
		opts.Progress = req.Stderr
	}

	if req.DryRun {
		out := req.Stdout
		if out == nil {
			out = io.Discard
		}
		fmt.Fprintf(out, "would clone %s (ref %q, depth %d) into %s\n", in.Repository, in.Ref, in.Depth, req.Dir)
		return nil
	}

	logger.Info("Cloning repository.", "repository", in.Repository, "ref", in.Ref, "dir", req.Dir)
	repo, err := git.PlainCloneContext(ctx, req.Dir, false, opts)
	if err != nil {
		return errors.Wrapf(err, "cloning %s", in.Repository)
	}

	head, err := repo.Head()
	if err != nil {
		return errors.Wrap(err, "resolving HEAD after clone")
	}
	logger.Info("Repository checked out.", "commit", head.Hash().String())
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("checkout", action.Func(Checkout))
}
