package cli

import (
	"context"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables that override flags.
const EnvPrefix = "BURSTMATRIX"

// Exit codes.
const (
	ExitJobsFailed = 1
	ExitUsage      = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

var envKeyReplacer = strings.NewReplacer("-", "_")

// errUsage marks errors caused by invalid flags, arguments or settings.
var errUsage = errors.New("usage error")

// Execute runs the command line and maps failures to an *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	if args == nil {
		// cobra falls back to os.Args for nil args.
		args = []string{}
	}
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return toExitError(err)
	}
	return nil
}

func toExitError(err error) *ExitError {
	code := ExitJobsFailed
	if errors.Is(err, errUsage) || errors.Is(err, app.ErrWorkflowConfig) {
		code = ExitUsage
	}
	return &ExitError{Code: code, Message: err.Error()}
}

// NewRootCommand builds the burstmatrix command tree. Every call returns an
// independent tree with its own viper instance.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "burstmatrix",
		Short: "Expand build matrices and run every job independently.",
		Long: `burstmatrix expands a workflow's platform × toolchain matrix into jobs and
runs the build and test steps of each job concurrently. Workflows are read
from HCL (.hcl) or GitHub Actions YAML (.yml, .yaml) files.

Every flag can also be set with a BURSTMATRIX_<FLAG> environment variable,
e.g. BURSTMATRIX_WORKERS=8.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return errors.Mark(errors.Newf("unknown command %q for %q", args[0], cmd.CommandPath()), errUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Mark(err, errUsage)
	})

	registerFlags(root.PersistentFlags())
	if err := v.BindPFlags(root.PersistentFlags()); err != nil {
		panic(err)
	}

	root.AddCommand(
		newCommand(v, outW, errW, "run", "Expand the matrix and run every job.",
			func(ctx context.Context, a *app.App) error { return a.Run(ctx) }),
		newCommand(v, outW, errW, "plan", "Print the expanded jobs without running them.",
			func(ctx context.Context, a *app.App) error { return a.Plan(ctx) }),
		newCommand(v, outW, errW, "validate", "Check workflow matrices and action references.",
			func(ctx context.Context, a *app.App) error { return a.Validate(ctx) }),
	)
	return root
}

func registerFlags(fs *pflag.FlagSet) {
	fs.String("workflow", "", "Select a single workflow by name.")
	fs.Int("workers", app.DefaultWorkers, "Number of jobs run at the same time.")
	fs.Bool("fail-fast", false, "Cancel remaining jobs after the first failure.")
	fs.Bool("dry-run", false, "Print what every step would do without doing it.")
	fs.String("workdir", "", "Root of the per-job working directories.")
	fs.String("event", "", "Only run workflows triggered by this event: 'push' or 'pull_request'.")
	fs.String("ref", "", "Ref of the event, e.g. refs/heads/main or refs/tags/v1.0.0.")
	fs.String("base-ref", "", "Target branch of a pull_request event.")
	fs.String("report", "", "Write the run report to this file (.json, .yaml or .yml).")
	fs.String("report-format", "", "Report format: 'json' or 'yaml'. Defaults to the file extension.")
	fs.String("report-upload-url", "", "PUT the run report to this pre-signed URL.")
	fs.String("notify-url", "", "socket.io server receiving job lifecycle events.")
	fs.String("notify-namespace", "/", "socket.io namespace for lifecycle events.")
	fs.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	fs.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	fs.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
}

func newCommand(v *viper.Viper, outW, errW io.Writer, name, short string, fn func(context.Context, *app.App) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [PATH]",
		Short: short,
		Long: short + `

PATH is a workflow file or a directory searched recursively for workflow
files. It defaults to the current directory.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.Mark(errors.Newf("accepts at most 1 arg, received %d", len(args)), errUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(v, args)
			if err != nil {
				return err
			}
			a := app.NewApp(outW, errW, cfg)
			return fn(cmd.Context(), a)
		},
	}
}

// configFrom resolves the application config: flag, then environment, then
// default.
func configFrom(v *viper.Viper, args []string) (*app.Config, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	cfg, err := app.NewConfig(app.Config{
		Path:            path,
		Workflow:        v.GetString("workflow"),
		Workers:         v.GetInt("workers"),
		FailFast:        v.GetBool("fail-fast"),
		DryRun:          v.GetBool("dry-run"),
		WorkDir:         v.GetString("workdir"),
		Event:           v.GetString("event"),
		Ref:             v.GetString("ref"),
		BaseRef:         v.GetString("base-ref"),
		ReportPath:      v.GetString("report"),
		ReportFormat:    v.GetString("report-format"),
		ReportUploadURL: v.GetString("report-upload-url"),
		NotifyURL:       v.GetString("notify-url"),
		NotifyNamespace: v.GetString("notify-namespace"),
		LogFormat:       v.GetString("log-format"),
		LogLevel:        v.GetString("log-level"),
		HealthcheckPort: v.GetInt("healthcheck-port"),
	})
	if err != nil {
		return nil, errors.Mark(err, errUsage)
	}
	return cfg, nil
}
