package report

import (
	"bytes"
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
)

// httpClient is shared by every upload to reuse TCP connections.
var httpClient = &http.Client{}

var contentTypes = map[Format]string{
	FormatJSON: "application/json",
	FormatYAML: "application/yaml",
}

// Upload PUTs the encoded summary to a pre-signed URL.
func Upload(ctx context.Context, url string, s *Summary, format Format) error {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	data, err := Marshal(s, format)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "failed to create report upload request")
	}
	req.Header.Set("Content-Type", contentTypes[format])
	req.ContentLength = int64(len(data))

	logger.Info("Uploading report.", "size", len(data), "format", format)

	resp, err := httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to execute report upload request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Newf("report upload failed with status: %s", resp.Status)
	}

	logger.Info("Successfully uploaded report.", "status", resp.Status)
	return nil
}
