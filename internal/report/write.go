package report

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a report document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for report formats other than json and yaml.
var ErrUnknownFormat = errors.New("unknown report format")

// FormatFor picks the format of a report. An explicit format wins; otherwise
// the file extension decides, defaulting to JSON.
func FormatFor(path, explicit string) (Format, error) {
	if explicit != "" {
		switch f := Format(strings.ToLower(explicit)); f {
		case FormatJSON, FormatYAML:
			return f, nil
		default:
			return "", errors.Wrapf(ErrUnknownFormat, "%q", explicit)
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	default:
		return FormatJSON, nil
	}
}

// Encode writes the summary to w in the given format.
func Encode(w io.Writer, s *Summary, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(s), "encoding JSON report")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return errors.Wrap(err, "encoding YAML report")
		}
		return errors.Wrap(enc.Close(), "encoding YAML report")
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

// Marshal returns the encoded summary.
func Marshal(s *Summary, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the summary to path, creating parent directories.
func WriteFile(path string, s *Summary, format Format) error {
	data, err := Marshal(s, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating report directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing report %s", path)
	}
	return nil
}
