// Package parse reads assembly snapshots and links them into the type graph
// the rest of doxytags works on.
package parse

import (
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/doxytags/internal/errors"
)

// Snapshot formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type decodeFunc func(data []byte, v interface{}) error

var codecs = map[string]decodeFunc{
	FormatJSON: json.Unmarshal,
	FormatYAML: yaml.Unmarshal,
}

var extensions = map[string]string{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
}

// ForExtension returns the snapshot format for a file extension, or "" if
// unsupported.
func ForExtension(ext string) string {
	return extensions[strings.ToLower(ext)]
}

// Decode decodes a snapshot in the given format.
func Decode(format string, data []byte) (*Snapshot, error) {
	dec, ok := codecs[format]
	if !ok {
		return nil, errors.Newf("unsupported snapshot format %q", format)
	}
	var snap Snapshot
	if err := dec(data, &snap); err != nil {
		return nil, errors.Wrapf(err, "decoding %s snapshot", format)
	}
	return &snap, nil
}
