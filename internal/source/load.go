package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/dynstruct"
)

// Format identifies a document syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
)

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", &LoadError{
			Code:    ErrCodeUnknownFormat,
			Message: fmt.Sprintf("unsupported extension %q (want .yaml, .yml, .json or .cue)", filepath.Ext(path)),
			Path:    path,
		}
	}
}

// LoadFile reads path and parses it in the format its extension names.
func LoadFile(path string) (dynstruct.Fields, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "failed to read source file", Path: path, Err: err}
	}

	fields, err := Parse(data, format, path)
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// Parse decodes data as format. The name labels errors and CUE positions.
func Parse(data []byte, format Format, name string) (dynstruct.Fields, error) {
	var (
		fields dynstruct.Fields
		err    error
	)
	switch format {
	case FormatYAML:
		fields, err = ParseYAML(data)
	case FormatJSON:
		fields, err = ParseJSON(data)
	case FormatCUE:
		fields, err = ParseCUE(data, name)
	default:
		return nil, &LoadError{Code: ErrCodeUnknownFormat, Message: fmt.Sprintf("unknown format %q", format), Path: name}
	}

	if le, ok := err.(*LoadError); ok && le.Path == "" {
		le.Path = name
	}
	return fields, err
}
