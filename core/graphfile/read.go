package graphfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/siherrmann/metonym/helper"
	"github.com/siherrmann/metonym/model"
)

// Format names a supported graph file format
type Format string

const (
	FormatGML  Format = "gml"
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

var ErrUnsupportedFormat = errors.New("unsupported graph format")

// FormatOf derives the format from a file extension
func FormatOf(filePath string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".gml":
		return FormatGML, nil
	case ".dot", ".gv":
		return FormatDOT, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filePath))
	}
}

// Read parses a graph file, choosing the reader by extension
func Read(filePath string) (*model.Taxonomy, error) {
	format, err := FormatOf(filePath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, helper.NewError("open graph file", err)
	}
	defer f.Close()

	return ReadFormat(f, format)
}

// ReadFormat parses r as the given format
func ReadFormat(r io.Reader, format Format) (*model.Taxonomy, error) {
	var t *model.Taxonomy
	var err error

	switch format {
	case FormatGML:
		t, err = ReadGML(r)
	case FormatDOT:
		t, err = ReadDOT(r)
	case FormatJSON:
		t, err = ReadJSON(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, helper.NewError(fmt.Sprintf("parse %s", format), err)
	}

	return t, nil
}
