package codec

import (
	"fmt"
	"io"
	"strings"

	"nameofperson/internal/domain"
)

// Importer interface for importing people from various formats
type Importer interface {
	Parse(r io.Reader) ([]domain.Person, error)
	Format() string
}

// Exporter interface for exporting people to various formats
type Exporter interface {
	Export(people []domain.Person, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec registered for a format name
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", domain.ErrInvalidArgument, format)
	}
}
