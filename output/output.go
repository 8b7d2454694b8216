package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/byte4ever/formatsb/composite"
	"github.com/byte4ever/formatsb/render"
)

// Format selects how a template is written.
type Format string

// Supported formats.
const (
	JSON     Format = "json"
	YAML     Format = "yaml"
	Text     Format = "text"
	Rendered Format = "rendered"
)

// ErrUnknownFormat is returned by ParseFormat for names it
// does not recognize.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat converts a flag or config value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case JSON, YAML, Text, Rendered:
		return f, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
	}
}

// Document is the serialized shape of a template. Nested
// templates among the arguments become nested Documents.
type Document struct {
	Format    string `json:"format"    yaml:"format"`
	Arguments []any  `json:"arguments" yaml:"arguments"`
}

// NewDocument converts tpl to a Document. A builder
// reachable from its own arguments yields render.ErrCycle.
func NewDocument(tpl composite.Template) (Document, error) {
	const errCtx = "building document"

	doc, err := newDocument(tpl, make(map[*composite.Builder]bool))
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return doc, nil
}

func newDocument(
	tpl composite.Template,
	seen map[*composite.Builder]bool,
) (Document, error) {
	args := tpl.Arguments()
	for i, arg := range args {
		var (
			doc Document
			err error
		)

		switch val := arg.(type) {
		case composite.Template:
			doc, err = newDocument(val, seen)
		case *composite.Builder:
			if val == nil {
				continue
			}

			if seen[val] {
				return Document{}, fmt.Errorf("argument %d: %w", i, render.ErrCycle)
			}

			seen[val] = true
			doc, err = newDocument(val.Template(), seen)
			delete(seen, val)
		default:
			continue
		}

		if err != nil {
			return Document{}, fmt.Errorf("argument %d: %w", i, err)
		}

		args[i] = doc
	}

	return Document{Format: tpl.Format(), Arguments: args}, nil
}

// Write serializes tpl to w in the requested format.
func Write(w io.Writer, f Format, tpl composite.Template) error {
	const errCtx = "writing output"

	var (
		buf []byte
		err error
	)

	switch f {
	case JSON, YAML:
		doc, derr := NewDocument(tpl)
		if derr != nil {
			return fmt.Errorf("%s: %w", errCtx, derr)
		}

		if f == JSON {
			buf, err = json.MarshalIndent(doc, "", "  ")
			buf = append(buf, '\n')
		} else {
			buf, err = yaml.Marshal(doc)
		}
	case Text:
		buf = []byte(tpl.Format())
	case Rendered:
		err = render.Fprint(w, tpl)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		return nil
	default:
		return fmt.Errorf("%s: %q: %w", errCtx, f, ErrUnknownFormat)
	}

	if err != nil {
		return fmt.Errorf("%s: encoding %s: %w", errCtx, f, err)
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}
