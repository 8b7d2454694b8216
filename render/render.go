package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/byte4ever/formatsb/composite"
)

var (
	// ErrMalformedTemplate is returned for unbalanced braces
	// or unparsable format items.
	ErrMalformedTemplate = errors.New("malformed template")

	// ErrArgumentIndex is returned when a format item refers
	// to a missing argument.
	ErrArgumentIndex = errors.New("argument index out of range")

	// ErrCycle is returned when a builder is reached again
	// through its own arguments.
	ErrCycle = errors.New("builder references itself")
)

// SpecFormatter is implemented by values that interpret a
// format specifier themselves. Other values are printed with
// fmt.Sprint and their specifier is dropped.
type SpecFormatter interface {
	FormatSpec(spec string) (string, error)
}

// String renders tpl and returns the result.
func String(tpl composite.Template) (string, error) {
	const errCtx = "rendering template"

	var sb strings.Builder

	if err := render(&sb, tpl, make(map[*composite.Builder]bool)); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return sb.String(), nil
}

// Fprint renders tpl to w.
func Fprint(w io.Writer, tpl composite.Template) error {
	const errCtx = "rendering template"

	s, err := String(tpl)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("%s: writing output: %w", errCtx, err)
	}

	return nil
}

type item struct {
	index     int
	alignment int
	spec      string
}

// render writes tpl to sb. seen holds the builders being
// rendered further up the stack.
func render(
	sb *strings.Builder,
	tpl composite.Template,
	seen map[*composite.Builder]bool,
) error {
	format, args := tpl.Format(), tpl.Arguments()

	for pos := 0; pos < len(format); {
		ch := format[pos]

		switch {
		case ch == '{' && pos+1 < len(format) && format[pos+1] == '{':
			sb.WriteByte('{')
			pos += 2
		case ch == '}' && pos+1 < len(format) && format[pos+1] == '}':
			sb.WriteByte('}')
			pos += 2
		case ch == '}':
			return fmt.Errorf("offset %d: unescaped '}': %w", pos, ErrMalformedTemplate)
		case ch == '{':
			end := strings.IndexByte(format[pos:], '}')
			if end < 0 {
				return fmt.Errorf("offset %d: unterminated format item: %w", pos, ErrMalformedTemplate)
			}

			it, err := parseItem(format[pos+1 : pos+end])
			if err != nil {
				return fmt.Errorf("offset %d: %w", pos, err)
			}

			if it.index >= len(args) {
				return fmt.Errorf(
					"offset %d: index %d with %d arguments: %w",
					pos, it.index, len(args), ErrArgumentIndex,
				)
			}

			s, err := formatValue(args[it.index], it, seen)
			if err != nil {
				return fmt.Errorf("offset %d: argument %d: %w", pos, it.index, err)
			}

			sb.WriteString(pad(s, it.alignment))
			pos += end + 1
		default:
			next := strings.IndexAny(format[pos:], "{}")
			if next < 0 {
				next = len(format) - pos
			}

			sb.WriteString(format[pos : pos+next])
			pos += next
		}
	}

	return nil
}

// parseItem parses the body of a format item, the text
// between the braces.
func parseItem(body string) (item, error) {
	var it item

	if i := strings.IndexByte(body, ':'); i >= 0 {
		it.spec = body[i+1:]
		body = body[:i]
	}

	indexText := body

	if i := strings.IndexByte(body, ','); i >= 0 {
		indexText = body[:i]

		al, err := strconv.Atoi(strings.TrimSpace(body[i+1:]))
		if err != nil {
			return item{}, fmt.Errorf("alignment %q: %w", body[i+1:], ErrMalformedTemplate)
		}

		it.alignment = al
	}

	idx, err := strconv.Atoi(strings.TrimSpace(indexText))
	if err != nil || idx < 0 || strings.HasPrefix(strings.TrimSpace(indexText), "+") {
		return item{}, fmt.Errorf("index %q: %w", indexText, ErrMalformedTemplate)
	}

	it.index = idx

	return it, nil
}

func formatValue(
	v any,
	it item,
	seen map[*composite.Builder]bool,
) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case SpecFormatter:
		return val.FormatSpec(it.spec)
	case composite.Template:
		return nested(val, seen)
	case *composite.Builder:
		if val == nil {
			return "", nil
		}

		if seen[val] {
			return "", ErrCycle
		}

		seen[val] = true
		defer delete(seen, val)

		return nested(val.Template(), seen)
	default:
		return fmt.Sprint(v), nil
	}
}

func nested(
	tpl composite.Template,
	seen map[*composite.Builder]bool,
) (string, error) {
	var sb strings.Builder

	if err := render(&sb, tpl, seen); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// pad justifies s to the absolute value of width using
// display cells, so wide runes count double.
func pad(s string, width int) string {
	if width == 0 {
		return s
	}

	n := width
	if n < 0 {
		n = -n
	}

	w := runewidth.StringWidth(s)
	if w >= n {
		return s
	}

	fill := strings.Repeat(" ", n-w)
	if width < 0 {
		return s + fill
	}

	return fill + s
}
