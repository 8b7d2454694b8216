package composite

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedFragment is returned when a fragment holds a
// piece that is neither literal text nor a value, or a
// literal piece carrying value annotations.
var ErrMalformedFragment = errors.New("malformed fragment")

// ErrInvalidLineBreak is returned for a line break that
// contains a brace, which would read back as a placeholder
// delimiter.
var ErrInvalidLineBreak = errors.New("invalid line break")

// DefaultLineBreak is the line terminator used by
// AppendLine unless WithLineBreak overrides it.
const DefaultLineBreak = "\n"

// CRLF is the carriage-return line-feed terminator.
const CRLF = "\r\n"

var braceEscaper = strings.NewReplacer("{", "{{", "}", "}}")

// Option configures a Builder.
type Option func(*Builder)

// WithLineBreak sets the sequence AppendLine writes. A line
// break containing a brace is refused: the default is kept
// and the error is reported by Err.
func WithLineBreak(lb string) Option {
	return func(b *Builder) {
		if err := ValidateLineBreak(lb); err != nil {
			if b.err == nil {
				b.err = err
			}

			return
		}

		b.lineBreak = lb
	}
}

// ValidateLineBreak checks that lb can be written raw into
// a composite format string.
func ValidateLineBreak(lb string) error {
	if strings.ContainsAny(lb, "{}") {
		return fmt.Errorf("%q contains a brace: %w", lb, ErrInvalidLineBreak)
	}

	return nil
}

// Builder assembles a composite format string and its
// argument list. It is meant for a single writer; callers
// sharing one across goroutines must lock around it.
type Builder struct {
	format    strings.Builder
	args      []any
	lineBreak string
	err       error
}

// New returns an empty Builder.
func New(opts ...Option) *Builder {
	b := &Builder{lineBreak: DefaultLineBreak}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Append writes the pieces as one fragment and returns b
// for chaining. A malformed fragment leaves b untouched and
// is recorded; see Err.
func (b *Builder) Append(pieces ...Piece) *Builder {
	if err := b.AppendFragment(pieces); err != nil && b.err == nil {
		b.err = err
	}

	return b
}

// AppendFragment writes every piece of f in order. The
// fragment is checked before anything is written, so a
// malformed fragment leaves the builder unchanged.
func (b *Builder) AppendFragment(f Fragment) error {
	const errCtx = "appending fragment"

	for i, p := range f {
		if err := checkPiece(p); err != nil {
			return fmt.Errorf("%s: piece %d: %w", errCtx, i, err)
		}
	}

	for _, p := range f {
		if p.kind == kindLiteral {
			b.appendLiteral(p.text)

			continue
		}

		b.appendValue(p)
	}

	return nil
}

// AppendLine writes the configured line break. The line
// break is written raw, not brace-escaped.
func (b *Builder) AppendLine() *Builder {
	b.format.WriteString(b.lineBreak)

	return b
}

// Template returns a snapshot of the current format string
// and arguments. Later appends do not affect it.
func (b *Builder) Template() Template {
	args := make([]any, len(b.args))
	copy(args, b.args)

	return Template{format: b.format.String(), args: args}
}

// Err returns the first error recorded by an Option or by
// Append.
func (b *Builder) Err() error {
	return b.err
}

// Len returns the length in bytes of the format string.
func (b *Builder) Len() int {
	return b.format.Len()
}

// ArgumentCount returns the number of arguments captured so
// far, which is also the index the next value will take.
func (b *Builder) ArgumentCount() int {
	return len(b.args)
}

func (b *Builder) appendLiteral(text string) {
	// Fast path: most literals carry no braces.
	if !strings.ContainsAny(text, "{}") {
		b.format.WriteString(text)

		return
	}

	_, _ = braceEscaper.WriteString(&b.format, text)
}

func (b *Builder) appendValue(p Piece) {
	b.format.WriteByte('{')
	b.format.WriteString(strconv.Itoa(len(b.args)))

	if p.alignment != 0 {
		b.format.WriteByte(',')
		b.format.WriteString(strconv.Itoa(p.alignment))
	}

	if p.hasFormat {
		b.format.WriteByte(':')
		b.format.WriteString(p.format)
	}

	b.format.WriteByte('}')

	b.args = append(b.args, p.value)
}

func checkPiece(p Piece) error {
	switch p.kind {
	case kindValue:
		return nil
	case kindLiteral:
		if p.alignment != 0 || p.hasFormat {
			return fmt.Errorf(
				"literal %q carries alignment or format: %w",
				p.text, ErrMalformedFragment,
			)
		}

		return nil
	default:
		return fmt.Errorf(
			"piece is neither literal nor value: %w",
			ErrMalformedFragment,
		)
	}
}
