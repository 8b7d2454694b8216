package composite

type pieceKind uint8

const (
	kindInvalid pieceKind = iota
	kindLiteral
	kindValue
)

// Piece is one element of a Fragment: either literal text
// or a value with optional alignment and format specifier.
// The zero Piece is neither and is rejected by Append.
type Piece struct {
	kind      pieceKind
	text      string
	value     any
	alignment int
	format    string
	hasFormat bool
}

// Fragment is the ordered content of a single append call.
type Fragment []Piece

// Literal returns a piece holding literal text. Braces in
// text are escaped when the piece is appended.
func Literal(text string) Piece {
	return Piece{kind: kindLiteral, text: text}
}

// Value returns a piece holding an opaque argument value.
func Value(v any) Piece {
	return Piece{kind: kindValue, value: v}
}

// Align sets the minimum field width of a value piece.
// Negative widths left-justify. Zero means no alignment.
func (p Piece) Align(n int) Piece {
	p.alignment = n

	return p
}

// Format attaches a format specifier to a value piece. The
// specifier is kept verbatim; an empty spec still emits the
// colon clause.
func (p Piece) Format(spec string) Piece {
	p.format = spec
	p.hasFormat = true

	return p
}

// IsLiteral reports whether p holds literal text.
func (p Piece) IsLiteral() bool { return p.kind == kindLiteral }

// IsValue reports whether p holds an argument value.
func (p Piece) IsValue() bool { return p.kind == kindValue }
