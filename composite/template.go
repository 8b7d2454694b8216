package composite

// Template is a finalized composite format string paired
// with its arguments. The zero Template is empty.
type Template struct {
	format string
	args   []any
}

// NewTemplate wraps an existing format string and argument
// list. The arguments are copied.
func NewTemplate(format string, args ...any) Template {
	cp := make([]any, len(args))
	copy(cp, args)

	return Template{format: format, args: cp}
}

// Format returns the composite format string.
func (t Template) Format() string {
	return t.format
}

// ArgumentCount returns the number of arguments.
func (t Template) ArgumentCount() int {
	return len(t.args)
}

// Argument returns the argument at index i. It panics if i
// is out of range, like a slice index.
func (t Template) Argument(i int) any {
	return t.args[i]
}

// Arguments returns a copy of the arguments in placeholder
// order.
func (t Template) Arguments() []any {
	cp := make([]any, len(t.args))
	copy(cp, t.args)

	return cp
}
