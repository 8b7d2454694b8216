// Package render turns a composite.Template into text. It
// parses "{{" and "}}" escapes and "{index[,alignment][:format]}"
// items, looks arguments up by index, and pads them to the
// requested width. Format specifiers are handed to values
// implementing SpecFormatter and otherwise ignored.
package render
