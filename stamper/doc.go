// Package stamper reads workspace status files into a set of
// named values. Each line is "KEY VALUE" with the first space
// as delimiter. Values.Expand substitutes single-brace {KEY}
// references in text, leaving unknown keys untouched.
package stamper
