// Package composite builds composite format templates
// incrementally. A Builder accumulates template text with
// positional placeholders ("{0}", "{1,-5}", "{2:X2}") and a
// parallel argument list. Literal braces are doubled so a
// brace-placeholder renderer reads them back as literal
// text, and placeholder indices keep counting across every
// Append on the same Builder.
//
// The finished Template is an immutable snapshot; rendering
// it is left to a separate step (see package render).
package composite
