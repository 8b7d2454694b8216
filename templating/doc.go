// Package templating compiles named-placeholder templates
// into composite templates. Tags use configurable
// delimiters (default "{{" and "}}") and read
// "name[,alignment][:format]"; each known tag becomes a
// positional placeholder whose argument comes from stamp
// info files, NAME=VALUE variables or imported templates.
//
// The Engine type holds configuration and compiles via
// Compile and CompileFile. Tag scanning is done by
// valyala/fasttemplate.
package templating
