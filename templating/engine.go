package templating

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/formatsb/composite"
	"github.com/byte4ever/formatsb/stamper"
)

// ErrBadTag is returned for a tag whose alignment clause is
// not an integer.
var ErrBadTag = errors.New("bad tag")

// Engine compiles templates using stamp info files and
// explicit variables.
type Engine struct {
	StartTag       string
	EndTag         string
	LineBreak      string
	StampInfoFiles []string
}

// CompileFile reads a template and compiles it. If tplPath
// is empty it reads from stdin.
func (en *Engine) CompileFile(
	tplPath string,
	vars []string,
	imports []string,
) (composite.Template, error) {
	const errCtx = "compiling template file"

	tplContent, err := en.readTemplate(tplPath)
	if err != nil {
		return composite.Template{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return en.Compile(string(tplContent), vars, imports)
}

// Compile turns tpl into a composite template.
//
// Processing order:
//  1. Load stamp files into a stamp map.
//  2. For each variable NAME=VALUE, expand VALUE against
//     stamps using single-brace tags, then store as both
//     "NAME" and "variables.NAME" in context.
//  3. For each import NAME=filename, read the file, expand
//     it against stamps with single-brace tags, compile it
//     against context, and store the nested template as
//     "imports.NAME".
//  4. Compile tpl against context.
func (en *Engine) Compile(
	tpl string,
	vars []string,
	imports []string,
) (composite.Template, error) {
	const errCtx = "compiling template"

	stamps, err := stamper.Load(en.StampInfoFiles)
	if err != nil {
		return composite.Template{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	// Stamps form the base context; variables and
	// imports override them.
	ctx := make(map[string]any, len(stamps))
	for key, val := range stamps {
		ctx[key] = val
	}

	if err := en.resolveVars(vars, stamps, ctx); err != nil {
		return composite.Template{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := en.resolveImports(imports, stamps, ctx); err != nil {
		return composite.Template{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	out, err := en.compile(tpl, ctx)
	if err != nil {
		return composite.Template{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return out, nil
}

// compile scans tpl for tags and feeds the builder: text
// between tags goes in as literals, known tags as values.
func (en *Engine) compile(
	tpl string,
	ctx map[string]any,
) (composite.Template, error) {
	startTag, endTag := en.tags()

	ft, err := fasttemplate.NewTemplate(tpl, startTag, endTag)
	if err != nil {
		return composite.Template{}, fmt.Errorf("parsing tags: %w", err)
	}

	b := composite.New(composite.WithLineBreak(en.lineBreak()))
	lw := &literalWriter{b: b}

	_, err = ft.ExecuteFunc(lw, func(_ io.Writer, tag string) (int, error) {
		name, piece, err := parseTag(tag)
		if err != nil {
			return 0, err
		}

		val, ok := ctx[name]
		if !ok {
			slog.Debug("preserving unknown tag", "tag", tag)

			return lw.Write([]byte(startTag + tag + endTag))
		}

		b.Append(piece(val))

		return 0, nil
	})
	if err != nil {
		return composite.Template{}, err
	}

	if err := b.Err(); err != nil {
		return composite.Template{}, err
	}

	return b.Template(), nil
}

// parseTag splits "name[,alignment][:format]" and returns
// the name plus a constructor for the value piece.
func parseTag(tag string) (string, func(any) composite.Piece, error) {
	var (
		format    string
		hasFormat bool
		alignment int
	)

	name := tag

	if i := strings.IndexByte(name, ':'); i >= 0 {
		format = name[i+1:]
		hasFormat = true
		name = name[:i]
	}

	if i := strings.IndexByte(name, ','); i >= 0 {
		al, err := strconv.Atoi(strings.TrimSpace(name[i+1:]))
		if err != nil {
			return "", nil, fmt.Errorf(
				"tag %q: alignment %q: %w",
				tag, name[i+1:], ErrBadTag,
			)
		}

		alignment = al
		name = name[:i]
	}

	return strings.TrimSpace(name), func(v any) composite.Piece {
		pc := composite.Value(v).Align(alignment)
		if hasFormat {
			pc = pc.Format(format)
		}

		return pc
	}, nil
}

// literalWriter appends everything written to it as
// literal text. Line feeds (with an optional preceding
// carriage return) go through AppendLine so the builder's
// line break replaces them.
type literalWriter struct {
	b *composite.Builder
}

func (lw *literalWriter) Write(p []byte) (int, error) {
	lines := strings.Split(string(p), "\n")

	for i, line := range lines {
		if i > 0 {
			lw.b.AppendLine()
		}

		if i < len(lines)-1 {
			line = strings.TrimSuffix(line, "\r")
		}

		if line != "" {
			lw.b.Append(composite.Literal(line))
		}
	}

	return len(p), nil
}

// tags returns the configured start/end tags, falling
// back to double-brace defaults.
func (en *Engine) tags() (string, string) {
	startTag := en.StartTag
	if startTag == "" {
		startTag = "{{"
	}

	endTag := en.EndTag
	if endTag == "" {
		endTag = "}}"
	}

	return startTag, endTag
}

func (en *Engine) lineBreak() string {
	if en.LineBreak == "" {
		return composite.DefaultLineBreak
	}

	return en.LineBreak
}

// resolveVars processes --variable flags. Each variable
// value is expanded against stamps using single-brace
// tags, then stored as both "NAME" and "variables.NAME".
func (en *Engine) resolveVars(
	vars []string,
	stamps stamper.Values,
	ctx map[string]any,
) error {
	const errCtx = "resolving variables"

	for _, vr := range vars {
		name, raw, ok := strings.Cut(vr, "=")
		if !ok {
			return fmt.Errorf(
				"%s: variable must be VAR=value, got %s",
				errCtx, vr,
			)
		}

		val := stamps.Expand(raw)

		ctx[name] = val
		ctx["variables."+name] = val
	}

	return nil
}

// resolveImports processes --imports flags. Each import
// file is expanded against stamps with single-brace tags,
// compiled against ctx, and stored as "imports.NAME".
func (en *Engine) resolveImports(
	imports []string,
	stamps stamper.Values,
	ctx map[string]any,
) error {
	const errCtx = "resolving imports"

	for _, im := range imports {
		name, path, ok := strings.Cut(im, "=")
		if !ok {
			return fmt.Errorf(
				"%s: import must be NAME=filename, got %s",
				errCtx, im,
			)
		}

		content, err := os.ReadFile(path) //nolint:gosec // paths from CLI flags
		if err != nil {
			return fmt.Errorf(
				"%s: reading %s: %w",
				errCtx, path, err,
			)
		}

		nested, err := en.compile(stamps.Expand(string(content)), ctx)
		if err != nil {
			return fmt.Errorf(
				"%s: compiling %s: %w",
				errCtx, path, err,
			)
		}

		ctx["imports."+name] = nested
	}

	return nil
}

// readTemplate reads the template from a file path. If
// tplPath is empty it reads from stdin.
func (en *Engine) readTemplate(
	tplPath string,
) ([]byte, error) {
	const errCtx = "reading template"

	if tplPath != "" {
		content, err := os.ReadFile(tplPath) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return content, nil
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: reading stdin: %w", errCtx, err,
		)
	}

	return content, nil
}
