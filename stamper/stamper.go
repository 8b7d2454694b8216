package stamper

import (
	"fmt"
	"os"
	"strings"

	"github.com/valyala/fasttemplate"
)

// Values maps stamp keys to their values. Values are kept
// as interface{} so the map can feed fasttemplate directly.
type Values map[string]interface{}

// Load reads workspace status files and merges them into a
// single Values map. Later files override earlier ones.
// Lines without a space are skipped; a trailing carriage
// return is dropped.
func Load(infoFiles []string) (Values, error) {
	const errCtx = "loading stamps"

	stamps := make(Values)

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		stamps.parse(string(content))
	}

	return stamps, nil
}

func (va Values) parse(content string) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")

		key, val, ok := strings.Cut(line, " ")
		if ok {
			va[key] = val
		}
	}
}

// Lookup returns the value for key as a string.
func (va Values) Lookup(key string) (string, bool) {
	val, ok := va[key]
	if !ok {
		return "", false
	}

	s, ok := val.(string)

	return s, ok
}

// Expand substitutes {KEY} references in s. Unknown keys
// are preserved as-is.
func (va Values) Expand(s string) string {
	return fasttemplate.ExecuteStringStd(s, "{", "}", va)
}
