package stamper_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/formatsb/stamper"
)

// writeTemp creates a temporary file with content and
// returns its path.
func writeTemp(
	tb testing.TB,
	dir string,
	name string,
	content string,
) string {
	tb.Helper()

	pa := filepath.Join(dir, name)
	require.NoError(
		tb,
		os.WriteFile(pa, []byte(content), 0o600),
	)

	return pa
}

func TestLoad_returns_values(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	sf := writeTemp(
		t, dir, "status.txt",
		"BUILD_USER alice\nGIT_SHA deadbeef\n",
	)

	stamps, err := stamper.Load([]string{sf})
	require.NoError(t, err)

	got, ok := stamps.Lookup("BUILD_USER")
	require.True(t, ok)
	assert.Equal(t, "alice", got)
	assert.Equal(t, "deadbeef", stamps["GIT_SHA"])
}

func TestLoad_nil_files(t *testing.T) {
	t.Parallel()

	stamps, err := stamper.Load(nil)

	require.NoError(t, err)
	assert.Empty(t, stamps)
}

func TestLoad_skips_malformed_lines(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	sf := writeTemp(
		t, dir, "status.txt",
		"GOOD value\nBADLINE\n\nALSO_GOOD val2\r\n",
	)

	stamps, err := stamper.Load([]string{sf})

	require.NoError(t, err)
	assert.Len(t, stamps, 2)
	assert.Equal(t, "value", stamps["GOOD"])
	assert.Equal(t, "val2", stamps["ALSO_GOOD"])
}

func TestLoad_later_file_overrides_earlier(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	sf1 := writeTemp(t, dir, "s1.txt", "VER 1.0\nK1 v1\n")
	sf2 := writeTemp(t, dir, "s2.txt", "VER 2.0\n")

	stamps, err := stamper.Load([]string{sf1, sf2})
	require.NoError(t, err)

	assert.Equal(t, "version=2.0 k1=v1", stamps.Expand("version={VER} k1={K1}"))
}

func TestLoad_missing_file(t *testing.T) {
	t.Parallel()

	_, err := stamper.Load(
		[]string{"/nonexistent/file.txt"},
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading stamps")
}

func TestValues_expand(t *testing.T) {
	t.Parallel()

	stamps := stamper.Values{
		"KNOWN": "val",
		"MSG":   "hello world from CI",
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "known and unknown", in: "{KNOWN} and {UNKNOWN}", want: "val and {UNKNOWN}"},
		{name: "value with spaces", in: "message={MSG}", want: "message=hello world from CI"},
		{name: "empty", in: "", want: ""},
		{name: "double braces untouched", in: "{{KNOWN}}", want: "{{KNOWN}}"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, stamps.Expand(tt.in))
		})
	}
}

func TestValues_lookup_missing(t *testing.T) {
	t.Parallel()

	_, ok := stamper.Values{}.Lookup("NOPE")
	assert.False(t, ok)
}

func FuzzExpand(f *testing.F) {
	f.Add("Hello {name}!", "name", "World")
	f.Add("{a}{b}", "a", "x")
	f.Add("{", "k", "v")
	f.Add("}", "k", "v")
	f.Add("{key}", "key", "")
	f.Add("{a} and {b}", "a", "{nested}")

	f.Fuzz(func(
		t *testing.T,
		format string,
		key string,
		val string,
	) {
		// We only verify it does not panic.
		_ = stamper.Values{key: val}.Expand(format)
	})
}
