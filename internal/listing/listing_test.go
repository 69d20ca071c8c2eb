package listing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkfile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReadEntriesOrdering(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, dir, "b.txt", "b")
	mkfile(t, dir, "a.txt", "a")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "A"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "zdir"), 0o755))
	// Grandchildren must not appear in a listing of dir.
	mkfile(t, filepath.Join(dir, "A"), "nested.txt", "x")

	entries, err := ReadEntries(dir)
	require.NoError(t, err)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	// Directories before files, byte-wise within each group.
	assert.Equal(t, []string{"A", "zdir", "a.txt", "b.txt"}, names)
	assert.True(t, entries[0].IsDir)
	assert.True(t, entries[1].IsDir)
	assert.False(t, entries[2].IsDir)
	assert.Equal(t, uint64(1), entries[2].Size)
}

func TestReadEntriesMissingDir(t *testing.T) {
	_, err := ReadEntries(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRenderAnchors(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, dir, "file.txt", "hello")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	mkfile(t, filepath.Join(dir, "sub"), "grandchild.txt", "x")

	out, err := Render(dir, "/assets")
	require.NoError(t, err)
	doc := string(out)

	// Directory anchors carry a trailing slash in href and label.
	assert.Contains(t, doc, `<a href="/assets/sub/">sub/</a>`)
	assert.Contains(t, doc, `<a href="/assets/file.txt">file.txt</a>`)
	assert.Contains(t, doc, "Index of /assets/")
	// Immediate children only.
	assert.NotContains(t, doc, "grandchild.txt")
}

func TestRenderRootPath(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, dir, "x.txt", "x")

	for _, reqPath := range []string{"", "/"} {
		out, err := Render(dir, reqPath)
		require.NoError(t, err)
		assert.Contains(t, string(out), `<a href="/x.txt">x.txt</a>`, "reqPath=%q", reqPath)
	}
}

func TestRenderEscapesNames(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, dir, `a<b&c.txt`, "x")

	out, err := Render(dir, "/")
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "a&lt;b&amp;c.txt</a>")
	assert.NotContains(t, doc, ">a<b&c.txt<")
	// href is percent-encoded, not HTML-escaped markup.
	assert.Contains(t, doc, `href="/a%3Cb&amp;c.txt"`)
}
