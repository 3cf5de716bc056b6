package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallback(t *testing.T) {
	dir := t.TempDir()

	arr := filepath.Join(dir, "arr.json")
	require.NoError(t, os.WriteFile(arr, []byte(`[{"id":"1","image_url":"https://i/1.jpg"},{"id":"2"}]`), 0o644))
	got, err := LoadFallback(arr)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	obj := filepath.Join(dir, "obj.json")
	require.NoError(t, os.WriteFile(obj, []byte(`{"posts":[{"id":"1","image_url":"https://i/1.jpg"}]}`), 0o644))
	got, err = LoadFallback(obj)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`nope`), 0o644))
	_, err = LoadFallback(bad)
	assert.Error(t, err)

	_, err = LoadFallback(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
