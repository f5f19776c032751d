package update

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCache(t *testing.T, latest string, checked time.Time) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "inspex"), 0o755))
	b, err := json.Marshal(checkCache{LastChecked: checked, Latest: latest})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inspex", cacheFileName), b, 0o644))
}

func TestCheck_FreshCacheNewerVersion(t *testing.T) {
	seedCache(t, "9.9.9", time.Now())
	latest, newer := Check("0.1.0")
	assert.Equal(t, "9.9.9", latest)
	assert.True(t, newer)
}

func TestCheck_FreshCacheSameVersion(t *testing.T) {
	seedCache(t, "0.1.0", time.Now())
	_, newer := Check("0.1.0")
	assert.False(t, newer)
}

func TestCheck_UnparsableCurrentVersion(t *testing.T) {
	seedCache(t, "9.9.9", time.Now())
	_, newer := Check("not-a-version")
	assert.False(t, newer)
}
