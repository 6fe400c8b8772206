package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploads_Save(t *testing.T) {
	dir := t.TempDir()
	u, err := NewUploads(dir)
	require.NoError(t, err)
	u.Now = func() time.Time { return time.Unix(1700000000, 0) }

	path, err := u.Save("../../etc/shot.png", strings.NewReader("pixels"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "1700000000_shot.png"), path)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(b))
}

func TestUploads_SaveEmptyName(t *testing.T) {
	u, err := NewUploads(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "..", "/", "  "} {
		_, err := u.Save(name, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrEmptyName, name)
	}
}

func TestUploads_CleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	u, err := NewUploads(dir)
	require.NoError(t, err)
	now := time.Now()

	write := func(name string, age time.Duration) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		require.NoError(t, os.Chtimes(p, now.Add(-age), now.Add(-age)))
		return p
	}
	old := write("1_old.png", 3601*time.Second)
	fresh := write("2_fresh.png", 3599*time.Second)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	removed, err := u.CleanupOlderThan(now, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.DirExists(t, filepath.Join(dir, "nested"))
}

func TestUploads_CleanupMissingDir(t *testing.T) {
	u := &Uploads{Dir: filepath.Join(t.TempDir(), "gone")}
	removed, err := u.CleanupOlderThan(time.Now(), time.Hour)
	assert.NoError(t, err)
	assert.Zero(t, removed)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("a.PNG"))
	assert.Equal(t, "image/jpeg", ContentType("a.jpeg"))
	assert.Equal(t, "image/webp", ContentType("a.webp"))
	assert.Equal(t, "application/octet-stream", ContentType("a.bin"))
}
