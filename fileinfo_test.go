package main

import (
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesToSize(t *testing.T) {
	tests := []struct {
		n        int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1500, "1.46 KB"},
		{1048576, "1 MB"},
		{5 * 1024 * 1024 * 1024, "5 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, BytesToSize(tt.n))
		})
	}
}

func TestReadFileInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, SaveImage(path, solidImage(32, 16, color.RGBA{255, 0, 0, 255})))

	info, err := ReadFileInfo(path)
	require.NoError(t, err)
	assert.Equal(t, path, info.Path)
	assert.Equal(t, 32, info.Width)
	assert.Equal(t, 16, info.Height)
	assert.Positive(t, info.Size)
	assert.False(t, info.Modified.IsZero())
	assert.Empty(t, info.EXIF, "PNG without EXIF yields no fields")

	_, err = ReadFileInfo(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTrashMove(t *testing.T) {
	trash := &Trash{Dir: filepath.Join(t.TempDir(), "Trash")}
	dir := t.TempDir()
	path := filepath.Join(dir, "a b.png")
	require.NoError(t, os.WriteFile(path, []byte("pixels"), 0644))

	dest, err := trash.Move(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(trash.Dir, "files", "a b.png"), dest)
	assert.NoFileExists(t, path)
	assert.FileExists(t, dest)

	info, err := os.ReadFile(filepath.Join(trash.Dir, "info", "a b.png.trashinfo"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(info), "[Trash Info]\n"))
	assert.Contains(t, string(info), "Path="+filepath.ToSlash(dir)+"/a%20b.png\n")
	assert.Contains(t, string(info), "DeletionDate=")
}

func TestTrashMoveCollision(t *testing.T) {
	trash := &Trash{Dir: filepath.Join(t.TempDir(), "Trash")}
	dir := t.TempDir()
	path := filepath.Join(dir, "dup.jpg")

	require.NoError(t, os.WriteFile(path, []byte("one"), 0644))
	_, err := trash.Move(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("two"), 0644))
	dest, err := trash.Move(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(trash.Dir, "files", "dup.1.jpg"), dest)
	assert.FileExists(t, filepath.Join(trash.Dir, "info", "dup.1.jpg.trashinfo"))
}

func TestTrashMoveMissing(t *testing.T) {
	trash := &Trash{Dir: filepath.Join(t.TempDir(), "Trash")}
	_, err := trash.Move(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoDirExists(t, trash.Dir)
}

// mountedAt makes paths under mount report a different device than the rest.
func mountedAt(mount string) func(string) (uint64, bool) {
	return func(p string) (uint64, bool) {
		if p == mount || strings.HasPrefix(p, mount+string(filepath.Separator)) {
			return 2, true
		}
		return 1, true
	}
}

func TestTrashMoveOtherDevice(t *testing.T) {
	mount := t.TempDir()
	photos := filepath.Join(mount, "photos")
	require.NoError(t, os.Mkdir(photos, 0755))
	path := filepath.Join(photos, "a b.png")
	require.NoError(t, os.WriteFile(path, []byte("pixels"), 0644))

	trash := &Trash{Dir: filepath.Join(t.TempDir(), "Trash"), device: mountedAt(mount)}
	dest, err := trash.Move(path)
	require.NoError(t, err)

	topTrash := filepath.Join(mount, ".Trash-"+strconv.Itoa(os.Getuid()))
	assert.Equal(t, filepath.Join(topTrash, "files", "a b.png"), dest)
	assert.NoFileExists(t, path)
	assert.NoDirExists(t, trash.Dir, "home trash is on another device")

	info, err := os.ReadFile(filepath.Join(topTrash, "info", "a b.png.trashinfo"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "Path=photos/a%20b.png\n")
}

func TestTrashMoveSharedTopDirTrash(t *testing.T) {
	mount := t.TempDir()
	shared := filepath.Join(mount, ".Trash")
	require.NoError(t, os.Mkdir(shared, 0777))
	require.NoError(t, os.Chmod(shared, 0777|os.ModeSticky))
	path := filepath.Join(mount, "c.jpg")
	require.NoError(t, os.WriteFile(path, []byte("pixels"), 0644))

	trash := &Trash{Dir: filepath.Join(t.TempDir(), "Trash"), device: mountedAt(mount)}
	dest, err := trash.Move(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(shared, strconv.Itoa(os.Getuid()), "files", "c.jpg"), dest)
}

func TestTrashMoveSameDeviceUsesHome(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "d.png")
	require.NoError(t, os.WriteFile(path, []byte("pixels"), 0644))

	same := func(string) (uint64, bool) { return 7, true }
	trash := &Trash{Dir: filepath.Join(t.TempDir(), "Trash"), device: same}
	dest, err := trash.Move(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(trash.Dir, "files", "d.png"), dest)
}
