package main

import (
	"archive/zip"
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, size int, preload bool) *ImageStore {
	t.Helper()
	s := NewImageStore(size, preload)
	t.Cleanup(s.Close)
	return s
}

func TestImageStoreCaches(t *testing.T) {
	dir := t.TempDir()
	p := NewFileImagePath(writePNG(t, dir, "a.png", 3, 2))
	s := newTestStore(t, 4, false)

	img, err := s.Load(p)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.True(t, s.Contains(p))

	// A cached entry survives the file being removed.
	require.NoError(t, os.Remove(p.Path))
	again, err := s.Load(p)
	require.NoError(t, err)
	assert.Same(t, img, again)

	s.Invalidate(p)
	assert.False(t, s.Contains(p))
	_, err = s.Load(p)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImageStoreEvicts(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, 2, false)
	paths := []ImagePath{
		NewFileImagePath(writePNG(t, dir, "a.png", 1, 1)),
		NewFileImagePath(writePNG(t, dir, "b.png", 1, 1)),
		NewFileImagePath(writePNG(t, dir, "c.png", 1, 1)),
	}

	for _, p := range paths {
		_, err := s.Load(p)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Contains(paths[0]))
}

func TestImageStoreConcurrentLoads(t *testing.T) {
	dir := t.TempDir()
	p := NewFileImagePath(writePNG(t, dir, "a.png", 64, 64))
	s := newTestStore(t, 4, false)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Load(p)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, s.Len())
}

func TestImageStoreInvalidateDuringDecode(t *testing.T) {
	dir := t.TempDir()
	p := NewFileImagePath(writePNG(t, dir, "a.png", 2, 2))
	s := newTestStore(t, 4, false)

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int
	s.load = func(ip ImagePath) (image.Image, error) {
		calls++
		if calls == 1 {
			close(started)
			<-release
		}
		return loadImage(ip)
	}

	done := make(chan error)
	go func() {
		_, err := s.decode(p)
		done <- err
	}()

	<-started
	s.Invalidate(p)
	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Contains(p), "decode started before Invalidate must not be cached")

	_, err := s.Load(p)
	require.NoError(t, err)
	assert.True(t, s.Contains(p))
	assert.Equal(t, 2, calls)
}

func TestImageStorePreload(t *testing.T) {
	dir := t.TempDir()
	a := NewFileImagePath(writePNG(t, dir, "a.png", 2, 2))
	b := NewFileImagePath(writePNG(t, dir, "b.png", 2, 2))
	missing := NewFileImagePath(filepath.Join(dir, "gone.png"))
	s := newTestStore(t, 4, true)

	s.Preload([]ImagePath{a, b, missing})

	assert.Eventually(t, func() bool {
		stats := s.PreloadStats()
		return stats.LoadedCount+stats.FailedCount == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, s.Contains(a))
	assert.True(t, s.Contains(b))
	assert.Equal(t, 1, s.PreloadStats().FailedCount)
}

func TestImageStorePreloadDisabled(t *testing.T) {
	dir := t.TempDir()
	a := NewFileImagePath(writePNG(t, dir, "a.png", 2, 2))
	s := newTestStore(t, 4, false)

	s.Preload([]ImagePath{a})
	time.Sleep(50 * time.Millisecond)
	assert.False(t, s.Contains(a))
	assert.Equal(t, PreloadStats{}, s.PreloadStats())
}

func TestLoadImageFromZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "book.zip")

	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("pages/p1.png")
	require.NoError(t, err)
	_, err = w.Write(pngBytes(t, 6, 4))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	img, err := loadImage(newArchiveImagePath(archive, "pages/p1.png"))
	require.NoError(t, err)
	assert.Equal(t, 6, img.Bounds().Dx())

	_, err = loadImage(newArchiveImagePath(archive, "pages/p2.png"))
	assert.Error(t, err)
}

func TestViewerOpensArchive(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "book.zip")

	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, name := range []string{"p2.png", "p1.png"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(pngBytes(t, 3, 3))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	h := newHarness(t)
	require.NoError(t, h.v.Open(archive))
	src, ok := h.v.Document().Source()
	require.True(t, ok)
	assert.Equal(t, "p1.png", src.EntryPath)
	assert.Equal(t, "1 / 2", h.v.PositionLabel())
	assert.Nil(t, h.v.FileInfo())

	h.v.NavigateNext()
	src, _ = h.v.Document().Source()
	assert.Equal(t, "p2.png", src.EntryPath)

	assert.ErrorIs(t, h.v.deleteCurrent(), ErrNoPath)
}
