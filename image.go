package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/sevenzip"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nwaples/rardecode"
	"golang.org/x/sync/singleflight"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// PreloadRequest asks the worker to decode the given neighbours.
type PreloadRequest struct {
	Paths []ImagePath
}

// PreloadStats provides statistics about preloading
type PreloadStats struct {
	LoadedCount int
	FailedCount int
	SkipCount   int
}

// PreloadManager decodes neighbouring images in the background so that the
// next navigation step hits the cache. It only ever writes to the cache.
type PreloadManager struct {
	requestChan chan PreloadRequest
	ctx         context.Context
	cancel      context.CancelFunc
	store       *ImageStore
	mu          sync.RWMutex
	stats       PreloadStats
	enabled     bool
	wg          sync.WaitGroup
}

// NewPreloadManager creates a PreloadManager and starts its worker.
func NewPreloadManager(store *ImageStore) *PreloadManager {
	ctx, cancel := context.WithCancel(context.Background())
	pm := &PreloadManager{
		requestChan: make(chan PreloadRequest, 8),
		ctx:         ctx,
		cancel:      cancel,
		store:       store,
		enabled:     true,
	}

	pm.wg.Add(1)
	go pm.worker()

	return pm
}

// SetEnabled enables or disables preloading
func (pm *PreloadManager) SetEnabled(enabled bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = enabled
}

// IsEnabled returns whether preloading is enabled
func (pm *PreloadManager) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.enabled
}

// GetStats returns current preload statistics
func (pm *PreloadManager) GetStats() PreloadStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.stats
}

// Stop stops the worker and waits for it to exit.
func (pm *PreloadManager) Stop() {
	pm.cancel()
	pm.wg.Wait()
}

// Request replaces any pending request with paths.
func (pm *PreloadManager) Request(paths []ImagePath) {
	if !pm.IsEnabled() || len(paths) == 0 {
		return
	}

	// Only the latest neighbourhood matters
drain:
	for {
		select {
		case <-pm.requestChan:
		default:
			break drain
		}
	}

	select {
	case pm.requestChan <- PreloadRequest{Paths: paths}:
	default:
		debugLog("Preload request channel full, skipping preload request")
	}
}

func (pm *PreloadManager) worker() {
	defer pm.wg.Done()
	for {
		select {
		case <-pm.ctx.Done():
			return
		case req := <-pm.requestChan:
			if pm.IsEnabled() {
				pm.process(req)
			}
		}
	}
}

func (pm *PreloadManager) process(req PreloadRequest) {
	for _, p := range req.Paths {
		select {
		case <-pm.ctx.Done():
			return
		default:
		}

		if pm.store.Contains(p) {
			pm.mu.Lock()
			pm.stats.SkipCount++
			pm.mu.Unlock()
			continue
		}

		_, err := pm.store.decode(p)
		pm.mu.Lock()
		if err != nil {
			pm.stats.FailedCount++
		} else {
			pm.stats.LoadedCount++
		}
		pm.mu.Unlock()

		if err != nil {
			debugLog("Preload failed for %s: %v", p.Path, err)
			continue
		}
		debugLog("Preloaded %s (cache: %d items)", p.Path, pm.store.Len())
	}
}

// ImageStore loads decoded images through an LRU cache keyed by path.
type ImageStore struct {
	cache   *lru.Cache[string, image.Image]
	preload *PreloadManager

	// A foreground load and a preload of the same path share one decode.
	loads singleflight.Group
	load  func(ImagePath) (image.Image, error)

	// gens counts invalidations per path; a decode only caches its result if
	// the path was not invalidated while it ran.
	mu   sync.Mutex
	gens map[string]uint64
}

// NewImageStore creates a store holding up to cacheSize decoded images.
func NewImageStore(cacheSize int, preloadEnabled bool) *ImageStore {
	cache, err := lru.New[string, image.Image](cacheSize)
	if err != nil {
		logger.Error().Err(err).Int("size", cacheSize).Msg("failed to create LRU cache, using default size")
		cache, _ = lru.New[string, image.Image](defaultCacheSize)
	}

	s := &ImageStore{cache: cache, load: loadImage, gens: make(map[string]uint64)}
	s.preload = NewPreloadManager(s)
	s.preload.SetEnabled(preloadEnabled)
	return s
}

// Load returns the decoded image for p, from cache when possible.
func (s *ImageStore) Load(p ImagePath) (image.Image, error) {
	if img, ok := s.cache.Get(p.Path); ok {
		debugLog("Cache HIT: %s (cache: %d items)", p.Path, s.cache.Len())
		return img, nil
	}

	img, err := s.decode(p)
	if err != nil {
		return nil, err
	}
	debugLog("Cache MISS: %s, loaded and cached (cache: %d items)", p.Path, s.cache.Len())
	return img, nil
}

// decode loads p from disk and caches it, joining any decode of the same
// path already in flight.
func (s *ImageStore) decode(p ImagePath) (image.Image, error) {
	v, err, shared := s.loads.Do(p.Path, func() (interface{}, error) {
		gen := s.generation(p.Path)
		img, err := s.load(p)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.gens[p.Path] == gen {
			s.cache.Add(p.Path, img)
		} else {
			debugLog("Dropped stale decode of %s", p.Path)
		}
		s.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		debugLog("Joined in-flight decode of %s", p.Path)
	}
	return v.(image.Image), nil
}

func (s *ImageStore) Contains(p ImagePath) bool {
	return s.cache.Contains(p.Path)
}

func (s *ImageStore) generation(path string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[path]
}

// Invalidate drops a cached entry after the file changed or vanished. Decodes
// already running for p finish but are not cached.
func (s *ImageStore) Invalidate(p ImagePath) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[p.Path]++
	s.loads.Forget(p.Path)
	s.cache.Remove(p.Path)
}

func (s *ImageStore) Len() int {
	return s.cache.Len()
}

// Preload schedules background decoding of paths.
func (s *ImageStore) Preload(paths []ImagePath) {
	s.preload.Request(paths)
}

func (s *ImageStore) PreloadStats() PreloadStats {
	return s.preload.GetStats()
}

// Close stops background work and empties the cache.
func (s *ImageStore) Close() {
	s.preload.Stop()
	s.cache.Purge()
}

// Image loading functions

func decodeImage(r io.Reader, name string) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return img, nil
}

func loadImageFromZip(archivePath, entryPath string) (image.Image, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return decodeImage(rc, entryPath)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func loadImageFromRar(archivePath, entryPath string) (image.Image, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Name == entryPath {
			data, err := io.ReadAll(r)
			if err != nil {
				return nil, err
			}
			return decodeImage(bytes.NewReader(data), entryPath)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func loadImageFrom7z(archivePath, entryPath string) (image.Image, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return decodeImage(rc, entryPath)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

// loadImage decodes a file or archive entry.
func loadImage(imagePath ImagePath) (image.Image, error) {
	if !imagePath.InArchive() {
		f, err := os.Open(imagePath.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return decodeImage(f, imagePath.Path)
	}

	ext := strings.ToLower(filepath.Ext(imagePath.ArchivePath))
	switch ext {
	case ".zip":
		return loadImageFromZip(imagePath.ArchivePath, imagePath.EntryPath)
	case ".rar":
		return loadImageFromRar(imagePath.ArchivePath, imagePath.EntryPath)
	case ".7z":
		return loadImageFrom7z(imagePath.ArchivePath, imagePath.EntryPath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}
