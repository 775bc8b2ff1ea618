package main

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
)

// ImageExtensions is the whitelist of sibling image extensions. The literal set
// and its case are part of the navigator's observable behaviour.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".jpe", ".jfif", ".exif", ".gif", ".bmp", ".dib", ".rle"}

// ImagePath identifies an image either on disk or inside an archive.
type ImagePath struct {
	Path        string // Local file path or archive:entry format
	ArchivePath string // Empty for regular files, path to archive for entries
	EntryPath   string // Empty for regular files, path within archive for entries
}

// InArchive reports whether the image lives inside an archive.
func (p ImagePath) InArchive() bool {
	return p.ArchivePath != ""
}

// Name returns the base name shown in the title bar and info display.
func (p ImagePath) Name() string {
	if p.InArchive() {
		return filepath.Base(p.EntryPath)
	}
	return filepath.Base(p.Path)
}

// NewFileImagePath wraps a plain file path.
func NewFileImagePath(path string) ImagePath {
	return ImagePath{Path: path}
}

func newArchiveImagePath(archivePath, entryPath string) ImagePath {
	return ImagePath{
		Path:        archivePath + ":" + entryPath,
		ArchivePath: archivePath,
		EntryPath:   entryPath,
	}
}

// ListOptions controls sibling enumeration.
type ListOptions struct {
	CaseInsensitive bool
	SortMethod      int
}

// IsImageExt reports whether path carries one of ImageExtensions.
func IsImageExt(path string, caseInsensitive bool) bool {
	ext := filepath.Ext(path)
	if caseInsensitive {
		ext = strings.ToLower(ext)
	}
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func isArchiveExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".zip", ".rar", ".7z":
		return true
	default:
		return false
	}
}

// ListSiblingImages returns the image files directly inside dir, in directory
// enumeration order unless opts selects another sort strategy. A directory with
// no matching files yields an empty slice and no error.
func ListSiblingImages(dir string, opts ListOptions) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("opening directory %s: %w", dir, err)
	}
	defer f.Close()

	// Readdirnames keeps the order the file system hands back; os.ReadDir would sort.
	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var images []ImagePath
	for _, name := range names {
		if !IsImageExt(name, opts.CaseInsensitive) {
			continue
		}
		fullPath := filepath.Join(dir, name)
		info, err := os.Stat(fullPath)
		if err != nil || info.IsDir() {
			continue
		}
		images = append(images, NewFileImagePath(fullPath))
	}

	sorted := sortImagePaths(images, opts.SortMethod)
	paths := make([]string, len(sorted))
	for i, p := range sorted {
		paths[i] = p.Path
	}
	return paths, nil
}

// IndexOf returns the position of current in siblings, or -1.
func IndexOf(current string, siblings []string) int {
	for i, p := range siblings {
		if p == current {
			return i
		}
	}
	return -1
}

// Next returns the sibling after current, wrapping to the first. A current
// path that is no longer listed is treated as index 0. siblings must not be
// empty; an empty slice yields "".
func Next(current string, siblings []string) string {
	if len(siblings) == 0 {
		return ""
	}
	idx := IndexOf(current, siblings)
	if idx < 0 {
		idx = 0
	}
	if idx == len(siblings)-1 {
		return siblings[0]
	}
	return siblings[idx+1]
}

// Previous returns the sibling before current, wrapping to the last.
func Previous(current string, siblings []string) string {
	if len(siblings) == 0 {
		return ""
	}
	idx := IndexOf(current, siblings)
	if idx < 0 {
		idx = 0
	}
	if idx == 0 {
		return siblings[len(siblings)-1]
	}
	return siblings[idx-1]
}

// NextImagePath and PreviousImagePath apply Next/Previous to ImagePath lists
// such as archive contents.
func NextImagePath(current ImagePath, siblings []ImagePath) (ImagePath, bool) {
	return stepImagePath(current, siblings, Next)
}

func PreviousImagePath(current ImagePath, siblings []ImagePath) (ImagePath, bool) {
	return stepImagePath(current, siblings, Previous)
}

func stepImagePath(current ImagePath, siblings []ImagePath, step func(string, []string) string) (ImagePath, bool) {
	if len(siblings) == 0 {
		return ImagePath{}, false
	}
	keys := imagePathKeys(siblings)
	target := step(current.Path, keys)
	return siblings[IndexOf(target, keys)], true
}

func imagePathKeys(images []ImagePath) []string {
	keys := make([]string, len(images))
	for i, p := range images {
		keys[i] = p.Path
	}
	return keys
}

// ListArchiveImages returns the image entries of a zip, rar or 7z archive.
func ListArchiveImages(archivePath string, opts ListOptions) ([]ImagePath, error) {
	var (
		images []ImagePath
		err    error
	)

	ext := strings.ToLower(filepath.Ext(archivePath))
	switch ext {
	case ".zip":
		images, err = extractImagesFromZip(archivePath, opts.CaseInsensitive)
	case ".rar":
		images, err = extractImagesFromRar(archivePath, opts.CaseInsensitive)
	case ".7z":
		images, err = extractImagesFrom7z(archivePath, opts.CaseInsensitive)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", archivePath, err)
	}

	return sortImagePaths(images, opts.SortMethod), nil
}

func extractImagesFromZip(archivePath string, caseInsensitive bool) ([]ImagePath, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var images []ImagePath
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && IsImageExt(f.Name, caseInsensitive) {
			images = append(images, newArchiveImagePath(archivePath, f.Name))
		}
	}
	return images, nil
}

func extractImagesFromRar(archivePath string, caseInsensitive bool) ([]ImagePath, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	var images []ImagePath
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !header.IsDir && IsImageExt(header.Name, caseInsensitive) {
			images = append(images, newArchiveImagePath(archivePath, header.Name))
		}
	}
	return images, nil
}

func extractImagesFrom7z(archivePath string, caseInsensitive bool) ([]ImagePath, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var images []ImagePath
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && IsImageExt(f.Name, caseInsensitive) {
			images = append(images, newArchiveImagePath(archivePath, f.Name))
		}
	}
	return images, nil
}
