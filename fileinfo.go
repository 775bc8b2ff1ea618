package main

import (
	"errors"
	"fmt"
	"image"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// FileInfo is the metadata shown in the info display.
type FileInfo struct {
	Path     string
	Size     int64
	Created  time.Time // zero when the platform does not expose it
	Modified time.Time
	Width    int
	Height   int
	EXIF     map[string]string
}

// ReadFileInfo stats path and extracts dimensions and a few EXIF fields.
// Missing EXIF data is not an error.
func ReadFileInfo(path string) (*FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	info := &FileInfo{
		Path:     path,
		Size:     st.Size(),
		Modified: st.ModTime(),
		Created:  creationTime(path, st),
		EXIF:     map[string]string{},
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if cfg, _, err := image.DecodeConfig(f); err == nil {
		info.Width, info.Height = cfg.Width, cfg.Height
	}

	if _, err := f.Seek(0, 0); err != nil {
		return info, nil
	}
	if x, err := exif.Decode(f); err == nil {
		readEXIFFields(x, info.EXIF)
	}
	return info, nil
}

func readEXIFFields(x *exif.Exif, out map[string]string) {
	if tag, err := x.Get(exif.Make); err == nil {
		if s, err := tag.StringVal(); err == nil {
			out["Camera Make"] = strings.TrimSpace(s)
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if s, err := tag.StringVal(); err == nil {
			out["Camera Model"] = strings.TrimSpace(s)
		}
	}
	if tag, err := x.Get(exif.FNumber); err == nil {
		if numer, denom, err := tag.Rat2(0); err == nil && denom != 0 {
			out["F-Number"] = fmt.Sprintf("f/%.1f", float64(numer)/float64(denom))
		}
	}
	if tag, err := x.Get(exif.ExposureTime); err == nil {
		if numer, denom, err := tag.Rat2(0); err == nil {
			out["Exposure Time"] = fmt.Sprintf("%d/%d s", numer, denom)
		}
	}
	if t, err := x.DateTime(); err == nil {
		out["Date Taken"] = t.Format(dateTimeLayout)
	}
}

const dateTimeLayout = "2006-01-02 / 15:04:05"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// BytesToSize formats n with up to two decimals in 1024-based units,
// e.g. "1.5 KB".
func BytesToSize(n int64) string {
	v := float64(n)
	order := 0
	for v >= 1024 && order < len(sizeUnits)-1 {
		order++
		v /= 1024
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[order]
}

// Trash moves files into a freedesktop.org trash directory.
type Trash struct {
	Dir string // home trash; contains files/ and info/

	// device reports the file system a path lives on; nil uses fileDevice.
	device func(path string) (uint64, bool)
}

// DefaultTrash returns the home trash ($XDG_DATA_HOME/Trash).
func DefaultTrash() (*Trash, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locating trash: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return &Trash{Dir: filepath.Join(dataHome, "Trash")}, nil
}

// Move puts path into the trash and records its origin. It returns the
// location of the trashed file.
func (t *Trash) Move(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("trash %s: %w", path, err)
	}

	dir, top := t.trashFor(abs)
	filesDir := filepath.Join(dir, "files")
	infoDir := filepath.Join(dir, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return "", fmt.Errorf("creating %s: %w", d, err)
		}
	}

	name, infoFile, err := t.reserveName(infoDir, filepath.Base(abs))
	if err != nil {
		return "", err
	}

	// Top directory trashes record the path relative to the mount.
	recorded := filepath.ToSlash(abs)
	if top != "" {
		if rel, err := filepath.Rel(top, abs); err == nil {
			recorded = filepath.ToSlash(rel)
		}
	}
	u := url.URL{Path: recorded}
	content := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		u.EscapedPath(), time.Now().Format("2006-01-02T15:04:05"))
	if _, err := infoFile.WriteString(content); err != nil {
		infoFile.Close()
		os.Remove(infoFile.Name())
		return "", fmt.Errorf("writing trash info: %w", err)
	}
	infoFile.Close()

	dest := filepath.Join(filesDir, name)
	if err := os.Rename(abs, dest); err != nil {
		os.Remove(infoFile.Name())
		return "", fmt.Errorf("moving %s to trash: %w", path, err)
	}
	return dest, nil
}

// trashFor picks a trash on the same file system as abs. That is the home
// trash when it shares the device; otherwise $topdir/.Trash/$uid when the
// shared directory is usable, else $topdir/.Trash-$uid. top is the mount
// point for the latter two and empty for the home trash.
func (t *Trash) trashFor(abs string) (dir, top string) {
	device := t.device
	if device == nil {
		device = fileDevice
	}

	fileDev, ok := device(abs)
	if !ok {
		return t.Dir, ""
	}
	if homeDev, ok := device(existingAncestor(t.Dir)); !ok || homeDev == fileDev {
		return t.Dir, ""
	}

	top = filepath.Dir(abs)
	for {
		parent := filepath.Dir(top)
		if parent == top {
			break
		}
		if dev, ok := device(parent); !ok || dev != fileDev {
			break
		}
		top = parent
	}

	uid := strconv.Itoa(os.Getuid())
	shared := filepath.Join(top, ".Trash")
	if st, err := os.Lstat(shared); err == nil && st.IsDir() && st.Mode()&os.ModeSticky != 0 {
		return filepath.Join(shared, uid), top
	}
	return filepath.Join(top, ".Trash-"+uid), top
}

// existingAncestor returns path or its nearest parent that exists.
func existingAncestor(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}

// reserveName creates the .trashinfo file exclusively, picking "name.N" on
// collision, and returns the chosen file name.
func (t *Trash) reserveName(infoDir, base string) (string, *os.File, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 0; i < 1000; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s.%d%s", stem, i, ext)
		}
		f, err := os.OpenFile(filepath.Join(infoDir, name+".trashinfo"), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			return name, f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", nil, fmt.Errorf("reserving trash entry: %w", err)
		}
	}
	return "", nil, fmt.Errorf("no free trash name for %s", base)
}
