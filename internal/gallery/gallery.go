// Package gallery manages captured-pass directories: per-pass metadata,
// thumbnail generation, and day-based retention. Ported from the original
// controller's generate_thumbs_in_place / rasyti_praejo_meta /
// nuskaityti_praejimus / cleanup_gallery, using golang.org/x/image/draw for
// the resize step in place of Pillow's LANCZOS resampling.
package gallery

import (
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/image/draw"
)

const thumbSize = 300

// LocalTimeLayout matches the original's isoformat(timespec="seconds") on a
// naive (no-offset) local datetime. Callers format start_local/end_local
// in this layout before passing them to Seal.
const LocalTimeLayout = "2006-01-02T15:04:05"

// thumbsDirName is the fixed subdirectory thumbnails are written into,
// matching generate_thumbs_in_place's thumbs_dir.
const thumbsDirName = "_thumbs"

// Meta is the sealed metadata for one completed pass, written as meta.json
// in the pass's gallery directory. Shape matches spec.md exactly; richer
// detail (PassID, images, max elevation) is derived from the directory
// itself rather than persisted, mirroring rasyti_praejo_meta.
type Meta struct {
	Satellite  string `json:"satellite"`
	StartLocal string `json:"start_local"`
	EndLocal   string `json:"end_local"`
	CreatedUTC string `json:"created_utc"`
}

// Store manages gallery entries rooted at root (NUOTRAUKU_KATALOGAS).
type Store struct {
	root string
}

// New returns a gallery store rooted at root.
func New(root string) *Store {
	return &Store{root: root}
}

// DirFor returns the directory a pass's artifacts live in.
func (s *Store) DirFor(passID string) string {
	return filepath.Join(s.root, sanitize(passID))
}

// Seal writes meta.json for a completed pass and regenerates thumbnails for
// every image in its directory tree, matching the original controller's
// generate_thumbs_in_place + rasyti_praejo_meta. satellite, startLocal, and
// endLocal are already formatted in the station's configured timezone by
// the caller (internal/tracker), since this package has no timezone of its
// own.
func (s *Store) Seal(passID, satellite, startLocal, endLocal string) error {
	dir := s.DirFor(passID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("gallery: mkdir %s: %w", dir, err)
	}

	if err := generateThumbs(dir); err != nil {
		return err
	}

	m := Meta{
		Satellite:  satellite,
		StartLocal: startLocal,
		EndLocal:   endLocal,
		CreatedUTC: time.Now().UTC().Format(LocalTimeLayout),
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "meta.json"), b, 0o644)
}

// GalleryPass is one catalogued entry as returned by ListPasses.
type GalleryPass struct {
	PassID string
	Meta   Meta
	Images []string
	Thumbs []string
}

// ListPasses enumerates every pass directory, sealed or not, sorted by
// meta.start_local descending where present (entries with it come first),
// else by directory name descending, matching nuskaityti_praejimus.
func (s *Store) ListPasses() ([]GalleryPass, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var passes []GalleryPass
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(s.root, e.Name())

		var m Meta
		if b, err := os.ReadFile(filepath.Join(dir, "meta.json")); err == nil {
			_ = json.Unmarshal(b, &m)
		}
		images, _ := listImages(dir)
		thumbs, _ := listImages(filepath.Join(dir, thumbsDirName))

		passes = append(passes, GalleryPass{PassID: e.Name(), Meta: m, Images: images, Thumbs: thumbs})
	}

	sort.Slice(passes, func(i, j int) bool {
		ki, oki := passes[i].Meta.StartLocal, passes[i].Meta.StartLocal != ""
		kj, okj := passes[j].Meta.StartLocal, passes[j].Meta.StartLocal != ""
		if oki && okj {
			return ki > kj
		}
		if oki != okj {
			return oki
		}
		return passes[i].PassID > passes[j].PassID
	})
	return passes, nil
}

// Cleanup removes pass directories older than keepDays, never touching the
// directory of currentPassID (the pass presently in progress, if any — it
// may not have a meta.json yet). loc is the station's configured timezone:
// both the cutoff and each directory's resolved age are computed in it,
// matching cleanup_gallery's to_local_naive comparisons. A directory's age
// is resolved through a fallback chain: meta.json's start_local, then the
// newest file's mtime anywhere in its tree, then the directory's own mtime.
// A directory for which none of these can be determined is kept rather
// than guessed away.
func (s *Store) Cleanup(keepDays int, currentPassID string, loc *time.Location) (removed int, err error) {
	if keepDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().In(loc).AddDate(0, 0, -keepDays)

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	for _, e := range entries {
		if !e.IsDir() || (currentPassID != "" && e.Name() == sanitize(currentPassID)) {
			continue
		}
		dir := filepath.Join(s.root, e.Name())

		age, ok := resolveAge(dir, loc)
		if !ok || age.After(cutoff) {
			continue
		}
		if rmErr := os.RemoveAll(dir); rmErr == nil {
			removed++
		}
	}
	return removed, nil
}

// resolveAge implements _pass_datetime_local's fallback chain for a pass
// directory's effective timestamp: meta.json's start_local, else the
// newest file mtime anywhere in the directory tree, else the directory's
// own mtime.
func resolveAge(dir string, loc *time.Location) (time.Time, bool) {
	if b, err := os.ReadFile(filepath.Join(dir, "meta.json")); err == nil {
		var m Meta
		if err := json.Unmarshal(b, &m); err == nil && m.StartLocal != "" {
			if t, err := time.ParseInLocation(LocalTimeLayout, m.StartLocal, loc); err == nil {
				return t, true
			}
		}
	}

	var newest time.Time
	found := false
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !found || info.ModTime().After(newest) {
			newest = info.ModTime()
			found = true
		}
		return nil
	})
	if found {
		return newest, true
	}

	info, err := os.Stat(dir)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if isImageExt(e.Name()) {
			images = append(images, e.Name())
		}
	}
	sort.Strings(images)
	return images, nil
}

func isImageExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}

// generateThumbs walks passDir (skipping thumbsDirName itself) and writes a
// center-cropped, resized copy of every image into thumbsDirName, matching
// generate_thumbs_in_place — including its staleness check: a thumbnail is
// only regenerated when missing or older than its source.
func generateThumbs(passDir string) error {
	thumbsDir := filepath.Join(passDir, thumbsDirName)
	if err := os.MkdirAll(thumbsDir, 0o755); err != nil {
		return fmt.Errorf("gallery: mkdir %s: %w", thumbsDir, err)
	}

	return filepath.WalkDir(passDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == thumbsDirName {
				return filepath.SkipDir
			}
			return nil
		}
		if !isImageExt(d.Name()) {
			return nil
		}

		srcInfo, err := d.Info()
		if err != nil {
			return nil
		}
		dst := filepath.Join(thumbsDir, thumbName(d.Name()))
		if dstInfo, err := os.Stat(dst); err == nil && !dstInfo.ModTime().Before(srcInfo.ModTime()) {
			return nil
		}
		// A single bad image must not block sealing the rest.
		_ = makeThumb(path, dst)
		return nil
	})
}

// thumbName maps a source image's filename to its thumbnail's filename.
// Thumbnails are always JPEG-encoded, so the extension is normalized.
func thumbName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".jpg"
}

// makeThumb center-crops src to a square and resizes it to thumbSize,
// writing the result to dst. This mirrors the original's _make_thumb:
// center-crop to the shorter side, then resample.
func makeThumb(srcPath, dstPath string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return err
	}

	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	cropRect := image.Rect(
		b.Min.X+(b.Dx()-side)/2,
		b.Min.Y+(b.Dy()-side)/2,
		b.Min.X+(b.Dx()-side)/2+side,
		b.Min.Y+(b.Dy()-side)/2+side,
	)

	thumb := image.NewRGBA(image.Rect(0, 0, thumbSize, thumbSize))
	draw.CatmullRom.Scale(thumb, thumb.Bounds(), src, cropRect, draw.Over, nil)

	out, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return jpeg.Encode(out, thumb, &jpeg.Options{Quality: 85})
}

func sanitize(passID string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(passID)
}
