// Package storage keeps uploaded media on disk under per-bucket
// directories and hands back public URLs. The gallery and sponsor
// buckets share one store; deletion takes the URL a previous upload
// returned and resolves the filename from it.
package storage

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Bucket names.
const (
	BucketGallery  = "gallery"
	BucketSponsors = "sponsors"
)

// ErrUnsupportedImage marks a decode/convert failure, reported
// distinctly from upload failures.
var ErrUnsupportedImage = errors.New("unsupported image format (use JPEG, PNG or GIF)")

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

type Store struct {
	root    string // e.g. "uploads"
	baseURL string // e.g. "http://localhost:8080"
}

func New(root, baseURL string) (*Store, error) {
	for _, b := range []string{BucketGallery, BucketSponsors} {
		if err := os.MkdirAll(filepath.Join(root, b), 0o755); err != nil {
			return nil, fmt.Errorf("create bucket dir: %w", err)
		}
	}
	return &Store{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// UniqueName builds a collision-free stored filename from the original
// one: date, uuid, then the sanitized original.
func UniqueName(original string) string {
	safe := unsafeChars.ReplaceAllString(filepath.Base(original), "_")
	return fmt.Sprintf("%s-%s-%s", time.Now().Format("20060102"), uuid.New().String(), safe)
}

// ValidateImage reports whether the payload decodes as a supported
// image, without storing anything.
func ValidateImage(r io.Reader) error {
	if _, err := imaging.Decode(r); err != nil {
		return ErrUnsupportedImage
	}
	return nil
}

// Save writes the upload into the bucket and returns its public URL.
func (s *Store) Save(bucket, name string, r io.Reader) (string, error) {
	dst := filepath.Join(s.root, bucket, name)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write upload: %w", err)
	}
	return s.publicURL(bucket, name), nil
}

// SaveThumbnail decodes the image, scales it to thumbWidth wide and
// stores it as a JPEG next to the original. Decode failure is a
// conversion error, not an upload error.
func (s *Store) SaveThumbnail(bucket, name string, r io.Reader, thumbWidth int) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", ErrUnsupportedImage
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)

	thumbName := "thumb-" + strings.TrimSuffix(name, path.Ext(name)) + ".jpg"
	dst := filepath.Join(s.root, bucket, thumbName)
	if err := imaging.Save(thumb, dst, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("write thumbnail: %w", err)
	}
	return s.publicURL(bucket, thumbName), nil
}

// Remove deletes the file a previously returned URL points at. A URL
// from another origin or with no filename is ignored, matching the
// storage client this replaces.
func (s *Store) Remove(bucket, fileURL string) error {
	name := FilenameFromURL(fileURL)
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, bucket, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// Root is the directory the router serves at /uploads/.
func (s *Store) Root() string { return s.root }

// FilenameFromURL extracts the final path segment of an upload URL.
func FilenameFromURL(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func (s *Store) publicURL(bucket, name string) string {
	return s.baseURL + "/uploads/" + bucket + "/" + url.PathEscape(name)
}
