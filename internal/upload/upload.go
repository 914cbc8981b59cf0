package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ErrInvalid wraps every rejection caused by the uploaded file itself.
var ErrInvalid = errors.New("invalid upload")

// URLPrefix is where stored files are served from.
const URLPrefix = "/uploads/"

// KindVideo selects the video whitelist; every other kind accepts images.
const KindVideo = "video"

var (
	videoTypes = map[string]string{"video/mp4": ".mp4", "video/webm": ".webm", "video/ogg": ".ogv"}
	imageTypes = map[string]string{"image/jpeg": ".jpg", "image/png": ".png", "image/gif": ".gif", "image/webp": ".webp"}

	kindPattern = regexp.MustCompile(`^[a-z0-9-]{1,32}$`)
)

// File describes a stored upload.
type File struct {
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
}

// Store writes uploads below <root>/uploads on an afero filesystem.
type Store struct {
	fs       afero.Fs
	root     string
	maxBytes int64
	newID    func() string
}

// NewStore creates a Store. maxMB caps the size of a single file.
func NewStore(fs afero.Fs, root string, maxMB int64) *Store {
	return &Store{
		fs:       fs,
		root:     filepath.Join(root, "uploads"),
		maxBytes: maxMB << 20,
		newID:    uuid.NewString,
	}
}

// MaxBytes is the largest accepted file.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save validates fh against the whitelist for kind and copies it into <kind or "files">/<uuid><ext>,
// where ext is the one registered for the accepted type.
func (s *Store) Save(fh *multipart.FileHeader, kind string) (*File, error) {
	if fh == nil {
		return nil, fmt.Errorf("%w: no file uploaded", ErrInvalid)
	}
	if fh.Size > s.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds %d MB", ErrInvalid, s.maxBytes>>20)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	contentType, err := detectType(fh.Header.Get("Content-Type"), src)
	if err != nil {
		return nil, err
	}
	allowed := imageTypes
	if kind == KindVideo {
		allowed = videoTypes
	}
	ext, ok := allowed[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: file type %q is not allowed", ErrInvalid, contentType)
	}

	dir := "files"
	if kindPattern.MatchString(kind) {
		dir = kind
	}
	// The stored extension follows the accepted type, never the client's filename.
	name := s.newID() + ext

	if err := s.fs.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	dst, err := s.fs.Create(filepath.Join(s.root, dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()
	written, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to write upload file: %w", err)
	}
	if written > s.maxBytes {
		_ = s.fs.Remove(filepath.Join(s.root, dir, name))
		return nil, fmt.Errorf("%w: file exceeds %d MB", ErrInvalid, s.maxBytes>>20)
	}

	return &File{
		URL:          URLPrefix + path.Join(dir, name),
		Filename:     name,
		OriginalName: filepath.Base(fh.Filename),
		Size:         written,
		Type:         contentType,
	}, nil
}

// detectType trusts a declared media type and sniffs the content when none was sent.
// The reader is rewound afterwards.
func detectType(declared string, src multipart.File) (string, error) {
	if declared != "" && declared != "application/octet-stream" {
		mt, _, err := mime.ParseMediaType(declared)
		if err != nil {
			return "", fmt.Errorf("%w: malformed content type", ErrInvalid)
		}
		return strings.ToLower(mt), nil
	}
	sniffed, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("failed to sniff upload type: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}
	mt, _, _ := mime.ParseMediaType(sniffed.String())
	return mt, nil
}

// Handler serves stored files under URLPrefix.
func (s *Store) Handler() http.Handler {
	return http.StripPrefix(URLPrefix, http.FileServer(afero.NewHttpFs(s.fs).Dir(s.root)))
}
