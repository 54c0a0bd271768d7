package doublon

import (
	"crypto/md5" //nolint:gosec // Content equality check, not authentication
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"time"
)

// DefaultProbeWidth is the number of leading bytes read for the cheap
// pre-filter fingerprint.
const DefaultProbeWidth = 5

// Record holds the metadata of one discovered file.
//
// Path, Name, Size and ModTime are fixed at discovery time (a single stat).
// The fingerprint and checksum are read from disk on first request and
// memoized; a Record is only ever mutated to populate these caches.
type Record struct {
	// Path is the cleaned path of the file.
	Path string `json:"path"`
	// Name is the base name of the file.
	Name string `json:"name"`
	// Size is the file length in bytes.
	Size int64 `json:"size"`
	// ModTime is the last-modification timestamp.
	ModTime time.Time `json:"mod_time"`

	fingerprint []byte
	fpWidth     int
	checksum    string
}

// NewRecord stats path and returns a record for it. It fails with an
// AccessError when the path cannot be stat'ed.
func NewRecord(path string) (*Record, error) {
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, &AccessError{Path: path, Err: err}
	}

	return &Record{
		Path:    path,
		Name:    filepath.Base(path),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// newRecordFromInfo builds a record from metadata already obtained during a
// directory walk, avoiding a second stat.
func newRecordFromInfo(path string, size int64, modTime time.Time) *Record {
	return &Record{
		Path:    filepath.Clean(path),
		Name:    filepath.Base(path),
		Size:    size,
		ModTime: modTime,
	}
}

// Fingerprint returns the first width bytes of the file content, hex
// encoded. Files shorter than width yield their full content; within one
// size class that is unambiguous. The value is cached per width: a repeat
// call with the same width never re-reads the file, a different width
// recomputes.
func (r *Record) Fingerprint(width int) (string, error) {
	if width <= 0 {
		width = DefaultProbeWidth
	}

	if r.fpWidth != width {
		f, err := os.Open(r.Path)
		if err != nil {
			return "", &AccessError{Path: r.Path, Err: err}
		}
		defer f.Close()

		buf := make([]byte, width)

		n, err := io.ReadFull(f, buf)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return "", &AccessError{Path: r.Path, Err: err}
		}

		r.fingerprint = buf[:n]
		r.fpWidth = width
	}

	return hex.EncodeToString(r.fingerprint), nil
}

// Checksum returns the MD5 digest of the full file content, hex encoded,
// computing and caching it on first call. Grouping only requests it for
// files that already matched on size and fingerprint.
func (r *Record) Checksum() (string, error) {
	if r.checksum == "" {
		f, err := os.Open(r.Path)
		if err != nil {
			return "", &AccessError{Path: r.Path, Err: err}
		}
		defer f.Close()

		h := md5.New() //nolint:gosec // Content equality check, not authentication

		if _, err := io.Copy(h, f); err != nil {
			return "", &AccessError{Path: r.Path, Err: err}
		}

		r.checksum = hex.EncodeToString(h.Sum(nil))
	}

	return r.checksum, nil
}
