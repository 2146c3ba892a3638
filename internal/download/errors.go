package download

import "errors"

// Download errors.
// All of these are per-file errors: the engine logs and counts them,
// and the crawl continues.
var (
	// ErrFileExists is returned when the derived path already holds a
	// file. Existing files are never overwritten, so re-running a crawl
	// into the same directory keeps the first copy.
	ErrFileExists = errors.New("file already exists")

	// ErrPathEscapes is returned when the derived path would land
	// outside the download root. URLs with ".." path segments could
	// otherwise write anywhere on disk.
	ErrPathEscapes = errors.New("derived path escapes download root")

	// ErrEmptyPath is returned when no usable filename can be derived
	// from the URL.
	ErrEmptyPath = errors.New("cannot derive a file path from URL")
)
