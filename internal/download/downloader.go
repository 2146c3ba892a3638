package download

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// indexFileName is the filename used for HTML documents whose URL path
// does not name a file, such as the site root or a directory URL.
const indexFileName = "index.html"

// Downloader saves fetched documents under a root directory, mirroring
// the site's structure as <root>/<host>/<path>. It satisfies the crawl
// engine's Saver interface.
//
// Design decision: The downloader never overwrites existing files.
// A crawl can visit equivalent URLs whose derived paths collide (for
// example "/a" and "/a/index.html" when "/a" serves HTML), and first
// write wins is simpler and safer than last write wins.
type Downloader struct {
	// root is the directory all files are written under.
	root string
}

// NewDownloader creates a Downloader writing under the given root
// directory. The root itself is created on the first save.
func NewDownloader(root string) *Downloader {
	return &Downloader{root: root}
}

// Save writes body to the path derived from the URL and returns the
// path it wrote. Parent directories are created as needed.
func (d *Downloader) Save(u *url.URL, isHTML bool, body []byte) (string, error) {
	rel, err := derivePath(u, isHTML)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(d.root, rel)

	// Join cleans ".." segments, so a malicious path could resolve above
	// the root. Verify the final destination is still inside it.
	absRoot, err := filepath.Abs(d.root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve download root: %w", err)
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("failed to resolve destination: %w", err)
	}
	if absDest != absRoot && !strings.HasPrefix(absDest, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, rel)
	}

	if _, err := os.Stat(dest); err == nil {
		return "", fmt.Errorf("%w: %s", ErrFileExists, dest)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(dest, body, 0600); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return dest, nil
}

// derivePath maps a URL to a relative filesystem path: the host
// followed by the URL path. HTML documents that do not already name an
// .html file get indexFileName appended, so directory-like URLs ("/",
// "/docs/") and extensionless pages ("/about") save as real files.
func derivePath(u *url.URL, isHTML bool) (string, error) {
	if u.Host == "" {
		return "", fmt.Errorf("%w: empty host", ErrEmptyPath)
	}

	// path.Clean on the URL path, then strip the edges; the host becomes
	// the first directory component.
	p := strings.Trim(path.Clean("/"+u.Path), "/")

	if isHTML {
		switch {
		case p == "" || p == ".":
			p = indexFileName
		case strings.HasSuffix(u.Path, "/"):
			p = path.Join(p, indexFileName)
		case !strings.HasSuffix(p, ".html"):
			p = p + "/" + indexFileName
		}
	} else if p == "" || p == "." {
		// A non-HTML resource with no path has no usable filename
		return "", fmt.Errorf("%w: %s", ErrEmptyPath, u.String())
	}

	return filepath.Join(u.Host, filepath.FromSlash(p)), nil
}
