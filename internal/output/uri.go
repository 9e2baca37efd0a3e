package output

import (
	"net/url"
	"path/filepath"
	"strings"
)

// canonicalTargetURI renders a target path as a file:// URI regardless of how
// the original string was supplied (absolute, relative, already a URI). The
// log format guarantees file:// rendering for tooling portability.
func canonicalTargetURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		if u, err := url.Parse(path); err == nil {
			return u.String()
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		// Windows drive paths ("C:/...") need a leading slash in the URI path.
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
