package documents

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// PathToURI converts a file system path to a file:// URI, percent-encoding
// each path segment
func PathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		// windows drive: C:/proj
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return u.String()
}

// URIToPath converts a file:// URI to a file system path. Anything that is
// not a file URI is returned with its scheme stripped.
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return filepath.FromSlash(strings.TrimPrefix(uri, "file://"))
	}

	p := u.Path
	if u.Host != "" && u.Host != "localhost" {
		if runtime.GOOS == "windows" {
			return `\\` + u.Host + filepath.FromSlash(p)
		}
		p = "//" + u.Host + p
	}
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p)
}
