package download

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// FallbackExtension is appended to generated filenames
const FallbackExtension = ".file"

// Resolver derives destination filenames from URLs
type Resolver struct {
	now func() time.Time
}

// NewResolver creates a resolver using the wall clock
func NewResolver() *Resolver {
	return &Resolver{now: time.Now}
}

// NewResolverWithClock creates a resolver reading time from now
func NewResolverWithClock(now func() time.Time) *Resolver {
	return &Resolver{now: now}
}

// Resolve returns the last path segment of rawURL when it contains a ".",
// otherwise a name built from the current time in milliseconds.
func (r *Resolver) Resolve(rawURL string) string {
	name := lastPathSegment(rawURL)
	if name == "" || !strings.Contains(name, ".") {
		return r.generate()
	}
	return name
}

func (r *Resolver) generate() string {
	return fmt.Sprintf("%d%s", r.now().UnixMilli(), FallbackExtension)
}

// lastPathSegment returns the decoded last non-empty path segment, or "" when
// the URL has no hierarchical path or the segment cannot be a plain file name.
func lastPathSegment(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)

	var escapedPath string
	if u, err := url.Parse(rawURL); err == nil {
		if u.Opaque != "" {
			// mailto:, urn: and similar have no path segments
			return ""
		}
		escapedPath = u.EscapedPath()
	} else {
		escapedPath = rawPath(rawURL)
	}

	segments := strings.FieldsFunc(escapedPath, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return ""
	}

	segment, err := url.PathUnescape(segments[len(segments)-1])
	if err != nil {
		segment = segments[len(segments)-1]
	}
	if segment == "." || segment == ".." || strings.ContainsAny(segment, "/\\\x00") {
		return ""
	}
	return segment
}

// rawPath extracts the path part of a string url.Parse refused
func rawPath(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+len("://"):]
		if j := strings.Index(s, "/"); j >= 0 {
			return s[j:]
		}
		return ""
	}
	return s
}
