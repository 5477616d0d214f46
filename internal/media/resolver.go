// Package media resolves, hashes and stages the media files of a tweet.
package media

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rcliao/x-to-dayone/internal/model"
)

// Resolver finds media files in an archive's flat tweets_media directory.
type Resolver struct {
	Dir string
}

// NewResolver returns a Resolver over dir. An empty dir resolves nothing.
func NewResolver(dir string) *Resolver {
	return &Resolver{Dir: dir}
}

// Candidates returns the lookup patterns for ref in the order they are tried.
// The last pattern matches any extension.
func Candidates(ref model.MediaRef) []string {
	base := urlBase(ref.URL)
	if base == "" {
		return nil
	}
	stem, _, _ := strings.Cut(base, ".")
	return []string{
		ref.TweetID + "-" + base,
		base,
		ref.TweetID + "-" + stem + ".*",
	}
}

// Resolve returns the path of the first file matching ref, or false when no
// naming convention matches. File contents are not read.
func (r *Resolver) Resolve(ref model.MediaRef) (string, bool) {
	if r == nil || r.Dir == "" {
		return "", false
	}
	cands := Candidates(ref)
	for i, name := range cands {
		if i == len(cands)-1 {
			if p, ok := r.firstWithPrefix(strings.TrimSuffix(name, "*")); ok {
				return p, true
			}
			continue
		}
		p := filepath.Join(r.Dir, name)
		if isFile(p) {
			return p, true
		}
	}
	return "", false
}

func urlBase(u string) string {
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return u[i+1:]
	}
	return u
}

// firstWithPrefix returns the first regular file in name order whose name
// starts with prefix. Names are compared literally, so ids and URLs holding
// pattern characters need no escaping.
func (r *Resolver) firstWithPrefix(prefix string) (string, bool) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		p := filepath.Join(r.Dir, e.Name())
		if isFile(p) {
			return p, true
		}
	}
	return "", false
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
