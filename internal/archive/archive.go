// Package archive locates and parses the tweet data of a Twitter/X export.
package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/rcliao/x-to-dayone/internal/model"
)

const (
	dataDir    = "data"
	tweetsFile = "tweets.js"
	mediaDir   = "tweets_media"
)

// Layout holds the resolved paths of an export archive.
type Layout struct {
	Root     string
	Tweets   string
	MediaDir string
	HasMedia bool
}

// wrapperRe matches an assignment in front of the array, such as the
// export's "window.YTD.tweets.part0 = ".
var wrapperRe = regexp.MustCompile(`^[^=\[]*=\s*`)

var partRe = regexp.MustCompile(`^tweets-part([0-9]+)\.js$`)

// Validate checks that root looks like an export archive. A missing media
// directory is not an error; HasMedia reports it.
func Validate(root string) (Layout, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return Layout{}, &ArchiveNotFoundError{Path: root}
	}

	l := Layout{
		Root:     root,
		Tweets:   filepath.Join(root, dataDir, tweetsFile),
		MediaDir: filepath.Join(root, dataDir, mediaDir),
	}
	if _, err := os.Stat(l.Tweets); err != nil {
		return Layout{}, &ArchiveNotFoundError{Path: l.Tweets}
	}
	if info, err := os.Stat(l.MediaDir); err == nil && info.IsDir() {
		l.HasMedia = true
	}
	return l, nil
}

// Load reads tweets.js followed by any tweets-partN.js continuation files
// and returns the tweets in archive order.
func Load(l Layout) ([]model.Tweet, error) {
	files, err := tweetFiles(l)
	if err != nil {
		return nil, err
	}

	var tweets []model.Tweet
	for _, path := range files {
		ts, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, ts...)
	}
	return tweets, nil
}

func tweetFiles(l Layout) ([]string, error) {
	files := []string{l.Tweets}

	entries, err := os.ReadDir(filepath.Dir(l.Tweets))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ArchiveNotFoundError{Path: l.Tweets}
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	type part struct {
		n    int
		path string
	}
	var parts []part
	for _, e := range entries {
		m := partRe.FindStringSubmatch(e.Name())
		if m == nil || e.IsDir() {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		parts = append(parts, part{n: n, path: filepath.Join(filepath.Dir(l.Tweets), e.Name())})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].n < parts[j].n })

	for _, p := range parts {
		files = append(files, p.path)
	}
	return files, nil
}

// ReadFile parses a single tweets data file.
func ReadFile(path string) ([]model.Tweet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ArchiveNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	payload, err := stripWrapper(raw)
	if err != nil {
		return nil, &ArchiveFormatError{Path: path, Reason: err.Error()}
	}

	var items []model.TweetItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, &ArchiveFormatError{Path: path, Reason: "invalid JSON", Err: err}
	}

	tweets := make([]model.Tweet, 0, len(items))
	for i, it := range items {
		if it.Tweet == nil {
			return nil, &ArchiveFormatError{Path: path, Reason: fmt.Sprintf("item %d has no tweet object", i)}
		}
		tweets = append(tweets, *it.Tweet)
	}
	return tweets, nil
}

// stripWrapper removes the leading assignment and an optional trailing
// semicolon. A bare JSON array passes through unchanged.
func stripWrapper(raw []byte) ([]byte, error) {
	b := bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	b = bytes.TrimSpace(b)

	if loc := wrapperRe.FindIndex(b); loc != nil {
		b = b[loc[1]:]
	} else if len(b) == 0 || b[0] != '[' {
		return nil, errors.New("unrecognised assignment wrapper")
	}

	b = bytes.TrimSpace(b)
	b = bytes.TrimSuffix(b, []byte(";"))
	return b, nil
}
