package media

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rcliao/x-to-dayone/internal/model"
)

// MomentScheme is the locator scheme DayOne resolves inline media with.
const MomentScheme = "dayone-moment"

// DateLayout is the timestamp format used throughout the journal document.
const DateLayout = "2006-01-02T15:04:05Z"

func newWarning(ref model.MediaRef) model.MediaWarning {
	id := ref.TweetID
	if id == "" {
		id = "unknown"
	}
	return model.MediaWarning{
		TweetID: ref.TweetID,
		URL:     ref.URL,
		Message: fmt.Sprintf("Media file not found for tweet %s: %s", id, ref.URL),
	}
}

// Outcome is the result of processing one media reference. Exactly one of
// Media or Warning is set.
type Outcome struct {
	Media   *model.MediaMetadata
	Token   string
	Staged  *model.StagedMedia
	Warning *model.MediaWarning
}

// OK reports whether the media item was resolved and staged.
func (o Outcome) OK() bool {
	return o.Media != nil
}

// Processor resolves media references and copies them into staging.
type Processor struct {
	resolver *Resolver
	staging  *Staging
}

// NewProcessor returns a Processor staging into s.
func NewProcessor(r *Resolver, s *Staging) *Processor {
	return &Processor{resolver: r, staging: s}
}

// Process handles one media reference of a tweet created at created.
// An unresolved reference is not an error: the Outcome carries a Warning.
// Errors are returned only for I/O failures on resolved files.
func (p *Processor) Process(ref model.MediaRef, created time.Time) (Outcome, error) {
	path, ok := p.resolver.Resolve(ref)
	if !ok {
		w := newWarning(ref)
		return Outcome{Warning: &w}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Outcome{}, fmt.Errorf("read media %s: %w", path, err)
	}
	sum := md5.Sum(content)
	hash := hex.EncodeToString(sum[:])

	video := ref.IsVideo()
	meta := &model.MediaMetadata{
		Identifier: hash,
		Date:       created.UTC().Format(DateLayout),
		Type:       model.TypeJPG,
		MD5:        hash,
	}
	dest := filepath.Join(p.staging.PhotosDir(), hash+".jpg")
	if video {
		meta.Type = model.TypeMP4
		dest = filepath.Join(p.staging.VideosDir(), hash+".mp4")
	}
	if w, h, ok := ref.Dimensions(); ok {
		meta.Width = w
		meta.Height = h
	}

	if err := stage(dest, content, path); err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Media: meta,
		Token: Token(hash, video),
		Staged: &model.StagedMedia{
			MD5:     hash,
			Type:    meta.Type,
			Bytes:   int64(len(content)),
			TweetID: ref.TweetID,
			Source:  path,
		},
	}, nil
}

// Token returns the inline reference embedded in entry text. Videos use the
// single-slash form the importer expects.
func Token(hash string, video bool) string {
	if video {
		return "![](" + MomentScheme + ":/video/" + hash + ")"
	}
	return "![](" + MomentScheme + "://" + hash + ")"
}

// stage writes content to dest unless identical content is already there.
// The name is the content hash, so an existing file holds the same bytes.
func stage(dest string, content []byte, src string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", dest, err)
	}

	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return fmt.Errorf("stage media %s: %w", src, err)
	}
	return nil
}
