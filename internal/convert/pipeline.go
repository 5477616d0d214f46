package convert

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/rcliao/x-to-dayone/internal/archive"
	"github.com/rcliao/x-to-dayone/internal/media"
	"github.com/rcliao/x-to-dayone/internal/model"
	"github.com/rcliao/x-to-dayone/internal/pack"
)

// Options configures a conversion run.
type Options struct {
	Input      string
	Output     string
	StagingDir string // parent of the staging tree; OS temp dir when empty
}

// Result summarizes a conversion run. It is returned even when the run
// fails, filled in as far as the run got.
type Result struct {
	RunID       string               `json:"run_id"`
	Input       string               `json:"input"`
	Output      string               `json:"output"`
	StartedAt   time.Time            `json:"started_at"`
	FinishedAt  time.Time            `json:"finished_at"`
	Tweets      int                  `json:"tweets"`
	Entries     int                  `json:"entries"`
	Photos      int                  `json:"photos"`
	Videos      int                  `json:"videos"`
	OutputBytes int64                `json:"output_bytes"`
	Warnings    []model.MediaWarning `json:"warnings"`
	Media       []model.StagedMedia  `json:"-"`
}

// Pipeline runs archive → entries → zip conversions.
type Pipeline struct {
	log     logrus.FieldLogger
	entropy *rand.Rand
	newID   func() string
}

// NewPipeline returns a Pipeline logging to log.
func NewPipeline(log logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		log:     log,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		newID:   NewEntryID,
	}
}

func (p *Pipeline) newRunID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), p.entropy).String()
}

// Run converts the archive at opts.Input into a DayOne zip at opts.Output.
// The staging tree is removed on every return path. Cancelling ctx stops the
// run before the next tweet.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{
		RunID:     p.newRunID(),
		Input:     opts.Input,
		Output:    opts.Output,
		StartedAt: time.Now().UTC(),
		Warnings:  []model.MediaWarning{},
	}
	defer func() { res.FinishedAt = time.Now().UTC() }()

	layout, err := archive.Validate(opts.Input)
	if err != nil {
		return res, err
	}
	if !layout.HasMedia {
		p.log.WithField("dir", layout.MediaDir).Warn("no tweets_media directory found")
	}

	tweets, err := archive.Load(layout)
	if err != nil {
		return res, err
	}
	res.Tweets = len(tweets)
	p.log.Infof("loaded %d tweets from archive", len(tweets))
	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("conversion interrupted after loading: %w", err)
	}

	st, err := media.NewStaging(opts.StagingDir)
	if err != nil {
		return res, err
	}
	defer func() {
		if err := st.Cleanup(); err != nil {
			p.log.WithError(err).Warn("remove staging dir")
		}
	}()
	p.log.WithField("dir", st.Root).Debug("created staging dir")

	mediaDir := ""
	if layout.HasMedia {
		mediaDir = layout.MediaDir
	}
	conv := NewConverter(media.NewProcessor(media.NewResolver(mediaDir), st), p.log)
	conv.newID = p.newID

	entries := make([]model.JournalEntry, 0, len(tweets))
	for i, t := range tweets {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("conversion interrupted after %d of %d tweets: %w", i, len(tweets), err)
		}

		c, err := conv.Convert(t)
		if err != nil {
			return res, err
		}
		entries = append(entries, c.Entry)
		res.Entries++
		res.Photos += len(c.Entry.Photos)
		res.Videos += len(c.Entry.Videos)
		res.Media = append(res.Media, c.Staged...)
		res.Warnings = append(res.Warnings, c.Warnings...)

		p.log.WithFields(logrus.Fields{
			"tweet_id": t.ID,
			"photos":   len(c.Entry.Photos),
			"videos":   len(c.Entry.Videos),
		}).Debugf("converted tweet %d/%d", i+1, len(tweets))
	}

	p.log.WithField("output", opts.Output).Info("creating zip archive")
	size, err := pack.Write(ctx, opts.Output, pack.NewDocument(entries), st)
	if err != nil {
		return res, err
	}
	res.OutputBytes = size

	p.log.WithFields(logrus.Fields{
		"entries":  res.Entries,
		"photos":   res.Photos,
		"videos":   res.Videos,
		"warnings": len(res.Warnings),
		"size":     humanize.Bytes(uint64(size)),
	}).Info("export completed")
	return res, nil
}
