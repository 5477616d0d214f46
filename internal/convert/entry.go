// Package convert turns archive tweets into DayOne journal entries and drives
// the end-to-end conversion.
package convert

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rcliao/x-to-dayone/internal/media"
	"github.com/rcliao/x-to-dayone/internal/model"
)

// TweetTimeLayout is the created_at format used by the export.
const TweetTimeLayout = "Mon Jan 02 15:04:05 -0700 2006"

// TimestampParseError reports a tweet whose created_at could not be parsed.
type TimestampParseError struct {
	TweetID string
	Value   string
	Err     error
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("tweet %s: invalid created_at %q: %v", e.TweetID, e.Value, e.Err)
}

func (e *TimestampParseError) Unwrap() error {
	return e.Err
}

// NewEntryID returns a random 32 character uppercase hex identifier.
func NewEntryID() string {
	id := uuid.New()
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
}

// Converter maps tweets to journal entries.
type Converter struct {
	proc  *media.Processor
	newID func() string
	log   logrus.FieldLogger
}

// NewConverter returns a Converter that stages media through proc.
func NewConverter(proc *media.Processor, log logrus.FieldLogger) *Converter {
	return &Converter{proc: proc, newID: NewEntryID, log: log}
}

// ParseTweetTime parses a tweet's created_at value.
func ParseTweetTime(t model.Tweet) (time.Time, error) {
	ts, err := time.Parse(TweetTimeLayout, t.CreatedAt)
	if err != nil {
		return time.Time{}, &TimestampParseError{TweetID: t.ID, Value: t.CreatedAt, Err: err}
	}
	return ts, nil
}

// Converted is a journal entry plus what converting it produced on the side.
type Converted struct {
	Entry    model.JournalEntry
	Staged   []model.StagedMedia
	Warnings []model.MediaWarning
}

// Convert builds the journal entry for t. Media that cannot be resolved is
// reported in Warnings and left out of the entry.
func (c *Converter) Convert(t model.Tweet) (Converted, error) {
	created, err := ParseTweetTime(t)
	if err != nil {
		return Converted{}, err
	}

	entry := model.JournalEntry{
		CreationDate: created.UTC().Format(media.DateLayout),
		UUID:         c.newID(),
		Starred:      false,
		Text:         t.FullText,
		Tags:         []string{},
		Photos:       []model.MediaMetadata{},
		Videos:       []model.MediaMetadata{},
	}

	var out Converted
	if refs := t.ExtendedEntities.Media; len(refs) > 0 {
		parts := []string{t.FullText}
		for i, ref := range refs {
			ref.Order = i
			ref.TweetID = t.ID

			res, err := c.proc.Process(ref, created)
			if err != nil {
				return Converted{}, fmt.Errorf("tweet %s: %w", t.ID, err)
			}
			if !res.OK() {
				c.log.WithFields(logrus.Fields{
					"tweet_id": res.Warning.TweetID,
					"url":      res.Warning.URL,
				}).Warn(res.Warning.Message)
				out.Warnings = append(out.Warnings, *res.Warning)
				continue
			}

			if res.Media.IsVideo() {
				entry.Videos = append(entry.Videos, *res.Media)
			} else {
				entry.Photos = append(entry.Photos, *res.Media)
			}
			out.Staged = append(out.Staged, *res.Staged)
			parts = append(parts, res.Token)
		}
		entry.Text = strings.Join(parts, "\n\n")
	}

	for _, h := range t.Entities.Hashtags {
		entry.Tags = append(entry.Tags, h.Text)
	}

	out.Entry = entry
	return out, nil
}
