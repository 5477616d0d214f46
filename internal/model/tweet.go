// Package model defines the archive and journal data types.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// TweetItem is one element of the archive's tweets array.
type TweetItem struct {
	Tweet *Tweet `json:"tweet"`
}

// Tweet is a single tweet as exported in data/tweets.js.
type Tweet struct {
	ID               string           `json:"id_str"`
	CreatedAt        string           `json:"created_at"`
	FullText         string           `json:"full_text"`
	Entities         Entities         `json:"entities"`
	ExtendedEntities ExtendedEntities `json:"extended_entities"`
}

// Entities holds the tweet's inline entities. Only hashtags are used.
type Entities struct {
	Hashtags []Hashtag `json:"hashtags,omitempty"`
}

// Hashtag is a single #tag without the leading hash.
type Hashtag struct {
	Text string `json:"text"`
}

// ExtendedEntities carries the full media list of a tweet.
type ExtendedEntities struct {
	Media []MediaRef `json:"media,omitempty"`
}

// Media types as they appear in the archive.
const (
	MediaPhoto       = "photo"
	MediaVideo       = "video"
	MediaAnimatedGIF = "animated_gif"
)

// MediaRef is one media attachment described within a tweet.
type MediaRef struct {
	URL   string     `json:"media_url_https"`
	Type  string     `json:"type"`
	Sizes MediaSizes `json:"sizes"`

	// Order and TweetID are filled in during conversion.
	Order   int    `json:"-"`
	TweetID string `json:"-"`
}

// IsVideo reports whether the attachment is staged as a video.
func (m MediaRef) IsVideo() bool {
	return m.Type == MediaVideo
}

// MediaSizes lists the size variants Twitter generated for a media item.
type MediaSizes struct {
	Large *MediaSize `json:"large,omitempty"`
}

// MediaSize is one size variant. Archives write dimensions as strings.
type MediaSize struct {
	W FlexInt `json:"w"`
	H FlexInt `json:"h"`
}

// Dimensions returns the large variant's width and height when both are set.
func (m MediaRef) Dimensions() (width, height int, ok bool) {
	if m.Sizes.Large == nil {
		return 0, 0, false
	}
	w, h := int(m.Sizes.Large.W), int(m.Sizes.Large.H)
	if w == 0 || h == 0 {
		return 0, 0, false
	}
	return w, h, true
}

// FlexInt decodes from a JSON number, a numeric string or null.
// Null and the empty string decode to zero.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		b = []byte(s)
	}
	n, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid dimension %q: %w", string(b), err)
	}
	*f = FlexInt(n)
	return nil
}
