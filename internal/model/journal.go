package model

// JournalVersion is the DayOne import schema version written to metadata.
const JournalVersion = "1.0"

// Output media types.
const (
	TypeJPG = "jpg"
	TypeMP4 = "mp4"
)

// JournalDocument is the top-level DayOne import document.
type JournalDocument struct {
	Metadata Metadata       `json:"metadata"`
	Entries  []JournalEntry `json:"entries"`
}

// Metadata is the document header.
type Metadata struct {
	Version string `json:"version"`
}

// JournalEntry is one importable DayOne entry, built from one tweet.
type JournalEntry struct {
	CreationDate string          `json:"creationDate"`
	UUID         string          `json:"uuid"`
	Starred      bool            `json:"starred"`
	Text         string          `json:"text"`
	Tags         []string        `json:"tags"`
	Photos       []MediaMetadata `json:"photos"`
	Videos       []MediaMetadata `json:"videos"`
}

// MediaMetadata describes one attached photo or video. Identifier and MD5
// always hold the same content hash.
type MediaMetadata struct {
	Identifier string `json:"identifier"`
	Date       string `json:"date"`
	Type       string `json:"type"`
	MD5        string `json:"md5"`
	Height     int    `json:"height,omitempty"`
	Width      int    `json:"width,omitempty"`
}

// IsVideo reports whether the metadata belongs in an entry's video list.
func (m MediaMetadata) IsVideo() bool {
	return m.Type == TypeMP4
}
