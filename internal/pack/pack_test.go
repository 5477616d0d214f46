package pack

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/x-to-dayone/internal/media"
	"github.com/rcliao/x-to-dayone/internal/model"
)

const hash = "0cc175b9c0f1b6a831c399e269772661"

func sampleDoc() model.JournalDocument {
	return NewDocument([]model.JournalEntry{
		{
			CreationDate: "2018-10-10T20:19:24Z",
			UUID:         "0123456789ABCDEF0123456789ABCDEF",
			Text:         "look <here> & there\n\n" + media.Token(hash, false) + "\n\n" + media.Token(hash, true),
			Tags:         []string{"go"},
			Photos:       []model.MediaMetadata{{Identifier: hash, Date: "2018-10-10T20:19:24Z", Type: "jpg", MD5: hash}},
			Videos:       []model.MediaMetadata{{Identifier: hash, Date: "2018-10-10T20:19:24Z", Type: "mp4", MD5: hash}},
		},
	})
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument(nil)
	assert.Equal(t, "1.0", doc.Metadata.Version)
	assert.NotNil(t, doc.Entries)

	b, err := Encode(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"metadata":{"version":"1.0"},"entries":[]}`, string(b))
}

func TestEncodeEscapesLocators(t *testing.T) {
	b, err := Encode(sampleDoc())
	require.NoError(t, err)
	out := string(b)

	assert.Contains(t, out, `dayone-moment:\/\/`+hash)
	assert.Contains(t, out, `dayone-moment:\/video\/`+hash)
	assert.NotContains(t, out, "dayone-moment://")
	assert.NotContains(t, out, "dayone-moment:/video/")
	assert.Contains(t, out, "look <here> & there")

	var doc model.JournalDocument
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, sampleDoc(), doc)
}

func TestEscapeAppliesEverywhere(t *testing.T) {
	doc := sampleDoc()
	doc.Entries[0].Tags = []string{"dayone-moment://tag"}

	b, err := Encode(doc)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"dayone-moment:\/\/tag"`)
}

func TestEncodeIdempotent(t *testing.T) {
	first, err := Encode(sampleDoc())
	require.NoError(t, err)

	var decoded model.JournalDocument
	require.NoError(t, json.Unmarshal(first, &decoded))
	second, err := Encode(decoded)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestEncodeEmptyListsAsArrays(t *testing.T) {
	b, err := Encode(NewDocument([]model.JournalEntry{{
		CreationDate: "2018-10-10T20:19:24Z",
		UUID:         "X",
		Tags:         []string{},
		Photos:       []model.MediaMetadata{},
		Videos:       []model.MediaMetadata{},
	}}))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"photos": []`)
	assert.Contains(t, string(b), `"videos": []`)
	assert.Contains(t, string(b), `"starred": false`)
}

func TestJSONName(t *testing.T) {
	assert.Equal(t, "journal.json", JSONName("/tmp/out/journal.zip"))
	assert.Equal(t, "my.journal.json", JSONName("my.journal.zip"))
	assert.Equal(t, "plain.json", JSONName("plain"))
}

func readZip(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	files := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		files[f.Name] = string(b)
	}
	return files
}

func TestWrite(t *testing.T) {
	st, err := media.NewStaging(t.TempDir())
	require.NoError(t, err)
	defer st.Cleanup()

	require.NoError(t, os.WriteFile(filepath.Join(st.PhotosDir(), hash+".jpg"), []byte("photo"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(st.VideosDir(), hash+".mp4"), []byte("video"), 0o644))

	out := filepath.Join(t.TempDir(), "nested", "journal.zip")
	size, err := Write(context.Background(), out, sampleDoc(), st)
	require.NoError(t, err)
	assert.Positive(t, size)

	files := readZip(t, out)
	var names []string
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"journal.json", "photos/" + hash + ".jpg", "videos/" + hash + ".mp4"}, names)
	assert.Equal(t, "photo", files["photos/"+hash+".jpg"])
	assert.Equal(t, "video", files["videos/"+hash+".mp4"])

	encoded, err := Encode(sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, string(encoded), files["journal.json"])
	assert.True(t, strings.HasPrefix(files["journal.json"], "{"))
}

func TestWriteFailsWithoutStagingDirs(t *testing.T) {
	st, err := media.NewStaging(t.TempDir())
	require.NoError(t, err)
	defer st.Cleanup()

	require.NoError(t, os.RemoveAll(st.VideosDir()))

	out := filepath.Join(t.TempDir(), "journal.zip")
	_, err = Write(context.Background(), out, sampleDoc(), st)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestWriteCancelled(t *testing.T) {
	st, err := media.NewStaging(t.TempDir())
	require.NoError(t, err)
	defer st.Cleanup()

	require.NoError(t, os.WriteFile(filepath.Join(st.PhotosDir(), hash+".jpg"), []byte("photo"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := filepath.Join(t.TempDir(), "journal.zip")
	_, err = Write(ctx, out, sampleDoc(), st)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, out)
}
