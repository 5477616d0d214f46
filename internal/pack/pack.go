// Package pack serializes the journal document and bundles it with staged
// media into a DayOne import zip.
package pack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/rcliao/x-to-dayone/internal/media"
	"github.com/rcliao/x-to-dayone/internal/model"
)

// escapes are applied to the whole serialized document. DayOne expects the
// moment locators with escaped slashes.
var escapes = strings.NewReplacer(
	media.MomentScheme+"://", media.MomentScheme+`:\/\/`,
	media.MomentScheme+":/video/", media.MomentScheme+`:\/video\/`,
)

// NewDocument wraps entries in a versioned journal document.
func NewDocument(entries []model.JournalEntry) model.JournalDocument {
	if entries == nil {
		entries = []model.JournalEntry{}
	}
	return model.JournalDocument{
		Metadata: model.Metadata{Version: model.JournalVersion},
		Entries:  entries,
	}
}

// Encode serializes doc as indented JSON and applies the locator escaping.
func Encode(doc model.JournalDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode journal: %w", err)
	}
	return Escape(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// Escape rewrites every moment locator in b to its escaped form.
func Escape(b []byte) []byte {
	return []byte(escapes.Replace(string(b)))
}

// JSONName returns the document name inside the zip: the output file's base
// name with a .json extension.
func JSONName(outPath string) string {
	base := filepath.Base(outPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

// Write stages the encoded document and writes the zip to outPath. It
// returns the size of the written zip. Cancelling ctx stops before the next
// file is added. A partial zip is removed on failure or cancellation.
func Write(ctx context.Context, outPath string, doc model.JournalDocument, st *media.Staging) (int64, error) {
	data, err := Encode(doc)
	if err != nil {
		return 0, err
	}

	name := JSONName(outPath)
	jsonPath := filepath.Join(st.Root, name)
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return 0, fmt.Errorf("write journal json: %w", err)
	}

	photos, err := st.Photos()
	if err != nil {
		return 0, fmt.Errorf("list staged photos: %w", err)
	}
	videos, err := st.Videos()
	if err != nil {
		return 0, fmt.Errorf("list staged videos: %w", err)
	}

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create zip: %w", err)
	}
	if err := writeZip(ctx, f, jsonPath, name, photos, videos); err != nil {
		f.Close()
		os.Remove(outPath)
		return 0, err
	}
	if err := f.Close(); err != nil {
		os.Remove(outPath)
		return 0, fmt.Errorf("close zip: %w", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat zip: %w", err)
	}
	return info.Size(), nil
}

func writeZip(ctx context.Context, w io.Writer, jsonPath, jsonName string, photos, videos []string) error {
	type item struct{ path, name string }
	items := []item{{jsonPath, jsonName}}
	for _, p := range photos {
		items = append(items, item{p, "photos/" + filepath.Base(p)})
	}
	for _, v := range videos {
		items = append(items, item{v, "videos/" + filepath.Base(v)})
	}

	zw := zip.NewWriter(w)
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("packaging interrupted: %w", err)
		}
		if err := addFile(zw, it.path, it.name); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish zip: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("zip header %s: %w", name, err)
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	dst, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("zip add %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("zip write %s: %w", name, err)
	}
	return nil
}
