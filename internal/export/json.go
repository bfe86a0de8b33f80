package export

import (
	"archive/zip"
	"bytes"
	"fmt"

	"qforge/internal/codec"
	"qforge/internal/question"
)

// ZipFilename is the download name for the JSON archive.
const ZipFilename = "Coding_Questions.zip"

// zipFolder is the single directory inside the archive holding the
// per-group JSON files.
const zipFolder = "Coding Questions"

// JSONGroups renders every group of the collection to pretty-printed JSON,
// keyed by group key. Each entry is the full record array of its group.
func JSONGroups(c *question.Collection) (map[string]string, error) {
	out := make(map[string]string, len(c.Groups()))
	for _, g := range c.Groups() {
		text, err := codec.MarshalPretty(g.Records)
		if err != nil {
			return nil, fmt.Errorf("render group %s: %w", g.Key, err)
		}
		out[g.Key] = text
	}
	return out, nil
}

// ZipArchive bundles every group into a zip archive, one
// "<group-key>.json" file per group, in group display order.
func ZipArchive(c *question.Collection) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, g := range c.Groups() {
		text, err := codec.MarshalPretty(g.Records)
		if err != nil {
			return nil, fmt.Errorf("render group %s: %w", g.Key, err)
		}
		w, err := zw.Create(zipFolder + "/" + g.Key + ".json")
		if err != nil {
			return nil, fmt.Errorf("create zip entry for %s: %w", g.Key, err)
		}
		if _, err := w.Write([]byte(text)); err != nil {
			return nil, fmt.Errorf("write zip entry for %s: %w", g.Key, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}
