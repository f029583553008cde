package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/alfredjeanlab/vidstore/internal/model"
	"github.com/alfredjeanlab/vidstore/internal/ui"
)

func jsonIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func printVideoJSON(v *model.Video) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printVideoTable(v *model.Video) {
	fmt.Printf("Video ID:   %s\n", ui.RenderAccent(v.VideoID))
	if !v.CreatedAt.IsZero() {
		fmt.Printf("Created At: %s\n", ui.RenderMuted(v.CreatedAt.Format("2006-01-02 15:04:05")))
	}
	if !v.UpdatedAt.IsZero() {
		fmt.Printf("Updated At: %s\n", ui.RenderMuted(v.UpdatedAt.Format("2006-01-02 15:04:05")))
	}
	fmt.Println("Metadata:")
	for _, kv := range metadataPairs(v.Metadata) {
		fmt.Printf("  %s: %s\n", kv[0], kv[1])
	}
}

func printVideoListJSON(videos []*model.Video) {
	data, err := json.MarshalIndent(videos, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printVideoListTable(videos []*model.Video, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VIDEO ID\tTITLE\tUPDATED")
	for _, v := range videos {
		title := metadataTitle(v.Metadata)
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		updated := ""
		if !v.UpdatedAt.IsZero() {
			updated = v.UpdatedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.VideoID, title, updated)
	}
	w.Flush()
	fmt.Printf("\n%d videos (%d total)\n", len(videos), total)
}

// metadataPairs flattens the top-level keys of a metadata object into sorted
// key/value string pairs. Non-object metadata is shown as a single raw value.
func metadataPairs(metadata json.RawMessage) [][2]string {
	if len(metadata) == 0 {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(metadata, &m); err != nil {
		return [][2]string{{"value", string(metadata)}}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, renderJSONValue(m[k])})
	}
	return pairs
}

// metadataTitle extracts a "title" key from metadata for list display.
func metadataTitle(metadata json.RawMessage) string {
	var m struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(metadata, &m); err != nil {
		return ""
	}
	return m.Title
}

// renderJSONValue renders a JSON value for table output, unquoting plain strings.
func renderJSONValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
