package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/vidstore/internal/model"
	"github.com/alfredjeanlab/vidstore/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	VideoCount int       `json:"video_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every video record from the store as JSONL to w,
// sorted by video ID. Rows the store skipped as corrupt are simply absent
// from the snapshot.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	videos, err := s.ListVideos(ctx)
	if err != nil {
		return fmt.Errorf("list videos: %w", err)
	}
	return WriteJSONL(videos, w)
}

// WriteJSONL writes an already-fetched set of video records as JSONL to w,
// sorted by video ID.
func WriteJSONL(videos []*model.Video, w io.Writer) error {
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].VideoID < videos[j].VideoID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:    "1",
		Type:       "header",
		Timestamp:  time.Now().UTC(),
		VideoCount: len(videos),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, v := range videos {
		if err := enc.Encode(record{Type: "video", Data: v}); err != nil {
			return fmt.Errorf("encode video %s: %w", v.VideoID, err)
		}
	}

	return nil
}

// ReadJSONL decodes a snapshot previously written by ExportJSONL and returns
// its video records in file order.
func ReadJSONL(r io.Reader) ([]*model.Video, error) {
	dec := json.NewDecoder(r)

	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	if h.Type != "header" {
		return nil, fmt.Errorf("unexpected first record type %q", h.Type)
	}

	var videos []*model.Video
	for {
		var raw struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := dec.Decode(&raw); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		if raw.Type != "video" {
			continue
		}
		var v model.Video
		if err := json.Unmarshal(raw.Data, &v); err != nil {
			return nil, fmt.Errorf("decode video record: %w", err)
		}
		videos = append(videos, &v)
	}

	return videos, nil
}
