package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/alfredjeanlab/vidstore/internal/model"
)

// Sentinel errors returned by Store implementations. Callers distinguish
// these with errors.Is; absence and failure are never conflated.
var (
	// ErrNotFound is returned by GetVideo when no row matches the ID.
	ErrNotFound = errors.New("video not found")

	// ErrDuplicateID is returned by InsertVideo when the ID already exists.
	// The previously stored metadata is left untouched.
	ErrDuplicateID = errors.New("duplicate video id")

	// ErrCorruptMetadata is returned by GetVideo when the stored metadata
	// text does not decode as JSON. ListVideos skips such rows instead.
	ErrCorruptMetadata = errors.New("stored metadata is not valid JSON")
)

// Store defines the persistence interface for video metadata records.
type Store interface {
	// InsertVideo persists a new record. The returned identifier is the
	// driver's informational row ID; the primary key is the video ID itself.
	InsertVideo(ctx context.Context, v *model.Video) (int64, error)

	// UpdateVideoMetadata replaces the metadata of an existing record and
	// returns the number of rows affected. Zero with a nil error means no
	// row matched the ID.
	UpdateVideoMetadata(ctx context.Context, videoID string, metadata json.RawMessage) (int64, error)

	// GetVideo fetches one record by ID.
	GetVideo(ctx context.Context, videoID string) (*model.Video, error)

	// ListVideos returns every record whose metadata decodes cleanly.
	// Rows with corrupt metadata are logged and skipped.
	ListVideos(ctx context.Context) ([]*model.Video, error)

	// CountVideos returns the total number of stored records.
	CountVideos(ctx context.Context) (int, error)

	// Lifecycle
	Close() error
}
