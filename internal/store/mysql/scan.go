package mysql

import (
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/vidstore/internal/model"
	"github.com/alfredjeanlab/vidstore/internal/store"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanVideo scans a single row into a model.Video. The row must contain
// columns in the order defined by videoColumns. An empty metadata column
// decodes to an empty object; text that is not valid JSON yields
// store.ErrCorruptMetadata with the offending ID attached.
func scanVideo(row scannable) (*model.Video, error) {
	var v model.Video
	var metadata []byte

	err := row.Scan(
		&v.VideoID,
		&metadata,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadata) == 0 {
		v.Metadata = json.RawMessage(`{}`)
		return &v, nil
	}
	if !json.Valid(metadata) {
		return nil, fmt.Errorf("video %s: %w", v.VideoID, store.ErrCorruptMetadata)
	}
	v.Metadata = json.RawMessage(metadata)

	return &v, nil
}
