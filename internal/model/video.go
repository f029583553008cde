package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// MaxVideoIDLength matches the VARCHAR(255) primary key column.
const MaxVideoIDLength = 255

// Video is the metadata record persisted for one video. Metadata is an
// arbitrary JSON value supplied by the caller; updates replace it wholesale
// (no merge). CreatedAt and UpdatedAt are owned by the storage layer.
type Video struct {
	VideoID   string          `json:"video_id"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"created_at,omitzero"`
	UpdatedAt time.Time       `json:"updated_at,omitzero"`
}

// ValidateVideoID checks that an ID is usable as the primary key.
func ValidateVideoID(id string) error {
	if id == "" {
		return fmt.Errorf("video id is required")
	}
	if len(id) > MaxVideoIDLength {
		return fmt.Errorf("video id exceeds %d bytes", MaxVideoIDLength)
	}
	return nil
}

// ValidateMetadata checks that a metadata payload is well-formed JSON.
// A nil or empty payload is allowed and treated as an empty object.
func ValidateMetadata(metadata json.RawMessage) error {
	if len(metadata) == 0 {
		return nil
	}
	if !json.Valid(metadata) {
		return fmt.Errorf("metadata is not valid JSON")
	}
	return nil
}

// NormalizeMetadata returns the payload to persist: an empty object when the
// caller supplied nothing, the payload itself otherwise.
func NormalizeMetadata(metadata json.RawMessage) json.RawMessage {
	if len(metadata) == 0 {
		return json.RawMessage(`{}`)
	}
	return metadata
}
