package events

import (
	"context"

	"github.com/alfredjeanlab/vidstore/internal/model"
)

// Event topic constants
const (
	TopicVideoCreated = "vidstore.video.created"
	TopicVideoUpdated = "vidstore.video.updated"
)

// Event types

type VideoCreated struct {
	Video *model.Video `json:"video"`
}

type VideoUpdated struct {
	VideoID  string       `json:"video_id"`
	Video    *model.Video `json:"video,omitempty"`
	Replaced int64        `json:"replaced"` // rows affected by the update
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
