package server

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/vidstore/internal/events"
	"github.com/alfredjeanlab/vidstore/internal/store"
)

// VideoServer serves the video metadata HTTP API on top of a store.Store.
type VideoServer struct {
	store     store.Store
	publisher events.Publisher
	logger    *slog.Logger
}

// NewVideoServer returns a new VideoServer backed by the given store and publisher.
func NewVideoServer(s store.Store, p events.Publisher, logger *slog.Logger) *VideoServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &VideoServer{
		store:     s,
		publisher: p,
		logger:    logger,
	}
}

// publish emits an event best-effort; failures are logged but never block
// the request that triggered them.
func (s *VideoServer) publish(ctx context.Context, topic, videoID string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "video_id", videoID, "error", err)
	}
}

// inputError indicates invalid user input.
// The transport layer maps this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
