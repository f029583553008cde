// Package client provides a transport-agnostic interface for the vidstore
// service and an HTTP/JSON implementation that talks to the vidstore REST API.
package client

import (
	"context"
	"encoding/json"

	"github.com/alfredjeanlab/vidstore/internal/model"
)

// VideoClient is the interface that all vidstore CLI commands use to
// communicate with the server. It is implemented by HTTPClient (default) and
// can be backed by any transport.
type VideoClient interface {
	// Video CRUD
	CreateVideo(ctx context.Context, req *CreateVideoRequest) (*model.Video, error)
	GetVideo(ctx context.Context, id string) (*model.Video, error)
	ListVideos(ctx context.Context) (*ListVideosResponse, error)
	UpdateVideo(ctx context.Context, id string, metadata json.RawMessage) (*UpdateVideoResponse, error)

	// Stats
	GetStats(ctx context.Context) (*StatsResponse, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateVideoRequest holds parameters for creating a video record. VideoID is
// optional; the server generates one when empty.
type CreateVideoRequest struct {
	VideoID  string          `json:"video_id,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// ListVideosResponse is the response from ListVideos.
type ListVideosResponse struct {
	Videos []*model.Video `json:"videos"`
	Total  int            `json:"total"`
}

// UpdateVideoResponse is the response from UpdateVideo.
type UpdateVideoResponse struct {
	VideoID string `json:"video_id"`
	Updated int64  `json:"updated"`
}

// StatsResponse is the response from GetStats.
type StatsResponse struct {
	TotalVideos int `json:"total_videos"`
}
