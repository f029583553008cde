package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alfredjeanlab/vidstore/internal/events"
	"github.com/alfredjeanlab/vidstore/internal/idgen"
	"github.com/alfredjeanlab/vidstore/internal/model"
	"github.com/alfredjeanlab/vidstore/internal/store"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *VideoServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/videos", s.handleCreateVideo)
	mux.HandleFunc("GET /v1/videos", s.handleListVideos)
	mux.HandleFunc("GET /v1/videos/{id}", s.handleGetVideo)
	mux.HandleFunc("PUT /v1/videos/{id}", s.handleUpdateVideo)
	mux.HandleFunc("GET /v1/stats", s.handleGetStats)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, mux)
}

// createVideoInput is the request body for POST /v1/videos.
type createVideoInput struct {
	VideoID  string          `json:"video_id"`
	Metadata json.RawMessage `json:"metadata"`
}

// updateVideoInput is the request body for PUT /v1/videos/{id}.
type updateVideoInput struct {
	Metadata json.RawMessage `json:"metadata"`
}

// handleCreateVideo handles POST /v1/videos. A missing video_id is filled
// with a generated one.
func (s *VideoServer) handleCreateVideo(w http.ResponseWriter, r *http.Request) {
	var in createVideoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	v, err := s.createVideo(r.Context(), in)
	if err != nil {
		var ie inputError
		switch {
		case errors.As(err, &ie):
			writeError(w, http.StatusBadRequest, ie.Error())
		case errors.Is(err, store.ErrDuplicateID):
			writeError(w, http.StatusConflict, "video already exists")
		default:
			s.logger.Error("create video failed", "video_id", in.VideoID, "err", err)
			writeError(w, http.StatusInternalServerError, "failed to create video")
		}
		return
	}

	writeJSON(w, http.StatusCreated, v)
}

func (s *VideoServer) createVideo(ctx context.Context, in createVideoInput) (*model.Video, error) {
	if in.VideoID == "" {
		id, err := idgen.Generate()
		if err != nil {
			return nil, err
		}
		in.VideoID = id
	}
	if err := model.ValidateVideoID(in.VideoID); err != nil {
		return nil, inputError(err.Error())
	}
	if err := model.ValidateMetadata(in.Metadata); err != nil {
		return nil, inputError(err.Error())
	}

	v := &model.Video{
		VideoID:  in.VideoID,
		Metadata: model.NormalizeMetadata(in.Metadata),
	}
	if _, err := s.store.InsertVideo(ctx, v); err != nil {
		return nil, err
	}

	// The timestamps are set by the database on insert; re-read the row so
	// the response and the created event carry them.
	stored, err := s.store.GetVideo(ctx, v.VideoID)
	if err != nil {
		s.logger.Warn("re-reading created video failed", "video_id", v.VideoID, "err", err)
		stored = v
	}

	s.publish(ctx, events.TopicVideoCreated, stored.VideoID, events.VideoCreated{Video: stored})
	return stored, nil
}

// handleListVideos handles GET /v1/videos.
func (s *VideoServer) handleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.store.ListVideos(r.Context())
	if err != nil {
		s.logger.Error("list videos failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list videos")
		return
	}

	// Ensure videos is never null in JSON output.
	if videos == nil {
		videos = []*model.Video{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"videos": videos,
		"total":  len(videos),
	})
}

// handleGetVideo handles GET /v1/videos/{id}.
func (s *VideoServer) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	v, err := s.store.GetVideo(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}
	if err != nil {
		s.logger.Error("get video failed", "video_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to get video")
		return
	}

	writeJSON(w, http.StatusOK, v)
}

// handleUpdateVideo handles PUT /v1/videos/{id}. The metadata is replaced
// wholesale; a zero row count means the video does not exist.
func (s *VideoServer) handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in updateVideoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := model.ValidateMetadata(in.Metadata); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := s.store.UpdateVideoMetadata(r.Context(), id, in.Metadata)
	if err != nil {
		s.logger.Error("update video failed", "video_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to update video")
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}

	s.publish(r.Context(), events.TopicVideoUpdated, id, events.VideoUpdated{
		VideoID:  id,
		Replaced: n,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"video_id": id,
		"updated":  n,
	})
}

// handleGetStats handles GET /v1/stats.
func (s *VideoServer) handleGetStats(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.CountVideos(r.Context())
	if err != nil {
		s.logger.Error("count videos failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to count videos")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"total_videos": n})
}

// handleHealth handles GET /v1/health.
func (s *VideoServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
