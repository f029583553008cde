package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/vidstore/internal/events"
	"github.com/alfredjeanlab/vidstore/internal/model"
	"github.com/alfredjeanlab/vidstore/internal/store"
)

type mockStore struct {
	videos map[string]*model.Video

	// listErr, when non-nil, is returned by ListVideos.
	listErr error
	// updateErr, when non-nil, is returned by UpdateVideoMetadata.
	updateErr error
}

func newMockStore() *mockStore {
	return &mockStore{videos: make(map[string]*model.Video)}
}

func (m *mockStore) InsertVideo(_ context.Context, v *model.Video) (int64, error) {
	if _, ok := m.videos[v.VideoID]; ok {
		return 0, store.ErrDuplicateID
	}
	clone := *v
	clone.CreatedAt = time.Now().UTC()
	clone.UpdatedAt = clone.CreatedAt
	m.videos[v.VideoID] = &clone
	return int64(len(m.videos)), nil
}

func (m *mockStore) UpdateVideoMetadata(_ context.Context, videoID string, metadata json.RawMessage) (int64, error) {
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	v, ok := m.videos[videoID]
	if !ok {
		return 0, nil
	}
	v.Metadata = model.NormalizeMetadata(metadata)
	v.UpdatedAt = time.Now().UTC()
	return 1, nil
}

func (m *mockStore) GetVideo(_ context.Context, videoID string) (*model.Video, error) {
	v, ok := m.videos[videoID]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *v
	return &clone, nil
}

func (m *mockStore) ListVideos(_ context.Context) ([]*model.Video, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]*model.Video, 0, len(m.videos))
	for _, v := range m.videos {
		clone := *v
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].VideoID < result[j].VideoID })
	return result, nil
}

func (m *mockStore) CountVideos(_ context.Context) (int, error) {
	return len(m.videos), nil
}

func (m *mockStore) Close() error { return nil }

// newTestServer returns a fresh server, its mock store, and an HTTP handler.
func newTestServer() (*VideoServer, *mockStore, http.Handler) {
	ms := newMockStore()
	s := NewVideoServer(ms, &events.NoopPublisher{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return s, ms, s.NewHTTPHandler("")
}

// doJSON performs an HTTP request with an optional JSON body and returns the
// recorder. A json.RawMessage body is sent verbatim, so tests can send
// payloads that json.Marshal would refuse.
func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if raw, ok := body.(json.RawMessage); ok {
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// requireStatus asserts the recorder has the expected HTTP status code.
func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected status %d, got %d; body: %s", code, rec.Code, rec.Body.String())
	}
}

// decodeJSON decodes the recorder's response body into v.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestHandleHTTPErrors(t *testing.T) {
	for _, tc := range []struct {
		name      string
		method    string
		path      string
		body      any
		code      int
		wantError string
	}{
		{"CreateVideo/InvalidBody", "POST", "/v1/videos", json.RawMessage(`{"video_id":"tt0111161","metadata":{broken}}`), 400, "invalid JSON body"},
		{"CreateVideo/IDTooLong", "POST", "/v1/videos", map[string]any{"video_id": strings.Repeat("x", 256)}, 400, "video id exceeds 255 bytes"},
		{"GetVideo/NotFound", "GET", "/v1/videos/nonexistent", nil, 404, "video not found"},
		{"UpdateVideo/NotFound", "PUT", "/v1/videos/nonexistent", map[string]any{"metadata": map[string]any{"title": "x"}}, 404, "video not found"},
		{"UpdateVideo/InvalidBody", "PUT", "/v1/videos/tt0111161", json.RawMessage(`{"metadata":{broken}}`), 400, "invalid JSON body"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, h := newTestServer()
			rec := doJSON(t, h, tc.method, tc.path, tc.body)
			requireStatus(t, rec, tc.code)
			if tc.wantError != "" {
				var body map[string]string
				decodeJSON(t, rec, &body)
				if body["error"] != tc.wantError {
					t.Fatalf("expected error=%q, got %q", tc.wantError, body["error"])
				}
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "GET", "/v1/health", nil)
	requireStatus(t, rec, 200)
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("expected status=ok, got %q", body["status"])
	}
}

func TestHandleCreateVideo(t *testing.T) {
	_, ms, h := newTestServer()
	rec := doJSON(t, h, "POST", "/v1/videos", map[string]any{
		"video_id": "tt0111161",
		"metadata": map[string]any{"title": "The Shawshank Redemption", "year": 1994},
	})
	requireStatus(t, rec, 201)
	var v model.Video
	decodeJSON(t, rec, &v)
	if v.VideoID != "tt0111161" {
		t.Fatalf("expected video_id=tt0111161, got %q", v.VideoID)
	}
	// The create response carries the storage-assigned timestamps.
	if v.CreatedAt.IsZero() || v.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps in create response, got created_at=%v updated_at=%v", v.CreatedAt, v.UpdatedAt)
	}
	stored, ok := ms.videos["tt0111161"]
	if !ok {
		t.Fatal("expected video to be stored")
	}
	var fields map[string]any
	if err := json.Unmarshal(stored.Metadata, &fields); err != nil {
		t.Fatalf("stored metadata not valid JSON: %v", err)
	}
	if fields["title"] != "The Shawshank Redemption" {
		t.Fatalf("expected title in stored metadata, got %v", fields)
	}
}

func TestHandleCreateVideo_GeneratedID(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "POST", "/v1/videos", map[string]any{
		"metadata": map[string]any{"title": "Untitled"},
	})
	requireStatus(t, rec, 201)
	var v model.Video
	decodeJSON(t, rec, &v)
	if !strings.HasPrefix(v.VideoID, "vid-") {
		t.Fatalf("expected generated vid- ID, got %q", v.VideoID)
	}
}

func TestHandleCreateVideo_EmptyMetadata(t *testing.T) {
	_, ms, h := newTestServer()
	rec := doJSON(t, h, "POST", "/v1/videos", map[string]any{"video_id": "tt0068646"})
	requireStatus(t, rec, 201)
	if string(ms.videos["tt0068646"].Metadata) != "{}" {
		t.Fatalf("expected empty metadata to be stored as {}, got %q", ms.videos["tt0068646"].Metadata)
	}
}

func TestHandleCreateVideo_Duplicate(t *testing.T) {
	_, _, h := newTestServer()
	body := map[string]any{"video_id": "tt0111161", "metadata": map[string]any{"title": "first"}}
	requireStatus(t, doJSON(t, h, "POST", "/v1/videos", body), 201)
	rec := doJSON(t, h, "POST", "/v1/videos", body)
	requireStatus(t, rec, 409)
}

func TestHandleListVideos(t *testing.T) {
	_, _, h := newTestServer()
	for _, id := range []string{"tt0111161", "tt0068646", "tt0468569"} {
		requireStatus(t, doJSON(t, h, "POST", "/v1/videos", map[string]any{"video_id": id}), 201)
	}

	rec := doJSON(t, h, "GET", "/v1/videos", nil)
	requireStatus(t, rec, 200)
	var body struct {
		Videos []*model.Video `json:"videos"`
		Total  int            `json:"total"`
	}
	decodeJSON(t, rec, &body)
	if body.Total != 3 || len(body.Videos) != 3 {
		t.Fatalf("expected 3 videos, got total=%d len=%d", body.Total, len(body.Videos))
	}
}

func TestHandleListVideos_Empty(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "GET", "/v1/videos", nil)
	requireStatus(t, rec, 200)
	if !strings.Contains(rec.Body.String(), `"videos":[]`) {
		t.Fatalf("expected empty list, not null: %s", rec.Body.String())
	}
}

func TestHandleGetVideo(t *testing.T) {
	_, _, h := newTestServer()
	requireStatus(t, doJSON(t, h, "POST", "/v1/videos", map[string]any{
		"video_id": "tt0111161",
		"metadata": map[string]any{"runtime": 142},
	}), 201)

	rec := doJSON(t, h, "GET", "/v1/videos/tt0111161", nil)
	requireStatus(t, rec, 200)
	var v model.Video
	decodeJSON(t, rec, &v)
	if v.VideoID != "tt0111161" {
		t.Fatalf("expected video_id=tt0111161, got %q", v.VideoID)
	}
	if v.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestHandleUpdateVideo(t *testing.T) {
	_, ms, h := newTestServer()
	requireStatus(t, doJSON(t, h, "POST", "/v1/videos", map[string]any{
		"video_id": "tt0111161",
		"metadata": map[string]any{"title": "old", "year": 1994},
	}), 201)

	rec := doJSON(t, h, "PUT", "/v1/videos/tt0111161", map[string]any{
		"metadata": map[string]any{"title": "new"},
	})
	requireStatus(t, rec, 200)
	var body struct {
		VideoID string `json:"video_id"`
		Updated int64  `json:"updated"`
	}
	decodeJSON(t, rec, &body)
	if body.Updated != 1 {
		t.Fatalf("expected updated=1, got %d", body.Updated)
	}

	// The update replaces metadata wholesale; the old year key is gone.
	var fields map[string]any
	if err := json.Unmarshal(ms.videos["tt0111161"].Metadata, &fields); err != nil {
		t.Fatalf("stored metadata not valid JSON: %v", err)
	}
	if fields["title"] != "new" {
		t.Fatalf("expected title=new, got %v", fields["title"])
	}
	if _, ok := fields["year"]; ok {
		t.Fatalf("expected year to be replaced away, got %v", fields)
	}
}

func TestHandleGetStats(t *testing.T) {
	_, _, h := newTestServer()
	requireStatus(t, doJSON(t, h, "POST", "/v1/videos", map[string]any{"video_id": "tt0111161"}), 201)
	requireStatus(t, doJSON(t, h, "POST", "/v1/videos", map[string]any{"video_id": "tt0068646"}), 201)

	rec := doJSON(t, h, "GET", "/v1/stats", nil)
	requireStatus(t, rec, 200)
	var body map[string]int
	decodeJSON(t, rec, &body)
	if body["total_videos"] != 2 {
		t.Fatalf("expected total_videos=2, got %d", body["total_videos"])
	}
}

func TestHandleListVideos_StoreError(t *testing.T) {
	_, ms, h := newTestServer()
	ms.listErr = context.DeadlineExceeded
	rec := doJSON(t, h, "GET", "/v1/videos", nil)
	requireStatus(t, rec, 500)
}
