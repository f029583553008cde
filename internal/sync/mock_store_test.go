package sync

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/alfredjeanlab/vidstore/internal/model"
	"github.com/alfredjeanlab/vidstore/internal/store"
)

// mockStore is a minimal in-memory store.Store for export tests.
type mockStore struct {
	videos  []*model.Video
	listErr error
}

func (m *mockStore) InsertVideo(_ context.Context, v *model.Video) (int64, error) {
	for _, existing := range m.videos {
		if existing.VideoID == v.VideoID {
			return 0, store.ErrDuplicateID
		}
	}
	m.videos = append(m.videos, v)
	return int64(len(m.videos)), nil
}

func (m *mockStore) UpdateVideoMetadata(_ context.Context, videoID string, metadata json.RawMessage) (int64, error) {
	for _, v := range m.videos {
		if v.VideoID == videoID {
			v.Metadata = metadata
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockStore) GetVideo(_ context.Context, videoID string) (*model.Video, error) {
	for _, v := range m.videos {
		if v.VideoID == videoID {
			return v, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) ListVideos(_ context.Context) ([]*model.Video, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.videos, nil
}

func (m *mockStore) CountVideos(_ context.Context) (int, error) {
	return len(m.videos), nil
}

func (m *mockStore) Close() error { return nil }

var errListBroken = errors.New("list broken")
