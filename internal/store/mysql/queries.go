package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"

	"github.com/alfredjeanlab/vidstore/internal/model"
	"github.com/alfredjeanlab/vidstore/internal/store"
)

// videoColumns is the column list used for SELECT statements on the
// video_metadata table.
const videoColumns = `video_id, metadata, created_at, updated_at`

// mysqlDupEntry is the server error number for a unique-key violation.
const mysqlDupEntry = 1062

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryInsertVideo(ctx context.Context, db executor, v *model.Video) (int64, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO video_metadata (video_id, metadata)
		VALUES (?, ?)`,
		v.VideoID,
		string(model.NormalizeMetadata(v.Metadata)),
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, fmt.Errorf("insert video %s: %w", v.VideoID, store.ErrDuplicateID)
		}
		return 0, fmt.Errorf("insert video %s: %w", v.VideoID, err)
	}
	// LastInsertId is informational on this table; the primary key is the
	// video ID, not a surrogate.
	id, err := res.LastInsertId()
	if err != nil {
		return 0, nil
	}
	return id, nil
}

func queryUpdateVideoMetadata(ctx context.Context, db executor, videoID string, metadata json.RawMessage) (int64, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE video_metadata SET metadata = ? WHERE video_id = ?`,
		string(model.NormalizeMetadata(metadata)),
		videoID,
	)
	if err != nil {
		return 0, fmt.Errorf("update video %s: %w", videoID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func queryGetVideo(ctx context.Context, db executor, videoID string) (*model.Video, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+videoColumns+` FROM video_metadata WHERE video_id = ?`, videoID)
	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video %s: %w", videoID, err)
	}
	return v, nil
}

func queryListVideos(ctx context.Context, db executor, logger *slog.Logger) ([]*model.Video, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+videoColumns+` FROM video_metadata`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []*model.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			// A row whose metadata does not decode is skipped; one bad
			// record never aborts the whole listing.
			if errors.Is(err, store.ErrCorruptMetadata) {
				logger.Warn("skipping video with corrupt metadata", "err", err)
				continue
			}
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan videos: %w", err)
	}

	return videos, nil
}

func queryCountVideos(ctx context.Context, db executor) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM video_metadata`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return n, nil
}

// isDuplicateEntry reports whether err is a MySQL duplicate-key violation.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDupEntry
}
