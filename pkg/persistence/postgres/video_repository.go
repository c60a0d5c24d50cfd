package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

// VideoRepository handles video-related database operations.
type VideoRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

const videoColumns = `
	id
  , created_at
  , idea
  , script
  , generation_task_id
  , video_url
  , status
  , posted_tiktok
  , posted_instagram
  , posted_youtube
  , error
`

// Create inserts a new video record.
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	ideaJSON, err := json.Marshal(video.Idea)
	if err != nil {
		return fmt.Errorf("failed to marshal idea: %w", err)
	}

	scriptJSON, err := json.Marshal(video.Script)
	if err != nil {
		return fmt.Errorf("failed to marshal script: %w", err)
	}

	query := `
		INSERT INTO videos (` + videoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.ExecContext(ctx, query,
		video.ID,
		video.CreatedAt,
		ideaJSON,
		scriptJSON,
		nullString(video.GenerationTask),
		nullString(video.VideoURL),
		video.Status,
		video.PostedTikTok,
		video.PostedInstagram,
		video.PostedYouTube,
		nullString(video.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}

	return nil
}

// GetByID returns a video by its id.
func (r *VideoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	video, err := scanVideo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrVideoNotFound
		}

		return nil, fmt.Errorf("failed to scan video: %w", err)
	}

	return video, nil
}

// Update applies a partial mutation to a video. A status change is
// checked against the state machine first; illegal transitions are
// rejected with ErrInvalidStatusTransition.
func (r *VideoRepository) Update(ctx context.Context, id string, update persistence.VideoUpdate) error {
	if update.Status != nil {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if current.Status != *update.Status && !current.Status.CanTransition(*update.Status) {
			return fmt.Errorf("%w: video %s cannot move from %s to %s",
				persistence.ErrInvalidStatusTransition, id, current.Status, *update.Status)
		}
	}

	setClauses := make([]string, 0, 7)
	args := make([]any, 0, 8)

	appendSet := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, column+" = $"+strconv.Itoa(len(args)))
	}

	if update.Status != nil {
		appendSet("status", *update.Status)
	}

	if update.GenerationTask != nil {
		appendSet("generation_task_id", *update.GenerationTask)
	}

	if update.VideoURL != nil {
		appendSet("video_url", *update.VideoURL)
	}

	if update.Error != nil {
		appendSet("error", *update.Error)
	}

	if update.PostedTikTok != nil {
		appendSet("posted_tiktok", *update.PostedTikTok)
	}

	if update.PostedInstagram != nil {
		appendSet("posted_instagram", *update.PostedInstagram)
	}

	if update.PostedYouTube != nil {
		appendSet("posted_youtube", *update.PostedYouTube)
	}

	if len(setClauses) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE videos SET " + joinClauses(setClauses) + " WHERE id = $" + strconv.Itoa(len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update video %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}

	if affected == 0 {
		return persistence.ErrVideoNotFound
	}

	return nil
}

// Recent returns the newest videos, most recent first.
func (r *VideoRepository) Recent(ctx context.Context, limit int) ([]*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	videos := make([]*models.Video, 0)

	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}

		videos = append(videos, video)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

// CountByStatus returns video counts grouped by status.
func (r *VideoRepository) CountByStatus(ctx context.Context) (map[models.VideoStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM videos GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	counts := make(map[models.VideoStatus]int)

	for rows.Next() {
		var (
			status models.VideoStatus
			count  int
		)

		err := rows.Scan(&status, &count)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video count: %w", err)
		}

		counts[status] = count
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating video counts: %w", err)
	}

	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*models.Video, error) {
	var (
		video      models.Video
		ideaJSON   []byte
		scriptJSON []byte
		taskID     sql.NullString
		videoURL   sql.NullString
		errText    sql.NullString
	)

	err := row.Scan(
		&video.ID,
		&video.CreatedAt,
		&ideaJSON,
		&scriptJSON,
		&taskID,
		&videoURL,
		&video.Status,
		&video.PostedTikTok,
		&video.PostedInstagram,
		&video.PostedYouTube,
		&errText,
	)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(ideaJSON, &video.Idea)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal idea: %w", err)
	}

	err = json.Unmarshal(scriptJSON, &video.Script)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal script: %w", err)
	}

	video.GenerationTask = taskID.String
	video.VideoURL = videoURL.String
	video.Error = errText.String

	return &video, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func joinClauses(clauses []string) string {
	return strings.Join(clauses, ", ")
}
