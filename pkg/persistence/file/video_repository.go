package file

import (
	"context"
	"errors"
	"os"
	"sort"

	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
)

const videosEntity = "videos"

// VideoRepository stores video records as JSON files.
type VideoRepository struct {
	store *store
}

func (r *VideoRepository) Create(_ context.Context, video *models.Video) error {
	return r.store.write(videosEntity, video.ID, video)
}

func (r *VideoRepository) GetByID(_ context.Context, id string) (*models.Video, error) {
	var video models.Video

	err := r.store.read(videosEntity, id, &video)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, persistence.ErrVideoNotFound
		}

		return nil, err
	}

	return &video, nil
}

func (r *VideoRepository) Update(ctx context.Context, id string, update persistence.VideoUpdate) error {
	video, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if update.Status != nil && video.Status != *update.Status {
		if !video.Status.CanTransition(*update.Status) {
			return persistence.ErrInvalidStatusTransition
		}

		video.Status = *update.Status
	}

	if update.GenerationTask != nil {
		video.GenerationTask = *update.GenerationTask
	}

	if update.VideoURL != nil {
		video.VideoURL = *update.VideoURL
	}

	if update.Error != nil {
		video.Error = *update.Error
	}

	if update.PostedTikTok != nil {
		video.PostedTikTok = *update.PostedTikTok
	}

	if update.PostedInstagram != nil {
		video.PostedInstagram = *update.PostedInstagram
	}

	if update.PostedYouTube != nil {
		video.PostedYouTube = *update.PostedYouTube
	}

	return r.store.write(videosEntity, id, video)
}

func (r *VideoRepository) Recent(ctx context.Context, limit int) ([]*models.Video, error) {
	ids, err := r.store.ids(videosEntity)
	if err != nil {
		return nil, err
	}

	videos := make([]*models.Video, 0, len(ids))

	for _, id := range ids {
		video, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		videos = append(videos, video)
	}

	sort.Slice(videos, func(i, j int) bool {
		return videos[i].CreatedAt.After(videos[j].CreatedAt)
	})

	if limit > 0 && len(videos) > limit {
		videos = videos[:limit]
	}

	return videos, nil
}

func (r *VideoRepository) CountByStatus(ctx context.Context) (map[models.VideoStatus]int, error) {
	videos, err := r.Recent(ctx, 0)
	if err != nil {
		return nil, err
	}

	counts := make(map[models.VideoStatus]int)
	for _, video := range videos {
		counts[video.Status]++
	}

	return counts, nil
}
