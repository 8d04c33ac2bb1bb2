package repos

import (
	"github.com/tauraamui/pixrecord/pkg/database/dbconn"
	"github.com/tauraamui/pixrecord/pkg/database/models"
	"github.com/tauraamui/xerror"
)

type TakeRepository struct {
	DB dbconn.GormWrapper
}

func (r *TakeRepository) Create(take *models.Take) error {
	return r.DB.Create(take).Error()
}

func (r *TakeRepository) FindByUUID(uuid string) (models.Take, error) {
	take := models.Take{}
	if err := r.DB.Where("uuid = ?", uuid).First(&take).Error(); err != nil {
		return take, xerror.Errorf("take of uuid %s not found", uuid)
	}

	return take, nil
}

func (r *TakeRepository) AddFrame(frame *models.Frame) error {
	return r.DB.Create(frame).Error()
}

// Finish stamps the final frame count onto a take.
func (r *TakeRepository) Finish(take *models.Take, frames int) error {
	if err := r.DB.Model(take).Updates(map[string]interface{}{
		"frames":   frames,
		"finished": true,
	}).Error(); err != nil {
		return xerror.Errorf("unable to finish take %s: %w", take.UUID, err)
	}
	take.Frames = frames
	take.Finished = true
	return nil
}

func (r *TakeRepository) Frames(takeUUID string) ([]models.Frame, error) {
	frames := []models.Frame{}
	if err := r.DB.Where("take_uuid = ?", takeUUID).Order("position").Find(&frames).Error(); err != nil {
		return nil, xerror.Errorf("unable to list frames of take %s: %w", takeUUID, err)
	}
	return frames, nil
}
