package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/trident-ems/trident/internal/models"
	"github.com/trident-ems/trident/internal/utils"
)

type CallRepo interface {
	Insert(ctx context.Context, call *models.LiveCall) error
	GetByCallID(ctx context.Context, callID string) (*models.LiveCall, error)
	ListRecent(ctx context.Context, limit int) ([]models.LiveCall, error)
}

type callRepo struct {
	db *gorm.DB
}

func NewCallRepo(db *gorm.DB) CallRepo {
	return &callRepo{db: db}
}

func (r *callRepo) Insert(ctx context.Context, call *models.LiveCall) error {
	return r.db.WithContext(ctx).Create(call).Error
}

func (r *callRepo) GetByCallID(ctx context.Context, callID string) (*models.LiveCall, error) {
	var row models.LiveCall
	err := r.db.WithContext(ctx).Where("call_id = ?", callID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *callRepo) ListRecent(ctx context.Context, limit int) ([]models.LiveCall, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.LiveCall
	err := r.db.WithContext(ctx).
		Order("start_time DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
