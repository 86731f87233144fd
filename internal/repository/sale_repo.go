package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pabloh4516/sellx-sub001/internal/model"
)

// SaleRepository is read-only here: the sales module owns sale records, the
// cash drawer only scopes them to a session for reconciliation.
type SaleRepository interface {
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Sale, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("session_id = ? AND status = ?", sessionID, "completed").
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}
