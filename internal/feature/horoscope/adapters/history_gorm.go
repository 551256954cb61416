package adapters

import (
	"context"

	"gorm.io/gorm"

	"soulbuddy_backend/internal/feature/horoscope/domain/entity"
	"soulbuddy_backend/internal/feature/horoscope/usecase"
)

// historyGorm はHistoryStoreインターフェースのGORM実装です。
type historyGorm struct {
	db *gorm.DB
}

// historyGormがHistoryStoreを実装していることをコンパイル時に検証します。
var _ usecase.HistoryStore = (*historyGorm)(nil)

// NewHistoryGorm はhistoryGormの新しいインスタンスを生成します。
func NewHistoryGorm(db *gorm.DB) *historyGorm {
	return &historyGorm{db: db}
}

// Append は履歴を1件追加します。既存の履歴は変更しません。
func (r *historyGorm) Append(ctx context.Context, s entity.Snapshot) error {
	return r.db.WithContext(ctx).Create(HistoryModelFromEntity(s)).Error
}

// ListByUser はユーザーの履歴を新しい順に最大limit件返します。
func (r *historyGorm) ListByUser(ctx context.Context, userID string, limit int) ([]entity.Snapshot, error) {
	var models []HistoryModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_updated DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]entity.Snapshot, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out, nil
}
