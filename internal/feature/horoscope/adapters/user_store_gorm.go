// Package adapters はhoroscopeフィーチャーのストア実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"soulbuddy_backend/internal/feature/horoscope/domain/entity"
	"soulbuddy_backend/internal/feature/horoscope/usecase"
	usersentity "soulbuddy_backend/internal/feature/users/domain/entity"
)

// userStoreGorm はUserStoreインターフェースのGORM実装です。
// ホロスコープはusersテーブルのJSONカラムに保存されます。
type userStoreGorm struct {
	db *gorm.DB
}

// userStoreGormがUserStoreを実装していることをコンパイル時に検証します。
var _ usecase.UserStore = (*userStoreGorm)(nil)

// NewUserStoreGorm はuserStoreGormの新しいインスタンスを生成します。
func NewUserStoreGorm(db *gorm.DB) *userStoreGorm {
	return &userStoreGorm{db: db}
}

// UserExists はユーザーが存在しない場合にusecase.ErrUserNotFoundを返します。
func (s *userStoreGorm) UserExists(ctx context.Context, userID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&usersentity.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// SaveHoroscope はユーザーのホロスコープと座標を置き換えます。
func (s *userStoreGorm) SaveHoroscope(ctx context.Context, userID string, h entity.Horoscope, coords entity.Coordinates) error {
	lat, lon := coords.Latitude, coords.Longitude
	result := s.db.WithContext(ctx).
		Model(&usersentity.User{ID: userID}).
		Select("Horoscope", "Latitude", "Longitude").
		Updates(&usersentity.User{Horoscope: &h, Latitude: &lat, Longitude: &lon})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 値が変わらない更新で0件になるドライバーがあるため存在確認で判定する
		return s.UserExists(ctx, userID)
	}
	return nil
}

// FindHoroscope は保存済みのホロスコープを返します。未生成の場合はnilを返します。
func (s *userStoreGorm) FindHoroscope(ctx context.Context, userID string) (*entity.Horoscope, error) {
	var u usersentity.User
	if err := s.db.WithContext(ctx).Select("id", "horoscope").Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return u.Horoscope, nil
}
