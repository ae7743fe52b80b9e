package kvstore

import (
	"context"
	"errors"

	"app/internal/gateway"

	"gorm.io/gorm"
)

// kv_entriesテーブルの1行。
type kvEntry struct {
	Key   string `gorm:"primaryKey;type:varchar(255)"`
	Value string `gorm:"type:text;not null"`
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

// postgresに保存するKVストア。
type Gorm struct {
	db *gorm.DB
}

// DI
// テーブルはここでAutoMigrateする。
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, err
	}
	return &Gorm{db: db}, nil
}

func (s *Gorm) Get(ctx context.Context, key string) (string, error) {
	var e kvEntry

	err := s.db.WithContext(ctx).
		Where("key = ?", key).
		First(&e).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", gateway.ErrKeyNotFound
		}
		return "", err
	}

	return e.Value, nil
}

func (s *Gorm) Set(ctx context.Context, key string, value string) error {
	return s.db.WithContext(ctx).Save(&kvEntry{Key: key, Value: value}).Error
}

func (s *Gorm) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&kvEntry{}, "key = ?", key).Error
}
