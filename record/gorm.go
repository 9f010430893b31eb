package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore persists token records through a gorm-managed SQL database.
// The zero value is not usable; construct with [NewGormStore].
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an existing gorm handle. The handle is shared, not
// owned; callers keep responsibility for pooling and migration
// (AutoMigrate(&record.TokenRecord{})).
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, rec *TokenRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID, tokenType TokenType) (*TokenRecord, error) {
	var rec TokenRecord
	err := s.db.WithContext(ctx).
		Where("id = ? AND token_type = ?", id, tokenType).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &rec, nil
}

// MarkUsed claims the record with a single conditional UPDATE. The
// "used_at IS NULL" predicate makes the claim atomic: two concurrent
// redeemers race on the row, the database serializes them, and only the
// first sees an affected row.
func (s *GormStore) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&TokenRecord{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", usedAt)
	if res.Error != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, res.Error)
	}
	return res.RowsAffected == 1, nil
}
