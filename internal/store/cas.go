package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the record addressed by the key condition does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means the record exists but the expected precondition no
	// longer holds; the caller must re-read and re-decide, never retry blindly.
	ErrConflict = errors.New("precondition failed, no change applied")
)

// UpdateIf performs an optimistic check-then-set: the update only applies if
// the record still matches expect. Zero rows affected is disambiguated with a
// follow-up key lookup so callers can tell a missing record from a lost race.
func UpdateIf(ctx context.Context, db *gorm.DB, model interface{}, key, expect, updates map[string]interface{}) error {
	res := db.WithContext(ctx).Model(model).Where(key).Where(expect).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := db.WithContext(ctx).Model(model).Where(key).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}
