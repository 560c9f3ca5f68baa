package schedule

import (
	"context"
	"errors"
	"regexp"

	"estates-backend/internal/store"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidDate rejects dates not in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("Invalid date format. Use YYYY-MM-DD")

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const keyPrefix = "schedule:"

// Entry is the single upcoming-appointment slot for a phone number.
type Entry struct {
	Phone string `json:"phone"`
	Date  string `json:"date"`
}

// Service keeps one appointment slot per phone in Redis, last write wins.
// Slots are cleared when an invoice or cancellation detach frees the flat.
type Service struct {
	Rdb *redis.Client
}

// Upsert stores the slot for the phone, replacing any existing one.
func (s *Service) Upsert(ctx context.Context, phone, date string) error {
	if !dateRe.MatchString(date) {
		return ErrInvalidDate
	}
	return s.Rdb.Set(ctx, keyPrefix+phone, date, 0).Err()
}

// Get returns the slot for a phone, store.ErrNotFound when none exists.
func (s *Service) Get(ctx context.Context, phone string) (*Entry, error) {
	date, err := s.Rdb.Get(ctx, keyPrefix+phone).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &Entry{Phone: phone, Date: date}, nil
}

// Delete removes the slot; deleting a missing slot is not an error.
func (s *Service) Delete(ctx context.Context, phone string) error {
	if phone == "" {
		return nil
	}
	return s.Rdb.Del(ctx, keyPrefix+phone).Err()
}
