package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/repositories"
)

// OrderNumberGenerator hands out human-readable order numbers. Next runs
// inside the placement transaction; the unique index on order_number is the
// final word on whether a number is free.
type OrderNumberGenerator interface {
	Next(ctx context.Context, store repositories.Store) (string, error)
}

// DailyOrderSequencer produces PREFIX + yyyyMMdd + a six digit counter that
// restarts every day.
type DailyOrderSequencer struct {
	prefix string
	now    func() time.Time
}

// NewDailyOrderSequencer creates a sequencer. A nil clock means time.Now.
func NewDailyOrderSequencer(prefix string, now func() time.Time) *DailyOrderSequencer {
	if now == nil {
		now = time.Now
	}
	return &DailyOrderSequencer{prefix: prefix, now: now}
}

func (s *DailyOrderSequencer) Next(ctx context.Context, store repositories.Store) (string, error) {
	day := s.prefix + s.now().Format("20060102")

	last, err := store.Orders().LastOrderNumber(ctx, day)
	if err != nil {
		return "", err
	}

	seq := 1
	if last != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(last, day))
		if err != nil {
			return "", fmt.Errorf("malformed order number %q: %w", last, err)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%06d", day, seq), nil
}
