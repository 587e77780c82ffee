package app

import (
	"time"

	"reddit-lead-finder/internal/domain"
)

const runSlotKeyPrefix = "lead-finder:run:"

// SlotFor возвращает начало слота расписания, которому принадлежит момент now.
func SlotFor(now time.Time, interval time.Duration) time.Time {
	if interval <= 0 {
		interval = time.Minute
	}
	return now.UTC().Truncate(interval)
}

// RunInSlot выполняет fn не более одного раза на слот среди всех экземпляров,
// разделяющих lock. Без lock fn выполняется всегда.
func RunInSlot(lock domain.Cache, slot time.Time, ttl time.Duration, fn func() error) error {
	if lock == nil {
		return fn()
	}
	return lock.Once(runSlotKeyPrefix+slot.UTC().Format(time.RFC3339), ttl, fn)
}
