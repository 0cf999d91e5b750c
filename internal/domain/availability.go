package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeOfDay is a clock time with minute precision, stored as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses a "15:04" formatted clock time.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// TimeOfDayFrom extracts the time-of-day component of an instant.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// AvailabilityWindow is a recurring weekly interval during which a driver
// accepts scheduled rides.
type AvailabilityWindow struct {
	ID       string
	DriverID string
	Day      time.Weekday
	Start    TimeOfDay
	End      TimeOfDay
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAvailabilityWindow creates an active weekly window. End must be strictly
// after start.
func NewAvailabilityWindow(driverID string, day time.Weekday, start, end TimeOfDay) (*AvailabilityWindow, error) {
	if end <= start {
		return nil, ErrWindowOrder
	}
	now := time.Now().UTC()
	return &AvailabilityWindow{
		ID:        uuid.New().String(),
		DriverID:  driverID,
		Day:       day,
		Start:     start,
		End:       end,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update changes the window bounds. End must remain strictly after start.
func (w *AvailabilityWindow) Update(start, end TimeOfDay) error {
	if end <= start {
		return ErrWindowOrder
	}
	w.Start = start
	w.End = end
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// Activate enables the window.
func (w *AvailabilityWindow) Activate() {
	w.IsActive = true
	w.UpdatedAt = time.Now().UTC()
}

// Deactivate disables the window without deleting it.
func (w *AvailabilityWindow) Deactivate() {
	w.IsActive = false
	w.UpdatedAt = time.Now().UTC()
}

// Contains reports whether the instant falls inside this active window.
// Bounds are inclusive.
func (w *AvailabilityWindow) Contains(at time.Time) bool {
	if !w.IsActive || at.Weekday() != w.Day {
		return false
	}
	tod := TimeOfDayFrom(at)
	return w.Start <= tod && tod <= w.End
}

// AvailableAt reports whether any of the windows contains the instant.
func AvailableAt(windows []*AvailabilityWindow, at time.Time) bool {
	for _, w := range windows {
		if w.Contains(at) {
			return true
		}
	}
	return false
}
