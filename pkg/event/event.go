package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
	StatusCancelled Status = "cancelled"
	StatusPostponed Status = "postponed"
	StatusPreview   Status = "preview"
)

type DurationType string

const (
	DurationSingle    DurationType = "single"
	DurationMultiDay  DurationType = "multi_day"
	DurationPermanent DurationType = "permanent"
)

// Record is a stored event definition as returned by the Event Store.
// Dates are civil dates at 00:00 UTC, see Date.
type Record struct {
	ID          uuid.UUID
	Title       string
	Description string
	Status      Status

	// CategoryIDs keeps the order the store returned them in. Color
	// resolution depends on it.
	CategoryIDs []int64
	ArtistIDs   []int64
	ArtistNames []string

	LocationID   *int64
	LocationName string

	DurationType DurationType
	StartDate    time.Time
	EndDate      *time.Time // required for DurationMultiDay
	StartTime    *TimeOfDay
	EndTime      *TimeOfDay

	Recurrence *Rule
}

// TimeOfDay is a wall clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// String returns the time in HH:MM format
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay parses HH:MM or HH:MM:SS.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day: %q", s)
}

// Validate checks the structural invariants of the record, including its
// recurrence rule. Violations are reported as *ConfigurationError.
func (r Record) Validate() error {
	if r.StartDate.IsZero() {
		return newConfigurationError(r.ID, "start date is required")
	}
	switch r.DurationType {
	case DurationSingle, DurationPermanent:
	case DurationMultiDay:
		if r.EndDate == nil {
			return newConfigurationError(r.ID, "multi-day event requires an end date")
		}
		if Date(*r.EndDate).Before(Date(r.StartDate)) {
			return newConfigurationError(r.ID, fmt.Sprintf("end date %s is before start date %s",
				FormatDate(*r.EndDate), FormatDate(r.StartDate)))
		}
	default:
		return newConfigurationError(r.ID, fmt.Sprintf("unknown duration type %q", r.DurationType))
	}
	if r.Recurrence != nil {
		if err := r.Recurrence.Validate(); err != nil {
			return WithRecordID(err, r.ID)
		}
	}
	return nil
}

// Visible reports whether the record should be expanded at all.
func (r Record) Visible(includeDrafts bool) bool {
	if r.Status == StatusDraft {
		return includeDrafts
	}
	return true
}
