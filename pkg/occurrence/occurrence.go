package occurrence

import (
	"time"

	"github.com/artcal/artcal/pkg/event"
	"github.com/google/uuid"
)

type Position string

const (
	PositionNone   Position = "none"
	PositionStart  Position = "start"
	PositionMiddle Position = "middle"
	PositionEnd    Position = "end"
)

// Occurrence is a single appearance of an event on one calendar date.
// It carries a copy of the record metadata so that callers can filter
// without going back to the store.
type Occurrence struct {
	SourceID uuid.UUID
	// InstanceKey identifies this occurrence among all occurrences of the
	// same record.
	InstanceKey string

	Date      time.Time
	StartTime *event.TimeOfDay
	EndTime   *event.TimeOfDay

	IsVirtual        bool
	IsRecurringBase  bool
	IsMultiDay       bool
	MultiDayPosition Position

	Color  string
	Status event.Status
	Hidden bool

	CategoryIDs  []int64
	ArtistIDs    []int64
	ArtistNames  []string
	LocationID   *int64
	LocationName string
	Title        string
	Description  string
}

// AllDay reports whether the occurrence has no start time.
func (o Occurrence) AllDay() bool {
	return o.StartTime == nil
}

func newOccurrence(rec event.Record, date time.Time) Occurrence {
	return Occurrence{
		SourceID:         rec.ID,
		InstanceKey:      rec.ID.String() + "/" + event.FormatDate(date),
		Date:             date,
		StartTime:        rec.StartTime,
		EndTime:          rec.EndTime,
		MultiDayPosition: PositionNone,
		Status:           rec.Status,
		CategoryIDs:      rec.CategoryIDs,
		ArtistIDs:        rec.ArtistIDs,
		ArtistNames:      rec.ArtistNames,
		LocationID:       rec.LocationID,
		LocationName:     rec.LocationName,
		Title:            rec.Title,
		Description:      rec.Description,
	}
}
