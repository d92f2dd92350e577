package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// ruleDocument is the JSON shape of event.recurrence.
type ruleDocument struct {
	Pattern     string   `json:"pattern"`
	Interval    int      `json:"interval,omitempty"`
	Weekdays    []int    `json:"weekdays,omitempty"`
	CustomDates []string `json:"custom_dates,omitempty"`
	End         struct {
		Kind  string `json:"kind"`
		Date  string `json:"date,omitempty"`
		Count int    `json:"count,omitempty"`
	} `json:"end"`
}

// FetchRecords returns the records that may produce occurrences in window:
//   - single events starting inside the window
//   - multi-day events overlapping the window
//   - permanent events started on or before the window end
//   - recurring events whose base date is on or before the window end (any
//     custom rule, since custom dates are not bound to the base date)
//   - multi-day events with a missing or inverted end date starting on or
//     before the window end, so the expander can reject them
//
// Rule ends are not evaluated here; the stored rule is decoded and checked
// in Go.
func (r *RepositoryImpl) FetchRecords(ctx context.Context, window Window, includeDrafts bool) ([]Record, error) {
	query := `SELECT
				e.id,
				e.title,
				e.description,
				e.status,
				e.duration_type,
				e.start_date,
				e.end_date,
				e.start_time,
				e.end_time,
				e.location_id,
				COALESCE(l.name, ''),
				e.recurrence,
				COALESCE((SELECT array_agg(ec.category_id ORDER BY ec.position)
				          FROM event_category ec WHERE ec.event_id = e.id), '{}'::bigint[]),
				COALESCE((SELECT array_agg(ea.artist_id ORDER BY ea.position)
				          FROM event_artist ea WHERE ea.event_id = e.id), '{}'::bigint[]),
				COALESCE((SELECT array_agg(a.name ORDER BY ea.position)
				          FROM event_artist ea JOIN artist a ON a.id = ea.artist_id
				          WHERE ea.event_id = e.id), '{}'::text[])
			  FROM event e
			  LEFT JOIN location l ON l.id = e.location_id
			  WHERE ($3::boolean OR e.status <> 'draft')
			    AND (
			      (e.recurrence IS NOT NULL
			        AND (e.start_date <= $2 OR e.recurrence->>'pattern' = 'custom'))
			      OR (e.recurrence IS NULL AND e.duration_type = 'single'
			        AND e.start_date BETWEEN $1 AND $2)
			      OR (e.recurrence IS NULL AND e.duration_type = 'multi_day'
			        AND e.start_date <= $2 AND e.end_date >= $1)
			      OR (e.recurrence IS NULL AND e.duration_type = 'multi_day'
			        AND e.start_date <= $2 AND (e.end_date IS NULL OR e.end_date < e.start_date))
			      OR (e.recurrence IS NULL AND e.duration_type = 'permanent'
			        AND e.start_date <= $2)
			    )
			  ORDER BY e.start_date, e.id`

	rows, err := r.db.Query(ctx, query, window.Start, window.End, includeDrafts)
	if err != nil {
		err := fmt.Errorf("could not query events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0, 16)
	for rows.Next() {
		var rec Record
		var status, durationType string
		var endDate *time.Time
		var startTime, endTime pgtype.Time
		var recurrence []byte
		err := rows.Scan(
			&rec.ID,
			&rec.Title,
			&rec.Description,
			&status,
			&durationType,
			&rec.StartDate,
			&endDate,
			&startTime,
			&endTime,
			&rec.LocationID,
			&rec.LocationName,
			&recurrence,
			&rec.CategoryIDs,
			&rec.ArtistIDs,
			&rec.ArtistNames,
		)
		if err != nil {
			err := fmt.Errorf("could not scan event row: %w", err)
			log.Error(err)
			return nil, err
		}
		rec.Status = Status(status)
		rec.DurationType = DurationType(durationType)
		rec.StartDate = Date(rec.StartDate)
		if endDate != nil {
			d := Date(*endDate)
			rec.EndDate = &d
		}
		rec.StartTime = timeOfDayFromPg(startTime)
		rec.EndTime = timeOfDayFromPg(endTime)
		if len(recurrence) > 0 {
			rule, err := decodeRule(rec.ID, recurrence)
			if err != nil {
				log.Errorf("invalid recurrence stored for event %s: %v", rec.ID, err)
				return nil, err
			}
			rec.Recurrence = &rule
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("could not read event rows: %w", err)
		log.Error(err)
		return nil, err
	}

	log.Debugf("fetched %d event records for window %s", len(records), window)
	return records, nil
}

func (r *RepositoryImpl) FetchCategoryColors(ctx context.Context) (map[int64]string, error) {
	query := `SELECT id, color FROM category WHERE color IS NOT NULL AND color <> ''`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query category colors: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	colors := make(map[int64]string)
	for rows.Next() {
		var id int64
		var color string
		if err := rows.Scan(&id, &color); err != nil {
			err := fmt.Errorf("could not scan category row: %w", err)
			log.Error(err)
			return nil, err
		}
		colors[id] = color
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read category rows: %w", err)
	}
	return colors, nil
}

func timeOfDayFromPg(t pgtype.Time) *TimeOfDay {
	if !t.Valid {
		return nil
	}
	minutes := t.Microseconds / int64(time.Minute/time.Microsecond)
	return &TimeOfDay{Hour: int(minutes / 60), Minute: int(minutes % 60)}
}

func decodeRule(id uuid.UUID, data []byte) (Rule, error) {
	var doc ruleDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Rule{}, newConfigurationError(id, fmt.Sprintf("malformed recurrence: %v", err))
	}
	rule := Rule{
		Pattern:  Pattern(doc.Pattern),
		Interval: doc.Interval,
		Weekdays: doc.Weekdays,
		End:      RuleEnd{Kind: EndKind(doc.End.Kind), Count: doc.End.Count},
	}
	if rule.End.Kind == "" {
		rule.End.Kind = EndNever
	}
	for _, s := range doc.CustomDates {
		d, err := ParseDate(s)
		if err != nil {
			return Rule{}, newConfigurationError(id, fmt.Sprintf("malformed custom date %q", s))
		}
		rule.CustomDates = append(rule.CustomDates, d)
	}
	if doc.End.Date != "" {
		d, err := ParseDate(doc.End.Date)
		if err != nil {
			return Rule{}, newConfigurationError(id, fmt.Sprintf("malformed end date %q", doc.End.Date))
		}
		rule.End.Date = d
	}
	return rule, nil
}
