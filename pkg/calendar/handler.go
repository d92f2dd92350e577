package calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/artcal/artcal/internal/rest"
	"github.com/artcal/artcal/pkg/aggregate"
	"github.com/artcal/artcal/pkg/event"
	"github.com/artcal/artcal/pkg/occurrence"
	log "github.com/sirupsen/logrus"
)

type OccurrenceDTO struct {
	SourceID         string   `json:"sourceId"`
	InstanceKey      string   `json:"instanceKey"`
	Date             string   `json:"date"`
	StartTime        string   `json:"startTime,omitempty"`
	EndTime          string   `json:"endTime,omitempty"`
	AllDay           bool     `json:"allDay"`
	IsVirtual        bool     `json:"isVirtual"`
	IsRecurringBase  bool     `json:"isRecurringBase"`
	IsMultiDay       bool     `json:"isMultiDay"`
	MultiDayPosition string   `json:"multiDayPosition"`
	Color            string   `json:"color"`
	Status           string   `json:"status"`
	Hidden           bool     `json:"hidden"`
	CategoryIDs      []int64  `json:"categoryIds"`
	ArtistIDs        []int64  `json:"artistIds"`
	ArtistNames      []string `json:"artistNames"`
	LocationID       *int64   `json:"locationId,omitempty"`
	LocationName     string   `json:"locationName,omitempty"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
}

type CellDTO struct {
	Date            string          `json:"date"`
	DayOfMonth      int             `json:"dayOfMonth"`
	IsCurrentPeriod bool            `json:"isCurrentPeriod"`
	IsToday         bool            `json:"isToday"`
	HiddenCount     int             `json:"hiddenCount"`
	Occurrences     []OccurrenceDTO `json:"occurrences"`
}

type MonthViewDTO struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Cells []CellDTO `json:"cells"`
}

type WeekViewDTO struct {
	Week  string    `json:"week"`
	Cells []CellDTO `json:"cells"`
}

type AgendaDayDTO struct {
	Date        string          `json:"date"`
	Label       string          `json:"label"`
	IsPast      bool            `json:"isPast"`
	Occurrences []OccurrenceDTO `json:"occurrences"`
}

type Handler struct {
	calendar *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{calendar: s}
}

// GetMonth godoc
// @Summary Get month grid
// @Description Full weeks covering the month, with occurrences attached to each day
// @Tags Calendar
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Param drafts query bool false "Include draft events"
// @Success 200 {object} MonthViewDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid year or month"
// @Failure 422 {object} rest.ErrorResponse "Misconfigured event"
// @Router /api/calendar/month [get]
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid year", "'year' must be a number")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month", "'month' must be a number between 1 and 12")
		return
	}

	view, err := h.calendar.GetMonthGrid(r.Context(), year, time.Month(month), queryFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, MonthViewDTO{
		Year:  view.Year,
		Month: int(view.Month),
		Cells: cellsToDTO(view.Cells),
	})
}

// GetWeek godoc
// @Summary Get week grid
// @Tags Calendar
// @Produce json
// @Param date query string true "Any date of the week (YYYY-MM-DD)"
// @Param drafts query bool false "Include draft events"
// @Success 200 {object} WeekViewDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date format"
// @Failure 422 {object} rest.ErrorResponse "Misconfigured event"
// @Router /api/calendar/week [get]
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r, "date")
	if !ok {
		return
	}

	view, err := h.calendar.GetWeekGrid(r.Context(), date, queryFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, WeekViewDTO{
		Week:  view.Week.String(),
		Cells: cellsToDTO(view.Cells),
	})
}

// GetDay godoc
// @Summary Get occurrences of a day
// @Tags Calendar
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param drafts query bool false "Include draft events"
// @Success 200 {array} OccurrenceDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid date format"
// @Failure 422 {object} rest.ErrorResponse "Misconfigured event"
// @Router /api/calendar/day [get]
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r, "date")
	if !ok {
		return
	}

	occs, err := h.calendar.GetDayOccurrences(r.Context(), date, queryFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, occurrencesToDTO(occs))
}

// GetAgenda godoc
// @Summary Get agenda
// @Description Days with occurrences, starting at the given date
// @Tags Calendar
// @Produce json
// @Param start query string true "First date (YYYY-MM-DD)"
// @Param days query int false "Number of days, defaults to the configured agenda length"
// @Param drafts query bool false "Include draft events"
// @Success 200 {array} AgendaDayDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid parameters"
// @Failure 422 {object} rest.ErrorResponse "Misconfigured event"
// @Router /api/calendar/agenda [get]
func (h *Handler) GetAgenda(w http.ResponseWriter, r *http.Request) {
	start, ok := dateParam(w, r, "start")
	if !ok {
		return
	}
	days := 0
	if daysString := r.URL.Query().Get("days"); daysString != "" {
		var err error
		days, err = strconv.Atoi(daysString)
		if err != nil || days < 1 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid days", "'days' must be a positive number")
			return
		}
	}

	agenda, err := h.calendar.GetAgenda(r.Context(), start, days, queryFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]AgendaDayDTO, 0, len(agenda))
	for _, day := range agenda {
		dtos = append(dtos, agendaDayToDTO(day))
	}
	rest.WriteJSON(w, dtos)
}

// GetFeed godoc
// @Summary Get iCalendar feed
// @Tags Calendar
// @Produce text/calendar
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param to query string true "Last date (YYYY-MM-DD)"
// @Success 200 {string} string "iCalendar document"
// @Failure 400 {object} rest.ErrorResponse "Invalid parameters"
// @Failure 422 {object} rest.ErrorResponse "Misconfigured event"
// @Router /api/calendar/feed.ics [get]
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	from, ok := dateParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := dateParam(w, r, "to")
	if !ok {
		return
	}
	window, err := event.NewWindow(from, to)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid window", err.Error())
		return
	}

	feed, err := h.calendar.GetFeed(r.Context(), window, queryFrom(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(feed)); err != nil {
		log.Errorf("failed to write feed: %v", err)
	}
}

func queryFrom(r *http.Request) Query {
	drafts, _ := strconv.ParseBool(r.URL.Query().Get("drafts"))
	return Query{IncludeDrafts: drafts}
}

func dateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	date, err := event.ParseDate(r.URL.Query().Get(name))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid "+name+" (date) format", "'"+name+"' must be in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return date, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	var cfgErr *event.ConfigurationError
	switch {
	case errors.Is(err, ErrInvalidQuery):
		rest.WriteError(w, http.StatusBadRequest, "Invalid query", err.Error())
	case errors.As(err, &cfgErr):
		log.Warnf("misconfigured event %s: %s", cfgErr.RecordID, cfgErr.Reason)
		rest.WriteError(w, http.StatusUnprocessableEntity, "Misconfigured event", cfgErr.Error())
	default:
		log.Errorf("calendar query failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

func cellsToDTO(cells []aggregate.Cell) []CellDTO {
	dtos := make([]CellDTO, 0, len(cells))
	for _, cell := range cells {
		dtos = append(dtos, CellDTO{
			Date:            event.FormatDate(cell.Date),
			DayOfMonth:      cell.DayOfMonth,
			IsCurrentPeriod: cell.IsCurrentPeriod,
			IsToday:         cell.IsToday,
			HiddenCount:     cell.HiddenCount,
			Occurrences:     occurrencesToDTO(cell.Occurrences),
		})
	}
	return dtos
}

func agendaDayToDTO(day aggregate.AgendaDay) AgendaDayDTO {
	return AgendaDayDTO{
		Date:        event.FormatDate(day.Date),
		Label:       day.Label,
		IsPast:      day.IsPast,
		Occurrences: occurrencesToDTO(day.Occurrences),
	}
}

func occurrencesToDTO(occs []occurrence.Occurrence) []OccurrenceDTO {
	dtos := make([]OccurrenceDTO, 0, len(occs))
	for _, o := range occs {
		dtos = append(dtos, occurrenceToDTO(o))
	}
	return dtos
}

func occurrenceToDTO(o occurrence.Occurrence) OccurrenceDTO {
	dto := OccurrenceDTO{
		SourceID:         o.SourceID.String(),
		InstanceKey:      o.InstanceKey,
		Date:             event.FormatDate(o.Date),
		AllDay:           o.AllDay(),
		IsVirtual:        o.IsVirtual,
		IsRecurringBase:  o.IsRecurringBase,
		IsMultiDay:       o.IsMultiDay,
		MultiDayPosition: string(o.MultiDayPosition),
		Color:            o.Color,
		Status:           string(o.Status),
		Hidden:           o.Hidden,
		CategoryIDs:      nonNil(o.CategoryIDs),
		ArtistIDs:        nonNil(o.ArtistIDs),
		ArtistNames:      nonNil(o.ArtistNames),
		LocationID:       o.LocationID,
		LocationName:     o.LocationName,
		Title:            o.Title,
		Description:      o.Description,
	}
	if o.StartTime != nil {
		dto.StartTime = o.StartTime.String()
	}
	if o.EndTime != nil {
		dto.EndTime = o.EndTime.String()
	}
	return dto
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
