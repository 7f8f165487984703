package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/VMP-BookingService/internal/api/handlers"
	"github.com/m04kA/VMP-BookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/VMP-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidVenueID = "некорректный ID площадки"
	msgMissingDate    = "дата обязательна"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgVenueNotFound  = "площадка не найдена"
	msgVenueInactive  = "площадка недоступна для бронирования"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/venues/{venueId}/availability
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venueID, ok := h.parseVenueID(w, r, "GET /venues/{id}/availability")
	if !ok {
		return
	}

	date, ok := h.parseDate(w, r, "date", "GET /venues/{id}/availability")
	if !ok {
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		VenueID: venueID,
		Date:    date,
	})
	if err != nil {
		h.respondUseCaseError(w, err, venueID, "GET /venues/{id}/availability")
		return
	}

	h.logger.Info("GET /venues/{id}/availability - Slots retrieved: venue_id=%d, date=%s, slots=%d",
		venueID, date.Format(domain.DateFormat), len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseDay(result))
}

// HandleWeek GET /api/v1/venues/{venueId}/availability/week
// Query params: from (required, YYYY-MM-DD) - первая дата семидневного окна
func (h *Handler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	venueID, ok := h.parseVenueID(w, r, "GET /venues/{id}/availability/week")
	if !ok {
		return
	}

	from, ok := h.parseDate(w, r, "from", "GET /venues/{id}/availability/week")
	if !ok {
		return
	}

	result, err := h.useCase.ExecuteWeek(r.Context(), &getAvailableSlots.WeekRequest{
		VenueID: venueID,
		From:    from,
	})
	if err != nil {
		h.respondUseCaseError(w, err, venueID, "GET /venues/{id}/availability/week")
		return
	}

	h.logger.Info("GET /venues/{id}/availability/week - Week retrieved: venue_id=%d, from=%s",
		venueID, from.Format(domain.DateFormat))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseWeek(result))
}

func (h *Handler) parseVenueID(w http.ResponseWriter, r *http.Request, site string) (int64, bool) {
	venueID, err := strconv.ParseInt(mux.Vars(r)["venueId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid venue ID: %v", site, err)
		handlers.RespondBadRequest(w, msgInvalidVenueID)
		return 0, false
	}
	return venueID, true
}

func (h *Handler) parseDate(w http.ResponseWriter, r *http.Request, param, site string) (time.Time, bool) {
	dateStr := r.URL.Query().Get(param)
	if dateStr == "" {
		h.logger.Warn("%s - Missing %s param", site, param)
		handlers.RespondBadRequest(w, msgMissingDate)
		return time.Time{}, false
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("%s - Invalid %s param: %v", site, param, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return time.Time{}, false
	}

	return date, true
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, err error, venueID int64, site string) {
	switch {
	case errors.Is(err, getAvailableSlots.ErrVenueNotFound):
		h.logger.Warn("%s - Venue not found: venue_id=%d", site, venueID)
		handlers.RespondNotFound(w, msgVenueNotFound)

	case errors.Is(err, getAvailableSlots.ErrVenueInactive):
		h.logger.Warn("%s - Venue inactive: venue_id=%d", site, venueID)
		handlers.RespondError(w, http.StatusConflict, msgVenueInactive)

	case errors.Is(err, getAvailableSlots.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: venue_id=%d, error=%v", site, venueID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)

	default:
		h.logger.Error("%s - Failed to get slots: venue_id=%d, error=%v", site, venueID, err)
		handlers.RespondInternalError(w)
	}
}
