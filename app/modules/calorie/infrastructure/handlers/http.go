package caloriehandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/Black-And-White-Club/weighin-league/app/eventbus"
	"github.com/Black-And-White-Club/weighin-league/app/events"
	authdomain "github.com/Black-And-White-Club/weighin-league/app/modules/auth/domain"
	calorieservice "github.com/Black-And-White-Club/weighin-league/app/modules/calorie/application"
	"github.com/Black-And-White-Club/weighin-league/pkg/httpjson"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
)

// HTTPHandlers serves the calorie log of the signed-in user.
type HTTPHandlers struct {
	service   calorieservice.Service
	publisher message.Publisher
	helpers   utils.Helpers
	logger    *slog.Logger
}

func NewHTTPHandlers(service calorieservice.Service, publisher message.Publisher, helpers utils.Helpers, logger *slog.Logger) *HTTPHandlers {
	return &HTTPHandlers{service: service, publisher: publisher, helpers: helpers, logger: logger}
}

// Routes mounts under /api/calories.
func (h *HTTPHandlers) Routes(r chi.Router) {
	r.Post("/day", h.HandleSetDay)
	r.Get("/day/{date}", h.HandleGetDay)
	r.Post("/entry", h.HandleAddEntry)
	r.Put("/privacy", h.HandleSetPrivacy)
}

func (h *HTTPHandlers) HandleSetDay(w http.ResponseWriter, r *http.Request) {
	var req calorieservice.DayRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())
	req.UserID = claims.UserID

	result, err := h.service.SetDay(r.Context(), req)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	day := *result.Success
	h.publishDay(r, day)
	httpjson.Write(w, http.StatusOK, day)
}

func (h *HTTPHandlers) HandleAddEntry(w http.ResponseWriter, r *http.Request) {
	var req calorieservice.EntryRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())
	req.UserID = claims.UserID

	result, err := h.service.AddEntry(r.Context(), req)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	entry := *result.Success
	if entry.Day != nil {
		h.publishDay(r, entry.Day)
	}
	httpjson.Write(w, http.StatusCreated, entry)
}

func (h *HTTPHandlers) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	day, err := calorieservice.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())

	result, err := h.service.GetDay(r.Context(), claims.UserID, day)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	httpjson.Write(w, http.StatusOK, *result.Success)
}

func (h *HTTPHandlers) HandleSetPrivacy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PrivacyMode string `json:"privacyMode"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	claims, _ := authdomain.ClaimsFromContext(r.Context())

	result, err := h.service.SetPrivacy(r.Context(), claims.UserID, req.PrivacyMode)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.failure(w, *result.Failure)
		return
	}
	view := *result.Success
	h.publish(r, events.CalorieDayUpdatedPayloadV1{UserID: view.UserID})
	httpjson.Write(w, http.StatusOK, view)
}

func (h *HTTPHandlers) publishDay(r *http.Request, day *calorieservice.DayView) {
	d, err := calorieservice.ParseDate(day.Date)
	if err != nil {
		return
	}
	h.publish(r, events.CalorieDayUpdatedPayloadV1{UserID: day.UserID, Day: d, Tracked: day.IsTracked})
}

// publish tells leaderboards that a checkmark may have changed. The write is already
// committed, so a failure only delays the cached view until its TTL runs out.
func (h *HTTPHandlers) publish(r *http.Request, payload events.CalorieDayUpdatedPayloadV1) {
	msg, err := eventbus.NewMessage(h.helpers, events.CalorieDayUpdatedV1, payload, r.Header.Get("X-Correlation-ID"))
	if err == nil {
		err = h.publisher.Publish(events.CalorieDayUpdatedV1, msg)
	}
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to publish calorie event",
			attr.String("user_id", payload.UserID),
			attr.Error(err),
		)
	}
}

func (h *HTTPHandlers) failure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calorieservice.ErrInvalidDate), errors.Is(err, calorieservice.ErrInvalidPrivacy):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	default:
		httpjson.Error(w, http.StatusUnprocessableEntity, err.Error())
	}
}

func (h *HTTPHandlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Calorie request failed",
		attr.String("path", r.URL.Path),
		attr.Error(err),
	)
	httpjson.Error(w, http.StatusInternalServerError, "internal error")
}
