package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"food-ordering/internal/dto/request"
	"food-ordering/internal/dto/response"
	"food-ordering/internal/usecase"
	"food-ordering/pkg/stream"
	"food-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service     usecase.BookingService
	broadcaster *stream.Broadcaster
	config      *utils.Config
	log         *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, broadcaster *stream.Broadcaster, config *utils.Config, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service:     service,
		broadcaster: broadcaster,
		config:      config,
		log:         log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected). The request blocks
// until the vendor decides or the response window elapses.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, message, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, message, booking)
}

// GetBooking handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	booking, err := h.service.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		h.handleServiceError(w, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID, req)
	if err != nil {
		h.handleServiceError(w, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// StreamBooking handles GET /api/bookings/{id}/stream (protected, SSE).
// It pushes an INITIAL frame with the current booking, then STATUS_UPDATE
// frames as the vendor moves the order along.
func (h *BookingHandler) StreamBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	// Ownership check doubles as the source of the INITIAL frame.
	booking, err := h.service.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		h.handleServiceError(w, err, "stream booking")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.ResponseInternalError(w, "Streaming not supported")
		return
	}

	// Subscribe before the first write so no update published in between is
	// lost.
	events, cancel := h.broadcaster.Subscribe(bookingID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeSSE(w, response.InitialEvent{Type: stream.EventTypeInitial, Booking: booking}); err != nil {
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(h.config.Booking.StreamKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case event, open := <-events:
			if !open {
				return
			}
			if err := writeSSE(w, event.Payload); err != nil {
				h.log.Debug("Stream write failed, closing",
					zap.String("booking_id", bookingID.String()),
					zap.Error(err))
				return
			}
			flusher.Flush()

		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// VendorRespond handles PUT /api/vendor/orders/{id}/respond (vendor only)
func (h *BookingHandler) VendorRespond(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := utils.GetVendorIDFromContext(r.Context())
	if !ok {
		utils.ResponseForbidden(w, "Vendor access required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	var req request.VendorRespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.VendorRespond(r.Context(), vendorID, bookingID, &req)
	if err != nil {
		h.handleServiceError(w, err, "vendor respond")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// AdvanceStatus handles PATCH /api/vendor/orders/{id}/status (vendor only)
func (h *BookingHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := utils.GetVendorIDFromContext(r.Context())
	if !ok {
		utils.ResponseForbidden(w, "Vendor access required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	booking, err := h.service.AdvanceStatus(r.Context(), vendorID, bookingID)
	if err != nil {
		h.handleServiceError(w, err, "advance status")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetVendorBookings handles GET /api/vendor/orders (vendor only)
func (h *BookingHandler) GetVendorBookings(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := utils.GetVendorIDFromContext(r.Context())
	if !ok {
		utils.ResponseForbidden(w, "Vendor access required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	bookings, err := h.service.GetVendorBookings(r.Context(), vendorID, req)
	if err != nil {
		h.handleServiceError(w, err, "get vendor bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ConfirmPayment handles POST /api/bookings/{id}/payment (protected)
func (h *BookingHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	var req request.PaymentConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.ConfirmPayment(r.Context(), userID, bookingID, &req)
	if err != nil {
		h.handleServiceError(w, err, "confirm payment")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var validation *usecase.ValidationError
	var couponInvalid *usecase.CouponInvalidError
	var invalidItem *usecase.InvalidModifiedItemError
	var state *usecase.StateError

	switch {
	case errors.As(err, &validation):
		h.log.Warn(operation+" validation failed", zap.Any("fields", validation.Fields))
		utils.ResponseBadRequest(w, "Validation failed", validation.Fields)

	case errors.Is(err, usecase.ErrOrderNotFound),
		errors.Is(err, usecase.ErrVendorNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrEmptyCart),
		errors.Is(err, usecase.ErrServiceTypeMismatch),
		errors.Is(err, usecase.ErrVendorMissing):
		h.log.Warn(operation+" failed - cart state", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.As(err, &couponInvalid):
		h.log.Warn(operation+" failed - coupon invalid", zap.Error(err))
		utils.ResponseBadRequest(w, couponInvalid.Error(), nil)

	case errors.As(err, &invalidItem):
		h.log.Warn(operation+" failed - invalid modified item", zap.Error(err))
		utils.ResponseBadRequest(w, invalidItem.Error(), nil)

	case errors.As(err, &state):
		h.log.Warn(operation+" failed - wrong state", zap.Error(err))
		utils.ResponseBadRequest(w, state.Message, nil)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
