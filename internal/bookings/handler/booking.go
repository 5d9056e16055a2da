package handler

import (
	"net/http"

	"hotelbooking/internal/bookings/service"
	httputil "hotelbooking/pkg/http"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/middleware"
	"hotelbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

// BookRoom godoc
// @Summary Book a room
// @Tags bookings
// @Accept json
// @Produce json
// @Param roomId path string true "Room ID"
// @Param userId path string true "User ID"
// @Param booking body model.BookingRequest true "Stay"
// @Success 200 {object} httputil.Response
// @Failure 400,404,409 {object} httputil.Response
// @Security BearerAuth
// @Router /bookings/book-room/{roomId}/{userId} [post]
func (h *BookingHandler) BookRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "BookRoom", err)
		return
	}

	confirmation, err := h.service.Create(r.Context(), ps.ByName("roomId"), ps.ByName("userId"), &req)
	if err != nil {
		h.writeError(w, "BookRoom", err)
		return
	}

	if err := httputil.WriteSuccess(w, confirmation); err != nil {
		h.log.Error("failed to write success response", "handler", "BookRoom", "operation", "WriteSuccess", "error", err)
	}
}

// GetAll godoc
// @Summary List bookings
// @Tags bookings
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} httputil.PaginatedResponse
// @Security BearerAuth
// @Router /bookings/all [get]
func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

// GetByConfirmationCode godoc
// @Summary Find a booking by confirmation code
// @Tags bookings
// @Produce json
// @Param code path string true "Confirmation code"
// @Success 200 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Router /bookings/get-by-confirmation-code/{code} [get]
func (h *BookingHandler) GetByConfirmationCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	details, err := h.service.GetByConfirmationCode(r.Context(), ps.ByName("code"))
	if err != nil {
		h.writeError(w, "GetByConfirmationCode", err)
		return
	}

	if err := httputil.WriteSuccess(w, details); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByConfirmationCode", "operation", "WriteSuccess", "error", err)
	}
}

// Cancel godoc
// @Summary Cancel a booking
// @Tags bookings
// @Produce json
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Security BearerAuth
// @Router /bookings/cancel/{bookingId} [delete]
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Cancel(r.Context(), ps.ByName("bookingId")); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, httputil.MessageSuccessful); err != nil {
		h.log.Error("failed to write message response", "handler", "Cancel", "operation", "WriteMessage", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/bookings/book-room/:roomId/:userId", middleware.RequireAuthority(h.BookRoom, model.RoleAdmin, model.RoleUser))
	router.GET("/bookings/all", middleware.RequireAuthority(h.GetAll, model.RoleAdmin))
	router.GET("/bookings/get-by-confirmation-code/:code", h.GetByConfirmationCode)
	router.DELETE("/bookings/cancel/:bookingId", middleware.RequireAuthority(h.Cancel, model.RoleAdmin))
}
