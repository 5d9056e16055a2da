package handler

import (
	"net/http"

	"hotelbooking/internal/users/service"
	apperrors "hotelbooking/pkg/errors"
	httputil "hotelbooking/pkg/http"
	"hotelbooking/pkg/identity"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/middleware"
	"hotelbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service service.UserService
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// GetAll godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} httputil.PaginatedResponse
// @Failure 401,403 {object} httputil.Response
// @Security BearerAuth
// @Router /users/all [get]
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	users, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, users, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

// GetByID godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} httputil.Response
// @Failure 401,404 {object} httputil.Response
// @Security BearerAuth
// @Router /users/get-by-id/{userId} [get]
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.GetByID(r.Context(), ps.ByName("userId"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Success 200 {object} httputil.Response
// @Failure 401 {object} httputil.Response
// @Security BearerAuth
// @Router /users/get-logged-in-profile-info [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		h.writeError(w, "GetProfile", apperrors.Unauthorized("Authentication required"))
		return
	}

	user, err := h.service.GetByEmail(r.Context(), caller.Email)
	if err != nil {
		h.writeError(w, "GetProfile", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "GetProfile", "operation", "WriteSuccess", "error", err)
	}
}

// GetBookingHistory godoc
// @Summary Get a user with their bookings
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} httputil.Response
// @Failure 401,404 {object} httputil.Response
// @Security BearerAuth
// @Router /users/get-user-bookings/{userId} [get]
func (h *UserHandler) GetBookingHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.GetBookingHistory(r.Context(), ps.ByName("userId"))
	if err != nil {
		h.writeError(w, "GetBookingHistory", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBookingHistory", "operation", "WriteSuccess", "error", err)
	}
}

// Delete godoc
// @Summary Delete a user and their bookings
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} httputil.Response
// @Failure 401,403,404 {object} httputil.Response
// @Security BearerAuth
// @Router /users/delete/{userId} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("userId")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, httputil.MessageSuccessful); err != nil {
		h.log.Error("failed to write message response", "handler", "Delete", "operation", "WriteMessage", "error", err)
	}
}

func (h *UserHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/users/all", middleware.RequireAuthority(h.GetAll, model.RoleAdmin))
	router.GET("/users/get-by-id/:userId", middleware.RequireAuthenticated(h.GetByID))
	router.GET("/users/get-logged-in-profile-info", middleware.RequireAuthenticated(h.GetProfile))
	router.GET("/users/get-user-bookings/:userId", middleware.RequireAuthenticated(h.GetBookingHistory))
	router.DELETE("/users/delete/:userId", middleware.RequireAuthority(h.Delete, model.RoleAdmin))
}
