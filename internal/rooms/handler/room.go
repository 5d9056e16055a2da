package handler

import (
	"errors"
	"io"
	"net/http"

	"hotelbooking/internal/rooms/service"
	apperrors "hotelbooking/pkg/errors"
	httputil "hotelbooking/pkg/http"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/middleware"
	"hotelbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	formPhoto       = "photo"
	formRoomType    = "room_type"
	formRoomPrice   = "room_price"
	formDescription = "room_description"

	defaultMultipartMemory = 8 << 20
)

type RoomHandler struct {
	service         service.RoomService
	multipartMemory int64
	log             *logger.Logger
}

// NewRoomHandler buffers up to multipartMemory bytes of each upload in memory;
// larger parts spill to temporary files.
func NewRoomHandler(service service.RoomService, multipartMemory int64, log *logger.Logger) *RoomHandler {
	if multipartMemory <= 0 {
		multipartMemory = defaultMultipartMemory
	}
	return &RoomHandler{
		service:         service,
		multipartMemory: multipartMemory,
		log:             log,
	}
}

// Add godoc
// @Summary Add a room
// @Tags rooms
// @Accept mpfd
// @Produce json
// @Param photo formData file true "Room photo"
// @Param room_type formData string true "Room type"
// @Param room_price formData string true "Price per night"
// @Param room_description formData string false "Description"
// @Success 200 {object} httputil.Response
// @Failure 400,503 {object} httputil.Response
// @Security BearerAuth
// @Router /rooms/add [post]
func (h *RoomHandler) Add(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	input, err := h.readRoomInput(r, false)
	if err != nil {
		h.writeError(w, "Add", err)
		return
	}

	room, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, "Add", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "Add", "operation", "WriteSuccess", "error", err)
	}
}

// GetAll godoc
// @Summary List rooms
// @Tags rooms
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} httputil.PaginatedResponse
// @Router /rooms/all [get]
func (h *RoomHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	rooms, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, rooms, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

// GetTypes godoc
// @Summary List distinct room types
// @Tags rooms
// @Produce json
// @Success 200 {object} httputil.Response
// @Router /rooms/types [get]
func (h *RoomHandler) GetTypes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	types, err := h.service.GetTypes(r.Context())
	if err != nil {
		h.writeError(w, "GetTypes", err)
		return
	}

	if err := httputil.WriteSuccess(w, types); err != nil {
		h.log.Error("failed to write success response", "handler", "GetTypes", "operation", "WriteSuccess", "error", err)
	}
}

// GetByID godoc
// @Summary Get a room with its bookings
// @Tags rooms
// @Produce json
// @Param roomId path string true "Room ID"
// @Success 200 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Router /rooms/room-by-id/{roomId} [get]
func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.GetByID(r.Context(), ps.ByName("roomId"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// GetAllAvailable godoc
// @Summary List rooms without any booking
// @Tags rooms
// @Produce json
// @Success 200 {object} httputil.Response
// @Router /rooms/all-available-rooms [get]
func (h *RoomHandler) GetAllAvailable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rooms, err := h.service.GetAllAvailable(r.Context())
	if err != nil {
		h.writeError(w, "GetAllAvailable", err)
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAllAvailable", "operation", "WriteSuccess", "error", err)
	}
}

// GetAvailableByDateAndType godoc
// @Summary Search free rooms by stay and type
// @Tags rooms
// @Produce json
// @Param check_in_date query string true "YYYY-MM-DD"
// @Param check_out_date query string true "YYYY-MM-DD"
// @Param room_type query string true "Room type (substring, case-insensitive)"
// @Success 200 {object} httputil.Response
// @Failure 400 {object} httputil.Response
// @Router /rooms/available-rooms-by-date-and-type [get]
func (h *RoomHandler) GetAvailableByDateAndType(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	checkIn, err := parseOptionalDate(q.Get("check_in_date"))
	if err != nil {
		h.writeError(w, "GetAvailableByDateAndType", err)
		return
	}
	checkOut, err := parseOptionalDate(q.Get("check_out_date"))
	if err != nil {
		h.writeError(w, "GetAvailableByDateAndType", err)
		return
	}

	rooms, err := h.service.GetAvailableByDateAndType(r.Context(), &model.AvailabilityQuery{
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		RoomType:     q.Get("room_type"),
	})
	if err != nil {
		h.writeError(w, "GetAvailableByDateAndType", err)
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAvailableByDateAndType", "operation", "WriteSuccess", "error", err)
	}
}

// Update godoc
// @Summary Update a room
// @Tags rooms
// @Accept mpfd
// @Produce json
// @Param roomId path string true "Room ID"
// @Param photo formData file false "New photo"
// @Param room_type formData string false "Room type"
// @Param room_price formData string false "Price per night"
// @Param room_description formData string false "Description"
// @Success 200 {object} httputil.Response
// @Failure 400,404 {object} httputil.Response
// @Security BearerAuth
// @Router /rooms/update/{roomId} [put]
func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	input, err := h.readRoomInput(r, true)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	room, err := h.service.Update(r.Context(), ps.ByName("roomId"), input)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

// Delete godoc
// @Summary Delete a room and its bookings
// @Tags rooms
// @Produce json
// @Param roomId path string true "Room ID"
// @Success 200 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Security BearerAuth
// @Router /rooms/delete/{roomId} [delete]
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("roomId")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, httputil.MessageSuccessful); err != nil {
		h.log.Error("failed to write message response", "handler", "Delete", "operation", "WriteMessage", "error", err)
	}
}

// readRoomInput reads the multipart room form. With optional set, a request
// without a body yields an empty input.
func (h *RoomHandler) readRoomInput(r *http.Request, optional bool) (*model.RoomInput, error) {
	if err := r.ParseMultipartForm(h.multipartMemory); err != nil {
		if optional && r.ContentLength == 0 && errors.Is(err, http.ErrNotMultipart) {
			return &model.RoomInput{}, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.PayloadTooLarge("Upload exceeds the allowed size")
		}
		return nil, apperrors.InvalidInput("Invalid multipart form: " + err.Error())
	}
	defer r.MultipartForm.RemoveAll()

	input := &model.RoomInput{
		RoomType:    r.FormValue(formRoomType),
		RoomPrice:   r.FormValue(formRoomPrice),
		Description: r.FormValue(formDescription),
	}

	file, header, err := r.FormFile(formPhoto)
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil
	}
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid photo upload: " + err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.InvalidInput("Failed to read photo: " + err.Error())
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	input.Photo = &model.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}
	return input, nil
}

func parseOptionalDate(s string) (model.Date, error) {
	if s == "" {
		return model.Date{}, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, apperrors.InvalidInput(err.Error())
	}
	return d, nil
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/rooms/add", middleware.RequireAuthority(h.Add, model.RoleAdmin))
	router.GET("/rooms/all", h.GetAll)
	router.GET("/rooms/types", h.GetTypes)
	router.GET("/rooms/room-by-id/:roomId", h.GetByID)
	router.GET("/rooms/all-available-rooms", h.GetAllAvailable)
	router.GET("/rooms/available-rooms-by-date-and-type", h.GetAvailableByDateAndType)
	router.PUT("/rooms/update/:roomId", middleware.RequireAuthority(h.Update, model.RoleAdmin))
	router.DELETE("/rooms/delete/:roomId", middleware.RequireAuthority(h.Delete, model.RoleAdmin))
}
