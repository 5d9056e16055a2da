package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "hotelbooking/pkg/errors"
)

const MessageSuccessful = "successful"

type Response struct {
	StatusCode int            `json:"status_code"`
	Message    string         `json:"message"`
	Code       string         `json:"code,omitempty"`
	Data       any            `json:"data,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

type PaginatedResponse struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	TotalCount int64  `json:"total_count"`
	Limit      int    `json:"limit"`
	Offset     int64  `json:"offset"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}

// WriteError renders err as the response envelope. Errors that are not
// AppErrors become internal errors carrying the underlying message.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)

	message := appErr.Message
	if appErr.Code == apperrors.CodeInternal && appErr.Err != nil {
		message = fmt.Sprintf("%s: %v", appErr.Message, appErr.Err)
	}

	return WriteJSON(w, appErr.StatusCode(), Response{
		StatusCode: appErr.StatusCode(),
		Message:    message,
		Code:       appErr.Code,
		Details:    appErr.Details,
	})
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, Response{
		StatusCode: http.StatusOK,
		Message:    MessageSuccessful,
		Data:       data,
	})
}

func WriteMessage(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, Response{
		StatusCode: statusCode,
		Message:    message,
	})
}

func WritePaginated(w http.ResponseWriter, data any, totalCount int64, limit int, offset int64) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		StatusCode: http.StatusOK,
		Message:    MessageSuccessful,
		Data:       data,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	})
}
