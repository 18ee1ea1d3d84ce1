package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"restaurant-ordering/internal/apperr"
)

// response is the envelope every endpoint returns.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func decodeJSON(body io.ReadCloser, dst any) error {
	defer body.Close()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return apperr.Validationf("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, response{Success: true, Message: message, Data: data})
}

func writeList(w http.ResponseWriter, data any, count int) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: data, Count: &count})
}

func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	writeJSON(w, status, response{Success: false, Message: message})
}

func writeNotFoundRoute(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, response{Success: false, Message: "Endpoint not found"})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, response{Success: false, Message: "Method not allowed"})
}
