package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
)

// Максимальный размер тела запроса
const maxBodyBytes = 1 << 20

const (
	msgInternalError = "Възникна грешка. Моля, опитайте отново."
	msgUnauthorized  = "Необходима е автентикация"
)

// Envelope единый формат всех ответов API
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// RespondJSON отправляет успешный ответ с данными
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeEnvelope(w, status, Envelope{Success: true, Data: data})
}

// RespondMessage отправляет успешный ответ с сообщением
func RespondMessage(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, Envelope{Success: true, Message: message})
}

// RespondError отправляет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, Envelope{Success: false, Error: message})
}

// RespondErrorWithData отправляет ошибку вместе с данными (например, пустым списком слотов)
func RespondErrorWithData(w http.ResponseWriter, status int, message string, data interface{}) {
	writeEnvelope(w, status, Envelope{Success: false, Error: message, Data: data})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondUnauthorized(w http.ResponseWriter) {
	RespondError(w, http.StatusUnauthorized, msgUnauthorized)
}

// RespondInternalError текст внутренней ошибки клиенту не передается
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// DecodeJSON разбирает тело запроса, отклоняя неизвестные поля
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// BookingID извлекает ключ записи из URL
func BookingID(r *http.Request) string {
	return mux.Vars(r)["bookingId"]
}

// ParseDateParam разбирает обязательный query параметр с датой YYYY-MM-DD
func ParseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing %s", name)
	}
	return domain.ParseDate(raw)
}
