package models

import (
	"errors"
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену записи
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// ListBookingsRequest запрос на получение записей за период
type ListBookingsRequest struct {
	StartDate time.Time `json:"startDate"`        // включительно
	EndDate   time.Time `json:"endDate"`          // включительно
	Status    *string   `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		StartDate: domain.DateOf(r.StartDate),
		EndDate:   domain.DateOf(r.EndDate),
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными записи
type BookingResponse struct {
	ID                 string  `json:"id"`
	ConfirmationNumber string  `json:"confirmationNumber"`
	CustomerName       string  `json:"customerName"`
	Phone              string  `json:"phone"`
	Email              string  `json:"email,omitempty"`
	RegistrationPlate  string  `json:"registrationPlate"`
	VehicleType        string  `json:"vehicleType"`
	VehicleBrand       string  `json:"vehicleBrand,omitempty"`
	Is4x4              bool    `json:"is4x4"`
	AppointmentDate    string  `json:"appointmentDate"` // "2026-10-19"
	AppointmentTime    string  `json:"appointmentTime"` // "09:00"
	Price              float64 `json:"price"`
	Status             string  `json:"status"`
	Notes              string  `json:"notes,omitempty"`

	CancellationReason string  `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// BookingListResponse ответ со списком записей
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		ConfirmationNumber: domain.ConfirmationNumber(b.AppointmentDate, b.ID),
		CustomerName:       b.CustomerName,
		Phone:              b.Phone,
		Email:              b.Email,
		RegistrationPlate:  b.RegistrationPlate,
		VehicleType:        string(b.VehicleType),
		VehicleBrand:       b.VehicleBrand,
		Is4x4:              b.Is4x4,
		AppointmentDate:    b.AppointmentDate.Format(domain.DateFormat),
		AppointmentTime:    b.AppointmentTime.String(),
		Price:              b.Price,
		Status:             string(b.Status),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
