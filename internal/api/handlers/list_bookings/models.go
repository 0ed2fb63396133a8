package list_bookings

import (
	"net/http"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/bookings/models"
)

// ToServiceRequest собирает запрос сервиса из query параметров from, to, status
func ToServiceRequest(r *http.Request) (*models.ListBookingsRequest, error) {
	from, err := handlers.ParseDateParam(r, "from")
	if err != nil {
		return nil, err
	}

	to, err := handlers.ParseDateParam(r, "to")
	if err != nil {
		return nil, err
	}

	req := &models.ListBookingsRequest{
		StartDate: from,
		EndDate:   to,
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	return req, nil
}
