package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/settings/models"
)

// Service сервис настроек: источник BusinessSettings для всех операций
type Service struct {
	repo         SettingsRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(repo SettingsRepository, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		repo:         repo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Get возвращает текущие настройки
// Если настройки еще не сохранялись, возвращает значения по умолчанию
func (s *Service) Get(ctx context.Context) (*domain.BusinessSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSettingsNotFound) {
			s.logger.Info("GetSettings: settings not stored, using defaults")
			return domain.DefaultBusinessSettings(), nil
		}
		s.logger.Error("GetSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	return settings, nil
}

// Update применяет частичное обновление, проверяет результат и сохраняет его
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*domain.BusinessSettings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := req.ApplyTo(current)
	if err != nil {
		s.logger.Warn("UpdateSettings: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := updated.Validate(); err != nil {
		s.logger.Warn("UpdateSettings: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.timeProvider.Now()
	updated.UpdatedAt = &now

	saved, err := s.repo.Save(ctx, updated)
	if err != nil {
		s.logger.Error("UpdateSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: settings updated, hours=%s-%s, slot=%dm, window=%dw, closed days=%d",
		saved.WorkingHours.Start, saved.WorkingHours.End, saved.SlotDurationMinutes,
		saved.BookingWindowWeeks, len(saved.ClosedDays))
	return saved, nil
}
