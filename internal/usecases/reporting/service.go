package reporting

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/repository"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"github.com/vfg2006/revenue-monitor-api/pkg/apiErrors"
)

const (
	defaultSeriesDays = 30
	maxSeriesDays     = 365
)

type Service struct {
	transactionRepository repository.TransactionRepository
	forecastRepository    repository.ForecastRepository
}

func NewService(
	transactionRepository repository.TransactionRepository,
	forecastRepository repository.ForecastRepository,
) Reporter {
	return &Service{
		transactionRepository: transactionRepository,
		forecastRepository:    forecastRepository,
	}
}

func (s *Service) RevenueSummary(businessID string) (*domain.RevenueSummary, error) {
	summary, err := s.transactionRepository.RevenueSummary(businessID, time.Now().UTC())
	if err != nil {
		logrus.Error("Error getting revenue summary on the repository:", err)
		return nil, NewReportError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, businessID,
			"Falha ao calcular o resumo de faturamento")
	}

	return summary, nil
}

func (s *Service) DailyRevenue(businessID string, days int) (*domain.DailyRevenueResponse, error) {
	if days <= 0 {
		days = defaultSeriesDays
	}

	if days > maxSeriesDays {
		days = maxSeriesDays
	}

	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -days)

	points, err := s.transactionRepository.GetDailyTotals(businessID, startDate, endDate)
	if err != nil {
		logrus.Error("Error getting daily totals on the repository:", err)
		return nil, NewReportError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, businessID,
			"Falha ao buscar a série diária de faturamento")
	}

	series := make([]domain.DailyRevenuePoint, 0, len(points))
	for _, point := range points {
		series = append(series, *point)
	}

	return &domain.DailyRevenueResponse{
		BusinessID: businessID,
		Days:       days,
		Series:     series,
	}, nil
}

func (s *Service) GetForecast(businessID string) (*domain.RevenueForecast, error) {
	forecast, err := s.forecastRepository.GetByBusinessID(businessID)
	if err != nil {
		logrus.Error("Error getting forecast on the repository:", err)
		return nil, NewReportError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, businessID,
			"Falha ao buscar a previsão de faturamento")
	}

	if forecast == nil {
		return nil, NewReportError(ErrForecastNotFound, apiErrors.ErrForecastNotFound, businessID,
			"Previsão ainda não calculada para o negócio")
	}

	return forecast, nil
}
