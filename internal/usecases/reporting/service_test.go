package reporting

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/repository/mocks"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestService_RevenueSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transactionRepository := mocks.NewMockTransactionRepository(ctrl)
	forecastRepository := mocks.NewMockForecastRepository(ctrl)

	service := NewService(transactionRepository, forecastRepository)

	testCases := []struct {
		name     string
		setup    func()
		validate func(t *testing.T, summary *domain.RevenueSummary, err error)
	}{
		{
			name: "Resumo calculado com a data de referência atual",
			setup: func() {
				transactionRepository.EXPECT().
					RevenueSummary("abc123", gomock.Any()).
					DoAndReturn(func(businessID string, reference time.Time) (*domain.RevenueSummary, error) {
						assert.WithinDuration(t, time.Now().UTC(), reference, 2*time.Second)
						return &domain.RevenueSummary{
							Today:            850.50,
							ThisWeek:         4200.00,
							ThisMonth:        18300.75,
							TransactionCount: 42,
						}, nil
					})
			},
			validate: func(t *testing.T, summary *domain.RevenueSummary, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 850.50, summary.Today)
				assert.Equal(t, 4200.00, summary.ThisWeek)
				assert.Equal(t, 18300.75, summary.ThisMonth)
				assert.Equal(t, 42, summary.TransactionCount)
			},
		},
		{
			name: "Erro do repositório é convertido em erro de banco",
			setup: func() {
				transactionRepository.EXPECT().
					RevenueSummary("abc123", gomock.Any()).
					Return(nil, assert.AnError)
			},
			validate: func(t *testing.T, summary *domain.RevenueSummary, err error) {
				assert.Nil(t, summary)
				assert.ErrorIs(t, err, ErrDatabaseOperation)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()

			summary, err := service.RevenueSummary("abc123")
			tc.validate(t, summary, err)
		})
	}
}

func TestService_DailyRevenue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transactionRepository := mocks.NewMockTransactionRepository(ctrl)
	forecastRepository := mocks.NewMockForecastRepository(ctrl)

	service := NewService(transactionRepository, forecastRepository)

	samplePoints := []*domain.DailyRevenuePoint{
		{Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Revenue: 900.00, TransactionCount: 30},
		{Date: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), Revenue: 1100.00, TransactionCount: 35},
	}

	testCases := []struct {
		name     string
		days     int
		setup    func()
		validate func(t *testing.T, response *domain.DailyRevenueResponse, err error)
	}{
		{
			name: "Sem dias informados usa a janela padrão de 30 dias",
			days: 0,
			setup: func() {
				transactionRepository.EXPECT().
					GetDailyTotals("abc123", gomock.Any(), gomock.Any()).
					DoAndReturn(func(businessID string, startDate, endDate time.Time) ([]*domain.DailyRevenuePoint, error) {
						assert.WithinDuration(t, time.Now().UTC(), endDate, 2*time.Second)
						assert.WithinDuration(t, endDate.AddDate(0, 0, -30), startDate, 2*time.Second)
						return samplePoints, nil
					})
			},
			validate: func(t *testing.T, response *domain.DailyRevenueResponse, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "abc123", response.BusinessID)
				assert.Equal(t, 30, response.Days)
				assert.Len(t, response.Series, 2)
				assert.Equal(t, 900.00, response.Series[0].Revenue)
				assert.Equal(t, 35, response.Series[1].TransactionCount)
			},
		},
		{
			name: "Janela explícita de 7 dias",
			days: 7,
			setup: func() {
				transactionRepository.EXPECT().
					GetDailyTotals("abc123", gomock.Any(), gomock.Any()).
					DoAndReturn(func(businessID string, startDate, endDate time.Time) ([]*domain.DailyRevenuePoint, error) {
						assert.WithinDuration(t, endDate.AddDate(0, 0, -7), startDate, 2*time.Second)
						return samplePoints, nil
					})
			},
			validate: func(t *testing.T, response *domain.DailyRevenueResponse, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 7, response.Days)
			},
		},
		{
			name: "Janela acima do máximo é limitada em 365 dias",
			days: 1000,
			setup: func() {
				transactionRepository.EXPECT().
					GetDailyTotals("abc123", gomock.Any(), gomock.Any()).
					DoAndReturn(func(businessID string, startDate, endDate time.Time) ([]*domain.DailyRevenuePoint, error) {
						assert.WithinDuration(t, endDate.AddDate(0, 0, -365), startDate, 2*time.Second)
						return []*domain.DailyRevenuePoint{}, nil
					})
			},
			validate: func(t *testing.T, response *domain.DailyRevenueResponse, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 365, response.Days)
				assert.Empty(t, response.Series)
			},
		},
		{
			name: "Erro do repositório é convertido em erro de banco",
			days: 30,
			setup: func() {
				transactionRepository.EXPECT().
					GetDailyTotals("abc123", gomock.Any(), gomock.Any()).
					Return(nil, assert.AnError)
			},
			validate: func(t *testing.T, response *domain.DailyRevenueResponse, err error) {
				assert.Nil(t, response)
				assert.ErrorIs(t, err, ErrDatabaseOperation)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()

			response, err := service.DailyRevenue("abc123", tc.days)
			tc.validate(t, response, err)
		})
	}
}

func TestService_GetForecast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transactionRepository := mocks.NewMockTransactionRepository(ctrl)
	forecastRepository := mocks.NewMockForecastRepository(ctrl)

	service := NewService(transactionRepository, forecastRepository)

	testCases := []struct {
		name     string
		setup    func()
		validate func(t *testing.T, forecast *domain.RevenueForecast, err error)
	}{
		{
			name: "Previsão existente é retornada",
			setup: func() {
				forecastRepository.EXPECT().
					GetByBusinessID("abc123").
					Return(&domain.RevenueForecast{
						ID:         1,
						BusinessID: "abc123",
						Metrics: &domain.ForecastMetrics{
							AvgDaily30: 950.00,
							AvgDaily90: 880.00,
						},
					}, nil)
			},
			validate: func(t *testing.T, forecast *domain.RevenueForecast, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "abc123", forecast.BusinessID)
				assert.Equal(t, 950.00, forecast.Metrics.AvgDaily30)
			},
		},
		{
			name: "Previsão inexistente retorna erro específico",
			setup: func() {
				forecastRepository.EXPECT().
					GetByBusinessID("abc123").
					Return(nil, nil)
			},
			validate: func(t *testing.T, forecast *domain.RevenueForecast, err error) {
				assert.Nil(t, forecast)
				assert.ErrorIs(t, err, ErrForecastNotFound)

				var reportErr *ReportError
				assert.True(t, errors.As(err, &reportErr))
				assert.Equal(t, "abc123", reportErr.BusinessID)
			},
		},
		{
			name: "Erro do repositório é convertido em erro de banco",
			setup: func() {
				forecastRepository.EXPECT().
					GetByBusinessID("abc123").
					Return(nil, assert.AnError)
			},
			validate: func(t *testing.T, forecast *domain.RevenueForecast, err error) {
				assert.Nil(t, forecast)
				assert.ErrorIs(t, err, ErrDatabaseOperation)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()

			forecast, err := service.GetForecast("abc123")
			tc.validate(t, forecast, err)
		})
	}
}
