package detecting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/repository/mocks"
	"github.com/vfg2006/revenue-monitor-api/internal/config"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func defaultDetectionConfig() config.Detection {
	return config.Detection{
		LookbackDays:    60,
		ThresholdStd:    2.0,
		MinDropPercent:  15.0,
		TrendDays:       30,
		DowLookbackDays: 60,
	}
}

// makeSeries monta uma série diária consecutiva a partir da data inicial
func makeSeries(start time.Time, revenues []float64) []*domain.DailyRevenuePoint {
	points := make([]*domain.DailyRevenuePoint, len(revenues))
	for i, revenue := range revenues {
		points[i] = &domain.DailyRevenuePoint{
			Date:    start.AddDate(0, 0, i),
			Revenue: revenue,
		}
	}
	return points
}

func buildSeries(start time.Time, pattern []float64, historicalDays int, today float64) []*domain.DailyRevenuePoint {
	revenues := make([]float64, 0, historicalDays+1)
	for i := 0; i < historicalDays; i++ {
		revenues = append(revenues, pattern[i%len(pattern)])
	}
	revenues = append(revenues, today)
	return makeSeries(start, revenues)
}

func TestService_DetectAnomaly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Mocks
	mockTransactionRepo := mocks.NewMockTransactionRepository(ctrl)

	// Service
	service := &Service{
		cfg:             defaultDetectionConfig(),
		transactionRepo: mockTransactionRepo,
	}

	// 1º de janeiro de 2024 é uma segunda-feira
	seriesStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	stablePattern := []float64{1000, 1010, 990, 1005, 995, 1015, 985}
	dropPattern := []float64{1000, 1050, 950, 1020, 980, 1100, 900}

	tests := []struct {
		name     string
		setup    func()
		validate func(t *testing.T, verdict *domain.AnomalyVerdict)
	}{
		{
			name: "Série estável com ruído de 2% não gera falso positivo",
			setup: func() {
				series := buildSeries(seriesStart, stablePattern, 29, 995)
				mockTransactionRepo.EXPECT().
					GetDailyTotals("BIZ001", gomock.Any(), gomock.Any()).
					Return(series, nil).
					Times(2)
			},
			validate: func(t *testing.T, verdict *domain.AnomalyVerdict) {
				assert.False(t, verdict.Detected)
			},
		},
		{
			name: "Queda artificial de 50% é detectada com severidade alta",
			setup: func() {
				series := buildSeries(seriesStart, dropPattern, 29, 500)
				mockTransactionRepo.EXPECT().
					GetDailyTotals("BIZ001", gomock.Any(), gomock.Any()).
					Return(series, nil).
					Times(2)
			},
			validate: func(t *testing.T, verdict *domain.AnomalyVerdict) {
				assert.True(t, verdict.Detected)
				assert.Equal(t, domain.SeverityHigh, verdict.Severity)
				assert.Equal(t, 500.0, verdict.TodayRevenue)
				assert.Equal(t, 1000.0, verdict.RollingAvg7)
				assert.Equal(t, 1000.0, verdict.RollingAvg30)
				assert.InDelta(t, 50.0, verdict.DropPercent, 0.01)
				assert.Less(t, verdict.ZScore, -2.0)
				assert.Greater(t, verdict.StdDev, 0.0)
				// Terças-feiras da janela: quatro dias a 1050 mais o próprio dia a 500
				assert.InDelta(t, 940.0, verdict.DowBaseline, 0.01)
				assert.True(t, verdict.DowAdjusted)
				assert.Equal(t, 30, verdict.DataPoints)
			},
		},
		{
			name: "Menos de 7 pontos retorna apenas a marcação negativa",
			setup: func() {
				series := makeSeries(seriesStart, []float64{100, 200, 300, 400, 500})
				mockTransactionRepo.EXPECT().
					GetDailyTotals("BIZ001", gomock.Any(), gomock.Any()).
					Return(series, nil).
					Times(1)
			},
			validate: func(t *testing.T, verdict *domain.AnomalyVerdict) {
				assert.False(t, verdict.Detected)
				assert.Zero(t, verdict.TodayRevenue)
				assert.Zero(t, verdict.DataPoints)
			},
		},
		{
			name: "Série vazia não gera veredito",
			setup: func() {
				mockTransactionRepo.EXPECT().
					GetDailyTotals("BIZ001", gomock.Any(), gomock.Any()).
					Return([]*domain.DailyRevenuePoint{}, nil).
					Times(1)
			},
			validate: func(t *testing.T, verdict *domain.AnomalyVerdict) {
				assert.False(t, verdict.Detected)
			},
		},
		{
			name: "Z-score extremo com queda percentual pequena não dispara",
			setup: func() {
				series := buildSeries(seriesStart, []float64{999, 1001}, 29, 985)
				mockTransactionRepo.EXPECT().
					GetDailyTotals("BIZ001", gomock.Any(), gomock.Any()).
					Return(series, nil).
					Times(2)
			},
			validate: func(t *testing.T, verdict *domain.AnomalyVerdict) {
				assert.False(t, verdict.Detected)
			},
		},
		{
			name: "Queda expressiva com z-score brando não dispara",
			setup: func() {
				series := buildSeries(seriesStart, []float64{1500, 500}, 28, 700)
				mockTransactionRepo.EXPECT().
					GetDailyTotals("BIZ001", gomock.Any(), gomock.Any()).
					Return(series, nil).
					Times(2)
			},
			validate: func(t *testing.T, verdict *domain.AnomalyVerdict) {
				assert.False(t, verdict.Detected)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			verdict, err := service.DetectAnomaly("BIZ001", time.Time{}, 0, 0)

			assert.NoError(t, err)
			assert.NotNil(t, verdict)
			tt.validate(t, verdict)
		})
	}
}

func TestService_DetectAnomaly_RepeatedCallsProduceSameVerdict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransactionRepo := mocks.NewMockTransactionRepository(ctrl)

	service := &Service{
		cfg:             defaultDetectionConfig(),
		transactionRepo: mockTransactionRepo,
	}

	seriesStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := buildSeries(seriesStart, []float64{1000, 1050, 950, 1020, 980, 1100, 900}, 29, 500)

	mockTransactionRepo.EXPECT().
		GetDailyTotals("BIZ001", gomock.Any(), gomock.Any()).
		Return(series, nil).
		Times(4)

	first, err := service.DetectAnomaly("BIZ001", time.Time{}, 0, 0)
	assert.NoError(t, err)

	second, err := service.DetectAnomaly("BIZ001", time.Time{}, 0, 0)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestService_DetectAnomaly_CustomParameters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransactionRepo := mocks.NewMockTransactionRepository(ctrl)

	service := &Service{
		cfg:             defaultDetectionConfig(),
		transactionRepo: mockTransactionRepo,
	}

	seriesStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dropSeries := buildSeries(seriesStart, []float64{1000, 1050, 950, 1020, 980, 1100, 900}, 29, 500)

	t.Run("Limiar mais rígido descarta a mesma queda", func(t *testing.T) {
		mockTransactionRepo.EXPECT().
			GetDailyTotals("BIZ001", gomock.Any(), gomock.Any()).
			Return(dropSeries, nil).
			Times(2)

		verdict, err := service.DetectAnomaly("BIZ001", time.Time{}, 0, 9.0)

		assert.NoError(t, err)
		assert.False(t, verdict.Detected)
	})

	t.Run("Janela customizada define o período da consulta", func(t *testing.T) {
		date := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

		mockTransactionRepo.EXPECT().
			GetDailyTotals("BIZ001", date.AddDate(0, 0, -14), date).
			Return([]*domain.DailyRevenuePoint{}, nil)

		verdict, err := service.DetectAnomaly("BIZ001", date, 14, 0)

		assert.NoError(t, err)
		assert.False(t, verdict.Detected)
	})
}

func TestService_AnalyzeTrend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransactionRepo := mocks.NewMockTransactionRepository(ctrl)

	service := &Service{
		cfg:             defaultDetectionConfig(),
		transactionRepo: mockTransactionRepo,
	}

	seriesStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	growthSeries := func(rate float64) []*domain.DailyRevenuePoint {
		revenues := make([]float64, 30)
		value := 1000.0
		for i := range revenues {
			revenues[i] = value
			value *= rate
		}
		return makeSeries(seriesStart, revenues)
	}

	tests := []struct {
		name     string
		setup    func()
		validate func(t *testing.T, result *domain.TrendResult)
	}{
		{
			name: "Crescimento de 2% ao dia aponta tendência de alta",
			setup: func() {
				mockTransactionRepo.EXPECT().
					GetDailyTotals("BIZ001", gomock.Any(), gomock.Any()).
					Return(growthSeries(1.02), nil)
			},
			validate: func(t *testing.T, result *domain.TrendResult) {
				assert.Equal(t, domain.TrendUp, result.Direction)
				assert.Greater(t, result.ChangePercent, 0.0)
				assert.Greater(t, result.LastWeekAvg, result.FirstWeekAvg)
				assert.Equal(t, 30, result.DataPoints)
			},
		},
		{
			name: "Queda de 2% ao dia aponta tendência de baixa",
			setup: func() {
				mockTransactionRepo.EXPECT().
					GetDailyTotals("BIZ001", gomock.Any(), gomock.Any()).
					Return(growthSeries(0.98), nil)
			},
			validate: func(t *testing.T, result *domain.TrendResult) {
				assert.Equal(t, domain.TrendDown, result.Direction)
				assert.Less(t, result.ChangePercent, 0.0)
			},
		},
		{
			name: "Ruído de até 2% em torno da média é tendência estável",
			setup: func() {
				series := buildSeries(seriesStart, []float64{1000, 1010, 990, 1005, 995, 1015, 985}, 29, 1000)
				mockTransactionRepo.EXPECT().
					GetDailyTotals("BIZ001", gomock.Any(), gomock.Any()).
					Return(series, nil)
			},
			validate: func(t *testing.T, result *domain.TrendResult) {
				assert.Equal(t, domain.TrendStable, result.Direction)
				assert.InDelta(t, 0.0, result.ChangePercent, 5.0)
				assert.Greater(t, result.Volatility, 0.0)
				assert.Less(t, result.Volatility, 5.0)
			},
		},
		{
			name: "Menos de 7 pontos resulta em tendência desconhecida",
			setup: func() {
				series := makeSeries(seriesStart, []float64{100, 200, 300, 400})
				mockTransactionRepo.EXPECT().
					GetDailyTotals("BIZ001", gomock.Any(), gomock.Any()).
					Return(series, nil)
			},
			validate: func(t *testing.T, result *domain.TrendResult) {
				assert.Equal(t, domain.TrendUnknown, result.Direction)
				assert.Zero(t, result.ChangePercent)
				assert.Zero(t, result.Volatility)
				assert.Equal(t, 4, result.DataPoints)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			result, err := service.AnalyzeTrend("BIZ001", 30)

			assert.NoError(t, err)
			assert.NotNil(t, result)
			tt.validate(t, result)
		})
	}
}

func TestService_DayOfWeekBaseline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransactionRepo := mocks.NewMockTransactionRepository(ctrl)

	service := &Service{
		cfg:             defaultDetectionConfig(),
		transactionRepo: mockTransactionRepo,
	}

	// Quatro semanas completas: dias úteis a 800, fins de semana a 1500
	seriesStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	revenues := make([]float64, 28)
	for i := range revenues {
		weekday := seriesStart.AddDate(0, 0, i).Weekday()
		if weekday == time.Saturday || weekday == time.Sunday {
			revenues[i] = 1500
		} else {
			revenues[i] = 800
		}
	}
	series := makeSeries(seriesStart, revenues)

	t.Run("Fim de semana tem linha de base acima dos dias úteis", func(t *testing.T) {
		mockTransactionRepo.EXPECT().
			GetDailyTotals("BIZ001", gomock.Any(), gomock.Any()).
			Return(series, nil).
			Times(2)

		monday, err := service.DayOfWeekBaseline("BIZ001", 0)
		assert.NoError(t, err)
		assert.Equal(t, 800.0, monday)

		saturday, err := service.DayOfWeekBaseline("BIZ001", 5)
		assert.NoError(t, err)
		assert.Equal(t, 1500.0, saturday)

		assert.Greater(t, saturday, 1.3*monday)
	})

	t.Run("Sem ocorrência do dia na janela retorna zero", func(t *testing.T) {
		mockTransactionRepo.EXPECT().
			GetDailyTotals("BIZ001", gomock.Any(), gomock.Any()).
			Return([]*domain.DailyRevenuePoint{}, nil)

		baseline, err := service.DayOfWeekBaseline("BIZ001", 3)
		assert.NoError(t, err)
		assert.Zero(t, baseline)
	})
}
