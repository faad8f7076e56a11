package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/repository/mocks"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	alertingmocks "github.com/vfg2006/revenue-monitor-api/internal/usecases/alerting/mocks"
	detectingmocks "github.com/vfg2006/revenue-monitor-api/internal/usecases/detecting/mocks"
	"go.uber.org/mock/gomock"
)

func scanVerdict(severity domain.Severity) *domain.AnomalyVerdict {
	return &domain.AnomalyVerdict{
		Detected:     true,
		TodayRevenue: 450.00,
		RollingAvg7:  1000.00,
		ZScore:       -3.12,
		DropPercent:  55.0,
		Severity:     severity,
		DataPoints:   45,
	}
}

func TestAnomalyScanService_scanBusinesses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Mocks
	mockDetector := detectingmocks.NewMockDetector(ctrl)
	mockAlerter := alertingmocks.NewMockAlerter(ctrl)

	// Service
	service := &AnomalyScanService{
		config:          AnomalyScanConfig{MaxConcurrentJobs: 2},
		detectorService: mockDetector,
		alertService:    mockAlerter,
	}

	// Data de referência da varredura
	day := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	padaria := &domain.Business{ID: "abc123", Name: "Padaria Central", Segment: domain.BusinessSegmentCafe, OwnerID: 10, Active: true}
	mercado := &domain.Business{ID: "def456", Name: "Mercado do Bairro", Segment: domain.BusinessSegmentOther, OwnerID: 11, Active: true}

	tests := []struct {
		name       string
		businesses []*domain.Business
		setup      func()
	}{
		{
			name:       "Negócio saudável não registra alerta",
			businesses: []*domain.Business{padaria},
			setup: func() {
				mockDetector.EXPECT().
					DetectAnomaly("abc123", day, 0, float64(0)).
					Return(&domain.AnomalyVerdict{Detected: false}, nil)
			},
		},
		{
			name:       "Anomalia detectada registra alerta com o mesmo dia da varredura",
			businesses: []*domain.Business{padaria},
			setup: func() {
				mockDetector.EXPECT().
					DetectAnomaly("abc123", day, 0, float64(0)).
					Return(scanVerdict(domain.SeverityHigh), nil)

				mockAlerter.EXPECT().
					CreateFromVerdict(gomock.Any(), gomock.Any(), day).
					DoAndReturn(func(business *domain.Business, verdict *domain.AnomalyVerdict, _ time.Time) (*domain.Alert, error) {
						assert.Equal(t, "abc123", business.ID)
						assert.Equal(t, domain.SeverityHigh, verdict.Severity)
						return &domain.Alert{ID: 7, BusinessID: business.ID}, nil
					})
			},
		},
		{
			name:       "Erro na detecção de um negócio não interrompe os demais",
			businesses: []*domain.Business{padaria, mercado},
			setup: func() {
				mockDetector.EXPECT().
					DetectAnomaly("abc123", day, 0, float64(0)).
					Return(nil, assert.AnError)

				mockDetector.EXPECT().
					DetectAnomaly("def456", day, 0, float64(0)).
					Return(scanVerdict(domain.SeverityMedium), nil)

				mockAlerter.EXPECT().
					CreateFromVerdict(gomock.Any(), gomock.Any(), day).
					DoAndReturn(func(business *domain.Business, _ *domain.AnomalyVerdict, _ time.Time) (*domain.Alert, error) {
						assert.Equal(t, "def456", business.ID)
						return &domain.Alert{ID: 8, BusinessID: business.ID}, nil
					})
			},
		},
		{
			name:       "Falha ao registrar alerta não derruba a varredura",
			businesses: []*domain.Business{padaria},
			setup: func() {
				mockDetector.EXPECT().
					DetectAnomaly("abc123", day, 0, float64(0)).
					Return(scanVerdict(domain.SeverityHigh), nil)

				mockAlerter.EXPECT().
					CreateFromVerdict(gomock.Any(), gomock.Any(), day).
					Return(nil, assert.AnError)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			service.scanBusinesses(tt.businesses, day)
		})
	}
}

func TestAnomalyScanService_scanAllBusinesses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("Falha ao listar negócios encerra a varredura sem detecção", func(t *testing.T) {
		mockBusinessRepo := mocks.NewMockBusinessRepository(ctrl)

		service := &AnomalyScanService{
			config:       AnomalyScanConfig{MaxConcurrentJobs: 2},
			businessRepo: mockBusinessRepo,
		}

		mockBusinessRepo.EXPECT().
			ListActive().
			Return(nil, assert.AnError)

		service.scanAllBusinesses()

		assert.False(t, service.lastScanStartedAt.IsZero())
		assert.True(t, service.lastScanCompletedAt.IsZero())
		assert.False(t, service.scanRunning)
	})

	t.Run("Varredura completa registra o horário de conclusão", func(t *testing.T) {
		mockBusinessRepo := mocks.NewMockBusinessRepository(ctrl)
		mockDetector := detectingmocks.NewMockDetector(ctrl)

		service := &AnomalyScanService{
			config:          AnomalyScanConfig{MaxConcurrentJobs: 2},
			businessRepo:    mockBusinessRepo,
			detectorService: mockDetector,
		}

		mockBusinessRepo.EXPECT().
			ListActive().
			Return([]*domain.Business{
				{ID: "abc123", Name: "Padaria Central", Active: true},
			}, nil)

		mockDetector.EXPECT().
			DetectAnomaly("abc123", gomock.Any(), 0, float64(0)).
			Return(&domain.AnomalyVerdict{Detected: false}, nil)

		service.scanAllBusinesses()

		assert.False(t, service.lastScanStartedAt.IsZero())
		assert.False(t, service.lastScanCompletedAt.IsZero())
		assert.False(t, service.scanRunning)
	})
}
