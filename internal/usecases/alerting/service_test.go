package alerting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/repository/mocks"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	notifyingmocks "github.com/vfg2006/revenue-monitor-api/internal/usecases/notifying/mocks"
	"go.uber.org/mock/gomock"
)

func detectedVerdict(severity domain.Severity) *domain.AnomalyVerdict {
	return &domain.AnomalyVerdict{
		Detected:     true,
		TodayRevenue: 450.00,
		RollingAvg7:  1000.00,
		RollingAvg30: 980.00,
		ZScore:       -3.12,
		DropPercent:  55.0,
		Severity:     severity,
		StdDev:       176.35,
		DataPoints:   45,
	}
}

func TestService_CreateFromVerdict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Mocks
	mockAlertRepo := mocks.NewMockAlertRepository(ctrl)
	mockNotifier := notifyingmocks.NewMockNotifier(ctrl)

	// Service
	service := &Service{
		alertRepository: mockAlertRepo,
		notifierService: mockNotifier,
	}

	business := &domain.Business{
		ID:      "abc123",
		Name:    "Padaria Central",
		Segment: domain.BusinessSegmentCafe,
		OwnerID: 10,
		Active:  true,
	}

	day := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		verdict  *domain.AnomalyVerdict
		setup    func()
		validate func(t *testing.T, alert *domain.Alert, err error)
	}{
		{
			name:    "Veredito nulo não cria alerta",
			verdict: nil,
			setup:   func() {},
			validate: func(t *testing.T, alert *domain.Alert, err error) {
				assert.NoError(t, err)
				assert.Nil(t, alert)
			},
		},
		{
			name:    "Veredito negativo não cria alerta",
			verdict: &domain.AnomalyVerdict{Detected: false},
			setup:   func() {},
			validate: func(t *testing.T, alert *domain.Alert, err error) {
				assert.NoError(t, err)
				assert.Nil(t, alert)
			},
		},
		{
			name:    "Severidade baixa não cria alerta",
			verdict: detectedVerdict(domain.SeverityLow),
			setup:   func() {},
			validate: func(t *testing.T, alert *domain.Alert, err error) {
				assert.NoError(t, err)
				assert.Nil(t, alert)
			},
		},
		{
			name:    "Alerta aberto existente no dia evita duplicata",
			verdict: detectedVerdict(domain.SeverityHigh),
			setup: func() {
				mockAlertRepo.EXPECT().
					FindOpenForDay("abc123", day).
					Return(&domain.Alert{ID: 77, Status: domain.AlertStatusPending}, nil)
			},
			validate: func(t *testing.T, alert *domain.Alert, err error) {
				assert.NoError(t, err)
				assert.Nil(t, alert)
			},
		},
		{
			name:    "Veredito de severidade alta cria alerta pendente e notifica",
			verdict: detectedVerdict(domain.SeverityHigh),
			setup: func() {
				mockAlertRepo.EXPECT().
					FindOpenForDay("abc123", day).
					Return(nil, nil)

				mockAlertRepo.EXPECT().
					Create(gomock.Any()).
					DoAndReturn(func(alert *domain.Alert) (*domain.Alert, error) {
						alert.ID = 101
						return alert, nil
					})

				mockNotifier.EXPECT().
					Dispatch(gomock.Any(), business).
					DoAndReturn(func(alert *domain.Alert, _ *domain.Business) error {
						assert.Equal(t, int64(101), alert.ID)
						return nil
					})
			},
			validate: func(t *testing.T, alert *domain.Alert, err error) {
				assert.NoError(t, err)
				assert.NotNil(t, alert)
				assert.Equal(t, int64(101), alert.ID)
				assert.Equal(t, "abc123", alert.BusinessID)
				assert.Equal(t, domain.AlertTypeRevenueDrop, alert.AlertType)
				assert.Equal(t, domain.SeverityHigh, alert.Severity)
				assert.Equal(t, domain.AlertStatusPending, alert.Status)
				assert.Equal(t, "Revenue Drop Detected: 55.0% below average", alert.Title)
				assert.Contains(t, alert.Description, "7-day average")
				assert.NotNil(t, alert.Data)
				assert.Equal(t, 55.0, alert.Data.DropPercent)
			},
		},
		{
			name:    "Falha no envio da notificação não desfaz o alerta criado",
			verdict: detectedVerdict(domain.SeverityMedium),
			setup: func() {
				mockAlertRepo.EXPECT().
					FindOpenForDay("abc123", day).
					Return(nil, nil)

				mockAlertRepo.EXPECT().
					Create(gomock.Any()).
					DoAndReturn(func(alert *domain.Alert) (*domain.Alert, error) {
						alert.ID = 102
						return alert, nil
					})

				mockNotifier.EXPECT().
					Dispatch(gomock.Any(), business).
					Return(assert.AnError)
			},
			validate: func(t *testing.T, alert *domain.Alert, err error) {
				assert.NoError(t, err)
				assert.NotNil(t, alert)
				assert.Equal(t, int64(102), alert.ID)
			},
		},
		{
			name:    "Falha de banco ao criar alerta é propagada",
			verdict: detectedVerdict(domain.SeverityMedium),
			setup: func() {
				mockAlertRepo.EXPECT().
					FindOpenForDay("abc123", day).
					Return(nil, nil)

				mockAlertRepo.EXPECT().
					Create(gomock.Any()).
					Return(nil, assert.AnError)
			},
			validate: func(t *testing.T, alert *domain.Alert, err error) {
				assert.Nil(t, alert)
				assert.ErrorIs(t, err, ErrCreateAlert)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			alert, err := service.CreateFromVerdict(business, tt.verdict, day)

			tt.validate(t, alert, err)
		})
	}
}

func TestService_ChangeStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAlertRepo := mocks.NewMockAlertRepository(ctrl)

	service := &Service{
		alertRepository: mockAlertRepo,
	}

	actionTaken := "Loja fechada para manutenção, queda esperada"

	tests := []struct {
		name     string
		status   domain.AlertStatus
		request  *domain.ResolveAlertRequest
		setup    func()
		validate func(t *testing.T, alert *domain.Alert, err error)
	}{
		{
			name:   "Alerta inexistente retorna erro de não encontrado",
			status: domain.AlertStatusAcknowledged,
			setup: func() {
				mockAlertRepo.EXPECT().
					GetByID(int64(42)).
					Return(nil, nil)
			},
			validate: func(t *testing.T, alert *domain.Alert, err error) {
				assert.Nil(t, alert)
				assert.ErrorIs(t, err, ErrAlertNotFound)
			},
		},
		{
			name:   "Transição de resolvido para reconhecido é rejeitada",
			status: domain.AlertStatusAcknowledged,
			setup: func() {
				mockAlertRepo.EXPECT().
					GetByID(int64(42)).
					Return(&domain.Alert{ID: 42, Status: domain.AlertStatusResolved}, nil)
			},
			validate: func(t *testing.T, alert *domain.Alert, err error) {
				assert.Nil(t, alert)
				assert.ErrorIs(t, err, ErrInvalidTransition)
			},
		},
		{
			name:   "Reconhecimento registra o horário da ação",
			status: domain.AlertStatusAcknowledged,
			setup: func() {
				mockAlertRepo.EXPECT().
					GetByID(int64(42)).
					Return(&domain.Alert{ID: 42, Status: domain.AlertStatusPending}, nil)

				mockAlertRepo.EXPECT().
					UpdateStatus(gomock.Any()).
					DoAndReturn(func(alert *domain.Alert) error {
						assert.Equal(t, domain.AlertStatusAcknowledged, alert.Status)
						assert.NotNil(t, alert.AcknowledgedAt)
						return nil
					})
			},
			validate: func(t *testing.T, alert *domain.Alert, err error) {
				assert.NoError(t, err)
				assert.Equal(t, domain.AlertStatusAcknowledged, alert.Status)
			},
		},
		{
			name:    "Resolução registra horário e ação tomada",
			status:  domain.AlertStatusResolved,
			request: &domain.ResolveAlertRequest{ActionTaken: &actionTaken},
			setup: func() {
				mockAlertRepo.EXPECT().
					GetByID(int64(42)).
					Return(&domain.Alert{ID: 42, Status: domain.AlertStatusAcknowledged}, nil)

				mockAlertRepo.EXPECT().
					UpdateStatus(gomock.Any()).
					DoAndReturn(func(alert *domain.Alert) error {
						assert.NotNil(t, alert.ResolvedAt)
						assert.Equal(t, &actionTaken, alert.ActionTaken)
						return nil
					})
			},
			validate: func(t *testing.T, alert *domain.Alert, err error) {
				assert.NoError(t, err)
				assert.Equal(t, domain.AlertStatusResolved, alert.Status)
			},
		},
		{
			name:   "Descarte a partir de pendente fecha o alerta",
			status: domain.AlertStatusDismissed,
			setup: func() {
				mockAlertRepo.EXPECT().
					GetByID(int64(42)).
					Return(&domain.Alert{ID: 42, Status: domain.AlertStatusPending}, nil)

				mockAlertRepo.EXPECT().
					UpdateStatus(gomock.Any()).
					DoAndReturn(func(alert *domain.Alert) error {
						assert.NotNil(t, alert.ResolvedAt)
						return nil
					})
			},
			validate: func(t *testing.T, alert *domain.Alert, err error) {
				assert.NoError(t, err)
				assert.Equal(t, domain.AlertStatusDismissed, alert.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			alert, err := service.ChangeStatus(42, tt.status, tt.request)

			tt.validate(t, alert, err)
		})
	}
}

func TestService_PurgeClosedAlerts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAlertRepo := mocks.NewMockAlertRepository(ctrl)

	service := &Service{
		alertRepository: mockAlertRepo,
	}

	t.Run("Retorna a quantidade de alertas removidos", func(t *testing.T) {
		mockAlertRepo.EXPECT().
			DeleteResolvedOlderThan(90).
			Return(int64(12), nil)

		removed, err := service.PurgeClosedAlerts(90)

		assert.NoError(t, err)
		assert.Equal(t, int64(12), removed)
	})

	t.Run("Falha de banco é propagada", func(t *testing.T) {
		mockAlertRepo.EXPECT().
			DeleteResolvedOlderThan(90).
			Return(int64(0), assert.AnError)

		_, err := service.PurgeClosedAlerts(90)

		assert.ErrorIs(t, err, ErrDatabaseOperation)
	})
}
