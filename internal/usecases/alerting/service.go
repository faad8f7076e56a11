package alerting

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/repository"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"github.com/vfg2006/revenue-monitor-api/internal/metrics"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/notifying"
	"github.com/vfg2006/revenue-monitor-api/pkg/apiErrors"
)

type Alerter interface {
	// CreateFromVerdict persiste um alerta a partir de um veredito positivo,
	// com deduplicação de no máximo um alerta aberto por negócio por dia
	CreateFromVerdict(business *domain.Business, verdict *domain.AnomalyVerdict, day time.Time) (*domain.Alert, error)

	// GetAlert busca um alerta pelo identificador
	GetAlert(alertID int64) (*domain.Alert, error)

	// ListAlerts lista alertas aplicando os filtros informados
	ListAlerts(filters domain.AlertFilters) ([]*domain.Alert, error)

	// ChangeStatus aplica uma transição de ciclo de vida ao alerta
	ChangeStatus(alertID int64, status domain.AlertStatus, request *domain.ResolveAlertRequest) (*domain.Alert, error)

	// PurgeClosedAlerts remove alertas fechados mais antigos que a retenção
	PurgeClosedAlerts(days int) (int64, error)
}

type Service struct {
	alertRepository repository.AlertRepository
	notifierService notifying.Notifier
}

func NewService(alertRepository repository.AlertRepository, notifierService notifying.Notifier) Alerter {
	return &Service{
		alertRepository: alertRepository,
		notifierService: notifierService,
	}
}

func (s *Service) CreateFromVerdict(business *domain.Business, verdict *domain.AnomalyVerdict, day time.Time) (*domain.Alert, error) {
	if verdict == nil || !verdict.Detected {
		return nil, nil
	}

	// Somente severidade média ou alta vira alerta
	if verdict.Severity.Rank() < domain.SeverityMedium.Rank() {
		logrus.Debugf("Anomalia de severidade baixa ignorada para o negócio %s", business.ID)
		return nil, nil
	}

	if day.IsZero() {
		day = time.Now().UTC()
	}

	existing, err := s.alertRepository.FindOpenForDay(business.ID, day)
	if err != nil {
		logrus.Error("Error checking open alerts for the day:", err)
		return nil, NewAlertError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao verificar alertas abertos do dia")
	}

	if existing != nil {
		logrus.Infof("Alerta aberto já existe para o negócio %s no dia %s, criação ignorada",
			business.ID, day.Format(time.DateOnly))
		return nil, nil
	}

	alert := &domain.Alert{
		BusinessID: business.ID,
		AlertType:  domain.AlertTypeRevenueDrop,
		Severity:   verdict.Severity,
		Title:      fmt.Sprintf("Revenue Drop Detected: %.1f%% below average", verdict.DropPercent),
		Description: fmt.Sprintf("Today's revenue (%.2f) is %.1f%% below the 7-day average (%.2f). Z-score: %.2f",
			verdict.TodayRevenue, verdict.DropPercent, verdict.RollingAvg7, verdict.ZScore),
		Data:   verdict,
		Status: domain.AlertStatusPending,
	}

	created, err := s.alertRepository.Create(alert)
	if err != nil {
		logrus.Error("Error creating alert on the repository:", err)
		return nil, NewAlertError(ErrCreateAlert, apiErrors.ErrDatabaseOperation, "Falha ao criar alerta")
	}

	metrics.AlertsCreated.Inc()

	logrus.Infof("Alerta %d criado para o negócio %s com severidade %s", created.ID, business.ID, created.Severity)

	// Falha de notificação não desfaz o alerta já persistido
	if s.notifierService != nil {
		if err := s.notifierService.Dispatch(created, business); err != nil {
			logrus.Error("Error dispatching notifications for alert:", err)
		}
	}

	return created, nil
}

func (s *Service) GetAlert(alertID int64) (*domain.Alert, error) {
	alert, err := s.alertRepository.GetByID(alertID)
	if err != nil {
		logrus.Error("Error getting alert by id on the repository:", err)
		return nil, NewAlertError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao buscar alerta no banco de dados")
	}

	if alert == nil {
		return nil, NewAlertErrorWithID(ErrAlertNotFound, apiErrors.ErrAlertNotFound, alertID, "Alerta não encontrado")
	}

	return alert, nil
}

func (s *Service) ListAlerts(filters domain.AlertFilters) ([]*domain.Alert, error) {
	alerts, err := s.alertRepository.List(filters)
	if err != nil {
		logrus.Error("Error listing alerts on the repository:", err)
		return nil, NewAlertError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar alertas")
	}

	return alerts, nil
}

func (s *Service) ChangeStatus(alertID int64, status domain.AlertStatus, request *domain.ResolveAlertRequest) (*domain.Alert, error) {
	alert, err := s.GetAlert(alertID)
	if err != nil {
		return nil, err
	}

	if !alert.CanTransitionTo(status) {
		return nil, NewAlertErrorWithID(ErrInvalidTransition, apiErrors.ErrInvalidTransition, alertID,
			fmt.Sprintf("Transição de %s para %s não é permitida", alert.Status, status))
	}

	now := time.Now().UTC()
	alert.Status = status

	switch status {
	case domain.AlertStatusAcknowledged:
		alert.AcknowledgedAt = &now
	case domain.AlertStatusResolved:
		alert.ResolvedAt = &now
		if request != nil && request.ActionTaken != nil {
			alert.ActionTaken = request.ActionTaken
		}
	case domain.AlertStatusDismissed:
		// Descartar também fecha o alerta, então marca o mesmo horário
		alert.ResolvedAt = &now
	}

	if err := s.alertRepository.UpdateStatus(alert); err != nil {
		logrus.Error("Error updating alert status on the repository:", err)
		return nil, NewAlertErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, alertID, "Falha ao atualizar status do alerta")
	}

	logrus.Infof("Alerta %d mudou para o status %s", alertID, status)

	return alert, nil
}

func (s *Service) PurgeClosedAlerts(days int) (int64, error) {
	removed, err := s.alertRepository.DeleteResolvedOlderThan(days)
	if err != nil {
		logrus.Error("Error purging closed alerts:", err)
		return 0, NewAlertError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao remover alertas antigos")
	}

	if removed > 0 {
		logrus.Infof("%d alertas fechados com mais de %d dias foram removidos", removed, days)
	}

	return removed, nil
}
