package notifying

import (
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
)

// Notifier avalia as preferências do dono do negócio e dispara os
// canais habilitados quando um alerta é criado.
type Notifier interface {
	// Dispatch envia o alerta ao dono do negócio pelos canais
	// habilitados. Falha em um canal é registrada e não interrompe
	// os demais.
	Dispatch(alert *domain.Alert, business *domain.Business) error

	// GetPreferences devolve as preferências salvas do usuário ou o
	// padrão quando nunca foram configuradas.
	GetPreferences(userID int) (*domain.NotificationPreference, error)

	// UpdatePreferences aplica uma atualização parcial sobre as
	// preferências atuais e persiste o resultado.
	UpdatePreferences(userID int, request *domain.UpdateNotificationPreferenceRequest) (*domain.NotificationPreference, error)

	// SendTest dispara uma notificação de teste pelo canal indicado
	// usando um alerta fictício.
	SendTest(userID int, email, channel string) error
}
