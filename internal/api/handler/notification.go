package handler

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/notifying"
	"github.com/vfg2006/revenue-monitor-api/pkg/apiErrors"
	"github.com/vfg2006/revenue-monitor-api/pkg/middleware"
)

type TestNotificationRequest struct {
	Channel string `json:"channel" validate:"required,oneof=email sms telegram"`
}

// GetNotificationPreferences devolve as preferências do usuário autenticado,
// ou o padrão quando nunca foram configuradas
func GetNotificationPreferences(service notifying.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		preferences, err := service.GetPreferences(userClaims.UserID)
		if err != nil {
			logrus.Error("Error fetching notification preferences:", err)
			handleNotificationError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(preferences)
	}
}

// UpdateNotificationPreferences aplica uma atualização parcial nas
// preferências de notificação do usuário autenticado
func UpdateNotificationPreferences(service notifying.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateNotificationPreferences")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		var req domain.UpdateNotificationPreferenceRequest

		// Decodificar o corpo da requisição
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := validate.Struct(req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Dados das preferências inválidos", validationDetails(err))
			return
		}

		updated, err := service.UpdatePreferences(userClaims.UserID, &req)
		if err != nil {
			logrus.Error("Error updating notification preferences:", err)
			handleNotificationError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

// SendTestNotification dispara uma notificação de teste pelo canal
// indicado. O canal de email usa o endereço do próprio usuário.
func SendTestNotification(service notifying.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - SendTestNotification")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		var req TestNotificationRequest

		// Decodificar o corpo da requisição
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := validate.Struct(req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Canal de notificação inválido", validationDetails(err))
			return
		}

		if err := service.SendTest(userClaims.UserID, userClaims.UserEmail, req.Channel); err != nil {
			logrus.Error("Error sending test notification:", err)
			handleNotificationError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Notificação de teste enviada com sucesso",
			"channel": req.Channel,
		})
	}
}

// handleNotificationError traduz erros do serviço de notificações para a
// resposta HTTP
func handleNotificationError(w http.ResponseWriter, err error) {
	var notificationErr *notifying.NotificationError
	if errors.As(err, &notificationErr) {
		apiErrors.WriteError(w, notificationErr.Code, notificationErr.Details, nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao processar a notificação", nil)
}
