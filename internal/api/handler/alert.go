package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/alerting"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/business"
	"github.com/vfg2006/revenue-monitor-api/pkg/apiErrors"
	"github.com/vfg2006/revenue-monitor-api/pkg/middleware"
)

// ListAlerts lista os alertas visíveis para o usuário autenticado.
// Administradores enxergam todos; os demais apenas os dos próprios negócios.
func ListAlerts(service alerting.Alerter, businessService business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		filters := domain.AlertFilters{}

		if raw := r.URL.Query().Get("status"); raw != "" {
			status := domain.AlertStatus(raw)
			switch status {
			case domain.AlertStatusPending, domain.AlertStatusAcknowledged,
				domain.AlertStatusResolved, domain.AlertStatusDismissed:
				filters.Status = &status
			default:
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro 'status' inválido", nil)
				return
			}
		}

		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro 'limit' inválido", nil)
				return
			}
			filters.Limit = parsed
		}

		requestedBusinessID := r.URL.Query().Get("business_id")

		switch {
		case userClaims.UserRoleID == middleware.RoleAdmin:
			filters.BusinessID = requestedBusinessID

		case requestedBusinessID != "":
			// Negócio de outro dono é respondido como inexistente
			if _, err := businessService.Get(userClaims.UserID, userClaims.UserRoleID, requestedBusinessID); err != nil {
				handleBusinessError(w, err)
				return
			}
			filters.BusinessID = requestedBusinessID

		default:
			businesses, err := businessService.List(userClaims.UserID, userClaims.UserRoleID)
			if err != nil {
				logrus.Error("Error listing businesses for alerts:", err)
				handleBusinessError(w, err)
				return
			}

			if len(businesses) == 0 {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode([]*domain.Alert{})
				return
			}

			ids := make([]string, 0, len(businesses))
			for _, b := range businesses {
				ids = append(ids, b.ID)
			}
			filters.BusinessIDs = ids
		}

		alerts, err := service.ListAlerts(filters)
		if err != nil {
			logrus.Error("Error listing alerts:", err)
			handleAlertError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(alerts)
	}
}

// ChangeAlertStatus aplica uma transição de ciclo de vida ao alerta.
// Alertas de negócios de outros donos são respondidos como inexistentes.
func ChangeAlertStatus(service alerting.Alerter, businessService business.Manager, status domain.AlertStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ChangeAlertStatus")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if idStr == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do alerta não fornecido", nil)
			return
		}

		alertID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do alerta inválido", nil)
			return
		}

		alert, err := service.GetAlert(alertID)
		if err != nil {
			handleAlertError(w, err)
			return
		}

		if _, err := businessService.Get(userClaims.UserID, userClaims.UserRoleID, alert.BusinessID); err != nil {
			// Alerta de negócio alheio é respondido como inexistente
			apiErrors.WriteError(w, apiErrors.ErrAlertNotFound, "Alerta não encontrado", nil)
			return
		}

		// Apenas a resolução aceita corpo, com a ação tomada opcional
		var request *domain.ResolveAlertRequest
		if status == domain.AlertStatusResolved {
			var req domain.ResolveAlertRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
				return
			}

			if err := validate.Struct(req); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Dados da resolução inválidos", validationDetails(err))
				return
			}

			request = &req
		}

		updated, err := service.ChangeStatus(alertID, status, request)
		if err != nil {
			logrus.Error("Error changing alert status:", err)
			handleAlertError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

// handleAlertError traduz erros do serviço de alertas para a resposta HTTP
func handleAlertError(w http.ResponseWriter, err error) {
	var alertErr *alerting.AlertError
	if errors.As(err, &alertErr) {
		apiErrors.WriteError(w, alertErr.Code, alertErr.Details, nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao processar o alerta", nil)
}
