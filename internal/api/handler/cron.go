package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"github.com/vfg2006/revenue-monitor-api/internal/scheduler"
	"github.com/vfg2006/revenue-monitor-api/pkg/apiErrors"
	"github.com/vfg2006/revenue-monitor-api/pkg/middleware"
)

// CronJobType define o tipo de rotina agendada que será executada
const (
	CronJobTypeAnomalyScan = "anomaly-scan"
	CronJobTypeForecast    = "forecast"
	CronJobTypeAll         = "all"
)

// CronJobServices contém as rotinas agendadas que podem ser disparadas manualmente
type CronJobServices struct {
	AnomalyScanService     *scheduler.AnomalyScanService
	ForecastRefreshService *scheduler.ForecastRefreshService
}

// RunCronJob executa manualmente uma rotina agendada específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		// Verificar permissões - apenas administradores podem executar cron jobs
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != 1 {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas administradores podem executar cron jobs", nil)
			return
		}

		// Obter o tipo de cron job da URL
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		// Validar o tipo de cron job
		switch cronType {
		case CronJobTypeAnomalyScan:
			// Executar varredura de anomalias
			if services.AnomalyScanService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de varredura de anomalias não disponível", nil)
				return
			}
			services.AnomalyScanService.TriggerManualScan()

		case CronJobTypeForecast:
			// Executar atualização de previsões
			if services.ForecastRefreshService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de atualização de previsões não disponível", nil)
				return
			}
			services.ForecastRefreshService.TriggerManualRefresh()

		case CronJobTypeAll:
			// Executar ambas as rotinas
			if services.AnomalyScanService != nil {
				services.AnomalyScanService.TriggerManualScan()
			}
			if services.ForecastRefreshService != nil {
				services.ForecastRefreshService.TriggerManualRefresh()
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: anomaly-scan, forecast, all", nil)
			return
		}

		// Responder com sucesso
		response := map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus retorna o status das rotinas agendadas
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		// Verificar permissões - apenas administradores podem ver status das crons
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != 1 {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas administradores podem verificar status de cron jobs", nil)
			return
		}

		status := map[string]any{
			"anomaly-scan": services.AnomalyScanService.GetStatus(),
			"forecast":     services.ForecastRefreshService.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
