package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/business"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/detecting"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/reporting"
	"github.com/vfg2006/revenue-monitor-api/pkg/apiErrors"
	"github.com/vfg2006/revenue-monitor-api/pkg/middleware"
	"github.com/vfg2006/revenue-monitor-api/pkg/utils"
)

// GetDailyRevenue devolve a série diária de faturamento dos últimos N dias
func GetDailyRevenue(service reporting.Reporter, businessService business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		businessID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if businessID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do negócio não fornecido", nil)
			return
		}

		// Negócio de outro dono é respondido como inexistente
		if _, err := businessService.Get(userClaims.UserID, userClaims.UserRoleID, businessID); err != nil {
			handleBusinessError(w, err)
			return
		}

		// Sem o parâmetro o serviço assume a janela padrão
		days := 0
		if raw := r.URL.Query().Get("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro 'days' inválido", nil)
				return
			}
			days = parsed
		}

		series, err := service.DailyRevenue(businessID, days)
		if err != nil {
			logrus.Error("Error fetching daily revenue:", err)
			handleReportError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(series)
	}
}

// GetRevenueSummary devolve os totais do dia, da semana e do mês corrente
func GetRevenueSummary(service reporting.Reporter, businessService business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		businessID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if businessID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do negócio não fornecido", nil)
			return
		}

		// Negócio de outro dono é respondido como inexistente
		if _, err := businessService.Get(userClaims.UserID, userClaims.UserRoleID, businessID); err != nil {
			handleBusinessError(w, err)
			return
		}

		summary, err := service.RevenueSummary(businessID)
		if err != nil {
			logrus.Error("Error fetching revenue summary:", err)
			handleReportError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	}
}

// GetForecast devolve a última previsão calculada pela rotina diária
func GetForecast(service reporting.Reporter, businessService business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		businessID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if businessID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do negócio não fornecido", nil)
			return
		}

		// Negócio de outro dono é respondido como inexistente
		if _, err := businessService.Get(userClaims.UserID, userClaims.UserRoleID, businessID); err != nil {
			handleBusinessError(w, err)
			return
		}

		forecast, err := service.GetForecast(businessID)
		if err != nil {
			handleReportError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(forecast)
	}
}

// CheckAnomaly executa a detecção sob demanda sem registrar alertas. O
// parâmetro 'date' escolhe o dia analisado (padrão: dia corrente) e
// 'lookback' e 'threshold' ajustam a janela e a sensibilidade.
func CheckAnomaly(service detecting.Detector, businessService business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		businessID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if businessID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do negócio não fornecido", nil)
			return
		}

		// Negócio de outro dono é respondido como inexistente
		if _, err := businessService.Get(userClaims.UserID, userClaims.UserRoleID, businessID); err != nil {
			handleBusinessError(w, err)
			return
		}

		// Sem o parâmetro a análise cobre o dia corrente
		referenceDate, err := utils.ParseDate(r.URL.Query().Get("date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro 'date' inválido, use o formato 2006-01-02", nil)
			return
		}

		// Parâmetros zerados assumem os valores da configuração
		lookbackDays := 0
		if raw := r.URL.Query().Get("lookback"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro 'lookback' inválido", nil)
				return
			}
			lookbackDays = parsed
		}

		thresholdStd := 0.0
		if raw := r.URL.Query().Get("threshold"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed <= 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro 'threshold' inválido", nil)
				return
			}
			thresholdStd = parsed
		}

		verdict, err := service.DetectAnomaly(businessID, *referenceDate, lookbackDays, thresholdStd)
		if err != nil {
			logrus.Error("Error checking anomaly:", err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao analisar o faturamento", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(verdict)
	}
}

// GetTrend devolve a análise de tendência via regressão linear sobre a
// janela informada
func GetTrend(service detecting.Detector, businessService business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		businessID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if businessID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do negócio não fornecido", nil)
			return
		}

		// Negócio de outro dono é respondido como inexistente
		if _, err := businessService.Get(userClaims.UserID, userClaims.UserRoleID, businessID); err != nil {
			handleBusinessError(w, err)
			return
		}

		// Sem o parâmetro o serviço assume a janela padrão
		days := 0
		if raw := r.URL.Query().Get("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro 'days' inválido", nil)
				return
			}
			days = parsed
		}

		trend, err := service.AnalyzeTrend(businessID, days)
		if err != nil {
			logrus.Error("Error analyzing trend:", err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao analisar a tendência", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(trend)
	}
}

// handleReportError traduz erros do serviço de relatórios para a resposta HTTP
func handleReportError(w http.ResponseWriter, err error) {
	var reportErr *reporting.ReportError
	if errors.As(err, &reportErr) {
		apiErrors.WriteError(w, reportErr.Code, reportErr.Details, nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao consultar o faturamento", nil)
}
