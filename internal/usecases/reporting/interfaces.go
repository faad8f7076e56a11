package reporting

import (
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
)

// Reporter expõe as leituras de faturamento usadas pelo painel.
type Reporter interface {
	// RevenueSummary devolve os totais do dia, da semana e do mês
	// corrente do negócio.
	RevenueSummary(businessID string) (*domain.RevenueSummary, error)

	// DailyRevenue devolve a série diária de faturamento dos últimos
	// N dias (padrão 30, máximo 365).
	DailyRevenue(businessID string, days int) (*domain.DailyRevenueResponse, error)

	// GetForecast devolve a última previsão calculada pela rotina
	// diária.
	GetForecast(businessID string) (*domain.RevenueForecast, error)
}
