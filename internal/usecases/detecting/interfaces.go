package detecting

import (
	"time"

	"github.com/vfg2006/revenue-monitor-api/internal/domain"
)

// Detector é o contrato do motor de detecção consumido pelo agendador e pela API
type Detector interface {
	// DetectAnomaly avalia se o faturamento do dia está anormalmente abaixo do
	// padrão recente. lookbackDays e thresholdStd zerados assumem os valores
	// da configuração
	DetectAnomaly(businessID string, date time.Time, lookbackDays int, thresholdStd float64) (*domain.AnomalyVerdict, error)

	// AnalyzeTrend resume a direção e a volatilidade do faturamento dos últimos dias
	AnalyzeTrend(businessID string, days int) (*domain.TrendResult, error)

	// DayOfWeekBaseline calcula a média histórica para um dia da semana (segunda=0 ... domingo=6)
	DayOfWeekBaseline(businessID string, weekday int) (float64, error)
}
