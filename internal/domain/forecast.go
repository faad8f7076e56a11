package domain

import "time"

// ForecastMetrics é o conteúdo JSONB calculado pela rotina diária de
// previsão. SeasonalPatterns só é preenchido com pelo menos 90 dias de
// histórico; as chaves são meses no formato 2006-01.
type ForecastMetrics struct {
	AvgDaily30       float64            `json:"avg_daily_30"`
	AvgDaily90       float64            `json:"avg_daily_90"`
	DowBaselines     map[string]float64 `json:"dow_baselines"`
	SeasonalPatterns map[string]float64 `json:"seasonal_patterns,omitempty"`
	DataPoints       int                `json:"data_points"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

type RevenueForecast struct {
	ID         int              `json:"id"`
	BusinessID string           `json:"business_id"`
	Metrics    *ForecastMetrics `json:"metrics"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
