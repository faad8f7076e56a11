package domain

import "time"

// DailyRevenuePoint é um ponto da série diária de receita de um negócio.
// A série é sempre ordenada por data ascendente e dias sem transação não
// aparecem na série (não há preenchimento com zero).
type DailyRevenuePoint struct {
	Date             time.Time `json:"date"`
	Revenue          float64   `json:"revenue"`
	TransactionCount int       `json:"transaction_count"`
}

type RevenueSummary struct {
	Today            float64 `json:"today"`
	ThisWeek         float64 `json:"this_week"`
	ThisMonth        float64 `json:"this_month"`
	TransactionCount int     `json:"transaction_count"`
}

type DailyRevenueResponse struct {
	BusinessID string              `json:"business_id"`
	Days       int                 `json:"days"`
	Series     []DailyRevenuePoint `json:"series"`
}
