package domain

import "time"

type Transaction struct {
	ID          int64     `json:"id"`
	BusinessID  string    `json:"business_id"`
	Amount      float64   `json:"amount"`
	OccurredAt  time.Time `json:"occurred_at"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateTransactionRequest struct {
	Amount      float64 `json:"amount" validate:"gte=0"`
	OccurredAt  *string `json:"occurred_at,omitempty"`
	Description string  `json:"description,omitempty" validate:"max=255"`
}

// ImportRowError descreve uma linha rejeitada durante a importação de CSV
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportReport struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}
