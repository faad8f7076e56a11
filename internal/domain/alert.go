package domain

import "time"

type AlertStatus string

const (
	AlertStatusPending      AlertStatus = "pending"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
	AlertStatusDismissed    AlertStatus = "dismissed"
)

const AlertTypeRevenueDrop = "revenue_drop"

type Alert struct {
	ID             int64           `json:"id"`
	BusinessID     string          `json:"business_id"`
	AlertType      string          `json:"alert_type"`
	Severity       Severity        `json:"severity"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Data           *AnomalyVerdict `json:"data,omitempty"`
	Status         AlertStatus     `json:"status"`
	ActionTaken    *string         `json:"action_taken,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	AcknowledgedAt *time.Time      `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Open informa se o alerta ainda conta para a deduplicação diária
func (a *Alert) Open() bool {
	return a.Status == AlertStatusPending || a.Status == AlertStatusAcknowledged
}

// CanTransitionTo valida as transições de status permitidas:
// pending -> acknowledged | resolved | dismissed
// acknowledged -> resolved | dismissed
func (a *Alert) CanTransitionTo(next AlertStatus) bool {
	switch a.Status {
	case AlertStatusPending:
		return next == AlertStatusAcknowledged || next == AlertStatusResolved || next == AlertStatusDismissed
	case AlertStatusAcknowledged:
		return next == AlertStatusResolved || next == AlertStatusDismissed
	}
	return false
}

type AlertFilters struct {
	BusinessID  string
	BusinessIDs []string
	Status      *AlertStatus
	Limit       int
}

type ResolveAlertRequest struct {
	ActionTaken *string `json:"action_taken,omitempty" validate:"omitempty,max=500"`
}
