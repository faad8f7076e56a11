package domain

import "time"

// NotificationPreference guarda as escolhas de canal e filtro de um usuário.
// QuietHoursStart/End são horas do dia (0-23); quando ambos definidos, os
// envios são suprimidos dentro da janela, que pode atravessar a meia-noite.
type NotificationPreference struct {
	ID              int       `json:"id"`
	UserID          int       `json:"user_id"`
	EmailEnabled    bool      `json:"email_enabled"`
	SMSEnabled      bool      `json:"sms_enabled"`
	TelegramEnabled bool      `json:"telegram_enabled"`
	MinSeverity     Severity  `json:"min_severity"`
	QuietHoursStart *int      `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   *int      `json:"quiet_hours_end,omitempty"`
	PhoneNumber     *string   `json:"phone_number,omitempty"`
	TelegramChatID  *int64    `json:"telegram_chat_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultNotificationPreference é aplicada quando o usuário nunca salvou
// preferências: apenas e-mail, a partir de severidade média.
func DefaultNotificationPreference(userID int) *NotificationPreference {
	return &NotificationPreference{
		UserID:       userID,
		EmailEnabled: true,
		MinSeverity:  SeverityMedium,
	}
}

type UpdateNotificationPreferenceRequest struct {
	EmailEnabled    *bool   `json:"email_enabled,omitempty"`
	SMSEnabled      *bool   `json:"sms_enabled,omitempty"`
	TelegramEnabled *bool   `json:"telegram_enabled,omitempty"`
	MinSeverity     *string `json:"min_severity,omitempty" validate:"omitempty,oneof=low medium high"`
	QuietHoursStart *int    `json:"quiet_hours_start,omitempty" validate:"omitempty,gte=0,lte=23"`
	QuietHoursEnd   *int    `json:"quiet_hours_end,omitempty" validate:"omitempty,gte=0,lte=23"`
	PhoneNumber     *string `json:"phone_number,omitempty" validate:"omitempty,e164"`
	TelegramChatID  *int64  `json:"telegram_chat_id,omitempty"`
}
