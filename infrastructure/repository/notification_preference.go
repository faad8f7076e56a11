package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/database/postgres"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
)

const (
	notificationPreferencesTable = "notification_preferences np"
)

type NotificationPreferenceRepository interface {
	GetByUserID(userID int) (*domain.NotificationPreference, error)
	Upsert(preference *domain.NotificationPreference) error
}

type notificationPreferenceRepository struct {
	conn *postgres.Connection
}

func NewNotificationPreferenceRepository(conn *postgres.Connection) NotificationPreferenceRepository {
	return &notificationPreferenceRepository{
		conn: conn,
	}
}

func (r *notificationPreferenceRepository) GetByUserID(userID int) (*domain.NotificationPreference, error) {
	query, args, err := squirrel.
		Select("np.id, np.user_id, np.email_enabled, np.sms_enabled, np.telegram_enabled, np.min_severity, np.quiet_hours_start, np.quiet_hours_end, np.phone_number, np.telegram_chat_id, np.created_at, np.updated_at").
		From(notificationPreferencesTable).
		Where(squirrel.Eq{"np.user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	preference := &domain.NotificationPreference{}
	err = r.conn.QueryRow(query, args...).Scan(
		&preference.ID,
		&preference.UserID,
		&preference.EmailEnabled,
		&preference.SMSEnabled,
		&preference.TelegramEnabled,
		&preference.MinSeverity,
		&preference.QuietHoursStart,
		&preference.QuietHoursEnd,
		&preference.PhoneNumber,
		&preference.TelegramChatID,
		&preference.CreatedAt,
		&preference.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear preferências: %w", err)
	}

	return preference, nil
}

func (r *notificationPreferenceRepository) Upsert(preference *domain.NotificationPreference) error {
	query := squirrel.StatementBuilder.
		Insert("notification_preferences").
		Columns("user_id", "email_enabled", "sms_enabled", "telegram_enabled", "min_severity", "quiet_hours_start", "quiet_hours_end", "phone_number", "telegram_chat_id").
		Values(
			preference.UserID,
			preference.EmailEnabled,
			preference.SMSEnabled,
			preference.TelegramEnabled,
			preference.MinSeverity,
			preference.QuietHoursStart,
			preference.QuietHoursEnd,
			preference.PhoneNumber,
			preference.TelegramChatID,
		).
		Suffix(`
			ON CONFLICT (user_id) DO UPDATE SET
				email_enabled = EXCLUDED.email_enabled,
				sms_enabled = EXCLUDED.sms_enabled,
				telegram_enabled = EXCLUDED.telegram_enabled,
				min_severity = EXCLUDED.min_severity,
				quiet_hours_start = EXCLUDED.quiet_hours_start,
				quiet_hours_end = EXCLUDED.quiet_hours_end,
				phone_number = EXCLUDED.phone_number,
				telegram_chat_id = EXCLUDED.telegram_chat_id,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}
