package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/database/postgres"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
)

const (
	alertsTable   = "alerts al"
	alertsColumns = "al.id, al.business_id, al.alert_type, al.severity, al.title, al.description, al.data, al.status, al.action_taken, al.acknowledged_at, al.resolved_at, al.created_at, al.updated_at"
)

type AlertRepository interface {
	Create(alert *domain.Alert) (*domain.Alert, error)
	GetByID(alertID int64) (*domain.Alert, error)
	FindOpenForDay(businessID string, day time.Time) (*domain.Alert, error)
	List(filters domain.AlertFilters) ([]*domain.Alert, error)
	UpdateStatus(alert *domain.Alert) error
	DeleteResolvedOlderThan(days int) (int64, error)
}

type alertRepository struct {
	conn *postgres.Connection
}

func NewAlertRepository(conn *postgres.Connection) AlertRepository {
	return &alertRepository{
		conn: conn,
	}
}

func (r *alertRepository) Create(alert *domain.Alert) (*domain.Alert, error) {
	var dataJSON []byte
	var err error

	if alert.Data != nil {
		dataJSON, err = json.Marshal(alert.Data)
		if err != nil {
			return nil, fmt.Errorf("erro ao serializar os dados da detecção para JSON: %w", err)
		}
	}

	queryBuilder := squirrel.
		Insert("alerts").
		Columns("business_id", "alert_type", "severity", "title", "description", "data", "status").
		Values(
			alert.BusinessID,
			alert.AlertType,
			alert.Severity,
			alert.Title,
			alert.Description,
			dataJSON,
			alert.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	alertSQL, alertArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = r.conn.QueryRow(alertSQL, alertArgs...).Scan(&alert.ID, &alert.CreatedAt, &alert.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}

	return alert, nil
}

func (r *alertRepository) GetByID(alertID int64) (*domain.Alert, error) {
	query, args, err := squirrel.
		Select(alertsColumns).
		From(alertsTable).
		Where(squirrel.Eq{"al.id": alertID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	alert, err := r.scanAlert(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear alerta: %w", err)
	}

	return alert, nil
}

// FindOpenForDay busca um alerta ainda aberto (pendente ou reconhecido)
// criado no dia informado. Usado para evitar alertas duplicados no mesmo dia.
func (r *alertRepository) FindOpenForDay(businessID string, day time.Time) (*domain.Alert, error) {
	query, args, err := squirrel.
		Select(alertsColumns).
		From(alertsTable).
		Where(squirrel.Eq{
			"al.business_id": businessID,
			"al.status":      []domain.AlertStatus{domain.AlertStatusPending, domain.AlertStatusAcknowledged},
		}).
		Where(squirrel.Expr("al.created_at::date = ?", day.Format(time.DateOnly))).
		OrderBy("al.created_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	alert, err := r.scanAlert(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear alerta: %w", err)
	}

	return alert, nil
}

func (r *alertRepository) List(filters domain.AlertFilters) ([]*domain.Alert, error) {
	queryBuilder := squirrel.
		Select(alertsColumns).
		From(alertsTable).
		OrderBy("al.created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filters.BusinessID != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"al.business_id": filters.BusinessID})
	}

	if len(filters.BusinessIDs) > 0 {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"al.business_id": filters.BusinessIDs})
	}

	if filters.Status != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"al.status": *filters.Status})
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	queryBuilder = queryBuilder.Limit(uint64(limit))

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	alerts := make([]*domain.Alert, 0)
	for rows.Next() {
		alert, err := r.scanAlertRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear alertas: %w", err)
		}
		alerts = append(alerts, alert)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return alerts, nil
}

func (r *alertRepository) UpdateStatus(alert *domain.Alert) error {
	queryBuilder := squirrel.
		Update("alerts").
		Set("status", alert.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": alert.ID}).
		PlaceholderFormat(squirrel.Dollar)

	if alert.ActionTaken != nil {
		queryBuilder = queryBuilder.Set("action_taken", *alert.ActionTaken)
	}

	if alert.AcknowledgedAt != nil {
		queryBuilder = queryBuilder.Set("acknowledged_at", *alert.AcknowledgedAt)
	}

	if alert.ResolvedAt != nil {
		queryBuilder = queryBuilder.Set("resolved_at", *alert.ResolvedAt)
	}

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("alerta %d não encontrado", alert.ID)
	}

	return nil
}

// DeleteResolvedOlderThan remove alertas fechados (resolvidos ou descartados)
// mais antigos que o número de dias informado.
func (r *alertRepository) DeleteResolvedOlderThan(days int) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -days).Format(time.DateOnly)

	query, args, err := squirrel.
		Delete("alerts").
		Where(squirrel.Eq{"status": []domain.AlertStatus{domain.AlertStatusResolved, domain.AlertStatusDismissed}}).
		Where(squirrel.Lt{"created_at": cutoffDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

func (r *alertRepository) scanAlert(row *sql.Row) (*domain.Alert, error) {
	alert := &domain.Alert{}
	var dataJSON []byte

	err := row.Scan(
		&alert.ID,
		&alert.BusinessID,
		&alert.AlertType,
		&alert.Severity,
		&alert.Title,
		&alert.Description,
		&dataJSON,
		&alert.Status,
		&alert.ActionTaken,
		&alert.AcknowledgedAt,
		&alert.ResolvedAt,
		&alert.CreatedAt,
		&alert.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dataJSON != nil {
		data := &domain.AnomalyVerdict{}
		if err := json.Unmarshal(dataJSON, data); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de data: %w", err)
		}
		alert.Data = data
	}

	return alert, nil
}

func (r *alertRepository) scanAlertRows(rows *sql.Rows) (*domain.Alert, error) {
	alert := &domain.Alert{}
	var dataJSON []byte

	err := rows.Scan(
		&alert.ID,
		&alert.BusinessID,
		&alert.AlertType,
		&alert.Severity,
		&alert.Title,
		&alert.Description,
		&dataJSON,
		&alert.Status,
		&alert.ActionTaken,
		&alert.AcknowledgedAt,
		&alert.ResolvedAt,
		&alert.CreatedAt,
		&alert.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dataJSON != nil {
		data := &domain.AnomalyVerdict{}
		if err := json.Unmarshal(dataJSON, data); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de data: %w", err)
		}
		alert.Data = data
	}

	return alert, nil
}
