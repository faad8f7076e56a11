package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/database/postgres"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
)

const (
	forecastsTable = "revenue_forecasts rf"
)

type ForecastRepository interface {
	GetByBusinessID(businessID string) (*domain.RevenueForecast, error)
	SaveOrUpdate(forecast *domain.RevenueForecast) error
}

type forecastRepository struct {
	conn *postgres.Connection
}

func NewForecastRepository(conn *postgres.Connection) ForecastRepository {
	return &forecastRepository{
		conn: conn,
	}
}

func (r *forecastRepository) GetByBusinessID(businessID string) (*domain.RevenueForecast, error) {
	query, args, err := squirrel.
		Select("rf.id, rf.business_id, rf.metrics, rf.created_at, rf.updated_at").
		From(forecastsTable).
		Where(squirrel.Eq{"rf.business_id": businessID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	forecast := &domain.RevenueForecast{}
	var metricsJSON []byte

	err = r.conn.QueryRow(query, args...).Scan(
		&forecast.ID,
		&forecast.BusinessID,
		&metricsJSON,
		&forecast.CreatedAt,
		&forecast.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear previsão: %w", err)
	}

	if metricsJSON != nil {
		metrics := &domain.ForecastMetrics{}
		if err := json.Unmarshal(metricsJSON, metrics); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de metrics: %w", err)
		}
		forecast.Metrics = metrics
	}

	return forecast, nil
}

func (r *forecastRepository) SaveOrUpdate(forecast *domain.RevenueForecast) error {
	var metricsJSON []byte
	var err error

	if forecast.Metrics != nil {
		metricsJSON, err = json.Marshal(forecast.Metrics)
		if err != nil {
			return fmt.Errorf("erro ao serializar metrics para JSON: %w", err)
		}
	}

	query := squirrel.StatementBuilder.
		Insert("revenue_forecasts").
		Columns("business_id", "metrics").
		Values(
			forecast.BusinessID,
			metricsJSON,
		).
		Suffix(`
			ON CONFLICT (business_id) DO UPDATE SET
				metrics = EXCLUDED.metrics,
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
