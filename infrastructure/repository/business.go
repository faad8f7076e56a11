package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/database/postgres"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
)

const (
	businessesTable = "businesses b"
)

type BusinessRepository interface {
	GetByID(businessID string) (*domain.Business, error)
	List() ([]*domain.Business, error)
	ListActive() ([]*domain.Business, error)
	ListByOwner(ownerID int) ([]*domain.Business, error)
	Create(business *domain.Business) (*domain.Business, error)
	Update(business *domain.UpdateBusinessRequest) error
	SoftDelete(businessID string) error
}

type businessRepository struct {
	conn *postgres.Connection
}

func NewBusinessRepository(conn *postgres.Connection) BusinessRepository {
	return &businessRepository{
		conn: conn,
	}
}

func (r *businessRepository) GetByID(businessID string) (*domain.Business, error) {
	businessSQL, businessArgs, err := squirrel.
		Select("b.id, b.name, b.segment, b.owner_id, b.active, b.created_at, b.updated_at").
		From(businessesTable).
		Where(squirrel.Eq{"b.id": businessID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(businessSQL, businessArgs...)

	business, err := r.deserializeBusiness(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return business, nil
}

func (r *businessRepository) List() ([]*domain.Business, error) {
	return r.list(nil)
}

func (r *businessRepository) ListActive() ([]*domain.Business, error) {
	return r.list(squirrel.Eq{"b.active": true})
}

func (r *businessRepository) ListByOwner(ownerID int) ([]*domain.Business, error) {
	return r.list(squirrel.Eq{"b.owner_id": ownerID})
}

func (r *businessRepository) list(whereClause map[string]interface{}) ([]*domain.Business, error) {
	queryBuilder := squirrel.
		Select("b.id, b.name, b.segment, b.owner_id, b.active, b.created_at, b.updated_at").
		From(businessesTable).
		OrderBy("b.name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if whereClause != nil {
		queryBuilder = queryBuilder.Where(whereClause)
	}

	businessSQL, businessArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(businessSQL, businessArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	businesses := make([]*domain.Business, 0)

	for rows.Next() {
		business := &domain.Business{}
		if err := rows.Scan(
			&business.ID,
			&business.Name,
			&business.Segment,
			&business.OwnerID,
			&business.Active,
			&business.CreatedAt,
			&business.UpdatedAt,
		); err != nil {
			return nil, err
		}

		businesses = append(businesses, business)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return businesses, nil
}

func (r *businessRepository) Create(business *domain.Business) (*domain.Business, error) {
	queryBuilder := squirrel.
		Insert("businesses").
		Columns("id", "name", "segment", "owner_id", "active").
		Values(business.ID, business.Name, business.Segment, business.OwnerID, business.Active).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	businessSQL, businessArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	err = r.conn.QueryRow(businessSQL, businessArgs...).Scan(&business.CreatedAt, &business.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	return business, nil
}

func (r *businessRepository) Update(business *domain.UpdateBusinessRequest) error {
	if business.ID == "" {
		return errors.New("ID is required")
	}

	// Constrói a query de atualização
	queryBuilder := squirrel.
		Update("businesses").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": business.ID}).
		PlaceholderFormat(squirrel.Dollar)

	// Adiciona os campos que foram fornecidos para atualização
	if business.Name != nil {
		queryBuilder = queryBuilder.Set("name", *business.Name)
	}

	if business.Segment != nil {
		queryBuilder = queryBuilder.Set("segment", *business.Segment)
	}

	if business.Active != nil {
		queryBuilder = queryBuilder.Set("active", *business.Active)
	}

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	// Verifica se algum registro foi afetado
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.New("business not found")
	}

	return nil
}

// SoftDelete desativa o negócio em vez de remover a linha. Negócios
// inativos saem das listagens ativas e deixam de ser escaneados.
func (r *businessRepository) SoftDelete(businessID string) error {
	queryBuilder := squirrel.
		Update("businesses").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": businessID}).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.New("business not found")
	}

	return nil
}

func (r *businessRepository) deserializeBusiness(row *sql.Row) (*domain.Business, error) {
	business := &domain.Business{}

	if err := row.Scan(
		&business.ID,
		&business.Name,
		&business.Segment,
		&business.OwnerID,
		&business.Active,
		&business.CreatedAt,
		&business.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return business, nil
}
