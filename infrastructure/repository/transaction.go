package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/database/postgres"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
)

const (
	transactionsTable = "transactions t"
)

type TransactionRepository interface {
	Insert(transaction *domain.Transaction) (*domain.Transaction, error)
	InsertBatch(transactions []*domain.Transaction) (int64, error)
	GetDailyTotals(businessID string, startDate, endDate time.Time) ([]*domain.DailyRevenuePoint, error)
	RevenueSummary(businessID string, reference time.Time) (*domain.RevenueSummary, error)
	CountByBusiness(businessID string) (int64, error)
}

type transactionRepository struct {
	conn *postgres.Connection
}

func NewTransactionRepository(conn *postgres.Connection) TransactionRepository {
	return &transactionRepository{
		conn: conn,
	}
}

func (r *transactionRepository) Insert(transaction *domain.Transaction) (*domain.Transaction, error) {
	queryBuilder := squirrel.
		Insert("transactions").
		Columns("business_id", "amount", "occurred_at", "description").
		Values(transaction.BusinessID, transaction.Amount, transaction.OccurredAt, transaction.Description).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar)

	transactionSQL, transactionArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	err = r.conn.QueryRow(transactionSQL, transactionArgs...).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	return transaction, nil
}

func (r *transactionRepository) InsertBatch(transactions []*domain.Transaction) (int64, error) {
	if len(transactions) == 0 {
		return 0, nil
	}

	// Cria a query de inserção em lote
	query := squirrel.StatementBuilder.
		Insert("transactions").
		Columns("business_id", "amount", "occurred_at", "description").
		PlaceholderFormat(squirrel.Dollar)

	// Adiciona os valores de cada transação ao batch
	for _, transaction := range transactions {
		query = query.Values(
			transaction.BusinessID,
			transaction.Amount,
			transaction.OccurredAt,
			transaction.Description,
		)
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error getting rows affected: %w", err)
	}

	return rowsAffected, nil
}

// GetDailyTotals retorna o faturamento agregado por dia dentro do intervalo,
// em ordem crescente de data. Dias sem transações não aparecem no resultado.
func (r *transactionRepository) GetDailyTotals(businessID string, startDate, endDate time.Time) ([]*domain.DailyRevenuePoint, error) {
	query, args, err := squirrel.
		Select("DATE(t.occurred_at) AS day", "COALESCE(SUM(t.amount), 0) AS revenue", "COUNT(*) AS transactions").
		From(transactionsTable).
		Where(squirrel.Eq{"t.business_id": businessID}).
		Where(squirrel.GtOrEq{"DATE(t.occurred_at)": startDate.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"DATE(t.occurred_at)": endDate.Format(time.DateOnly)}).
		GroupBy("DATE(t.occurred_at)").
		OrderBy("day ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
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

	points := make([]*domain.DailyRevenuePoint, 0)
	for rows.Next() {
		point := &domain.DailyRevenuePoint{}
		if err := rows.Scan(&point.Date, &point.Revenue, &point.TransactionCount); err != nil {
			return nil, fmt.Errorf("erro ao escanear faturamento diário: %w", err)
		}
		points = append(points, point)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return points, nil
}

// RevenueSummary calcula os totais do dia, da semana (a partir de segunda-feira)
// e do mês corrente em relação à data de referência.
func (r *transactionRepository) RevenueSummary(businessID string, reference time.Time) (*domain.RevenueSummary, error) {
	today := reference.Format(time.DateOnly)
	weekStart := startOfWeek(reference).Format(time.DateOnly)
	monthStart := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, reference.Location()).Format(time.DateOnly)

	summary := &domain.RevenueSummary{}

	todayTotal, todayCount, err := r.sumRange(businessID, today, today)
	if err != nil {
		return nil, fmt.Errorf("erro ao calcular o total do dia: %w", err)
	}
	summary.Today = todayTotal
	summary.TransactionCount = todayCount

	weekTotal, _, err := r.sumRange(businessID, weekStart, today)
	if err != nil {
		return nil, fmt.Errorf("erro ao calcular o total da semana: %w", err)
	}
	summary.ThisWeek = weekTotal

	monthTotal, _, err := r.sumRange(businessID, monthStart, today)
	if err != nil {
		return nil, fmt.Errorf("erro ao calcular o total do mês: %w", err)
	}
	summary.ThisMonth = monthTotal

	return summary, nil
}

func (r *transactionRepository) sumRange(businessID, from, to string) (float64, int, error) {
	query, args, err := squirrel.
		Select("COALESCE(SUM(t.amount), 0)", "COUNT(*)").
		From(transactionsTable).
		Where(squirrel.Eq{"t.business_id": businessID}).
		Where(squirrel.Expr("DATE(t.occurred_at) BETWEEN ? AND ?", from, to)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var total float64
	var count int
	if err := r.conn.QueryRow(query, args...).Scan(&total, &count); err != nil {
		return 0, 0, err
	}

	return total, count, nil
}

// CountByBusiness retorna o total de transações registradas para o negócio
func (r *transactionRepository) CountByBusiness(businessID string) (int64, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From(transactionsTable).
		Where(squirrel.Eq{"t.business_id": businessID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int64
	if err := r.conn.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	return count, nil
}

// startOfWeek retorna a segunda-feira da semana da data informada
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
