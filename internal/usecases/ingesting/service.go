package ingesting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/repository"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"github.com/vfg2006/revenue-monitor-api/internal/metrics"
	"github.com/vfg2006/revenue-monitor-api/pkg/apiErrors"
)

// Limite de erros detalhados devolvidos no relatório de importação
const maxReportedErrors = 20

type Service struct {
	transactionRepository repository.TransactionRepository
}

func NewService(transactionRepository repository.TransactionRepository) Ingester {
	return &Service{
		transactionRepository: transactionRepository,
	}
}

func (s *Service) CreateTransaction(businessID string, request *domain.CreateTransactionRequest) (*domain.Transaction, error) {
	occurredAt := time.Now().UTC()

	if request.OccurredAt != nil && *request.OccurredAt != "" {
		parsed, err := parseFlexibleDate(*request.OccurredAt)
		if err != nil {
			return nil, NewIngestError(ErrInvalidDate, apiErrors.ErrInvalidFormat,
				fmt.Sprintf("Data %q inválida, use o formato 2006-01-02 ou RFC3339", *request.OccurredAt))
		}
		occurredAt = parsed
	}

	transaction := &domain.Transaction{
		BusinessID:  businessID,
		Amount:      request.Amount,
		OccurredAt:  occurredAt,
		Description: request.Description,
	}

	created, err := s.transactionRepository.Insert(transaction)
	if err != nil {
		logrus.Error("Error inserting transaction on the repository:", err)
		return nil, NewIngestErrorWithBusiness(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, businessID,
			"Falha ao salvar a transação")
	}

	metrics.TransactionsIngested.WithLabelValues("api").Inc()

	return created, nil
}

func (s *Service) ImportCSV(businessID string, reader io.Reader) (*domain.ImportReport, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, NewIngestErrorWithBusiness(ErrEmptyFile, apiErrors.ErrInvalidFile, businessID,
			"O arquivo CSV está vazio")
	}
	if err != nil {
		return nil, NewIngestErrorWithBusiness(ErrInvalidHeader, apiErrors.ErrInvalidFile, businessID,
			"Falha ao ler o cabeçalho do CSV")
	}

	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	report := &domain.ImportReport{}
	var pending []*domain.Transaction

	// A primeira linha de dados é a 2, contando o cabeçalho
	for row := 2; ; row++ {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped++
			appendRowError(report, row, "linha malformada")
			continue
		}

		transaction, reason := parseRow(businessID, columns, record)
		if reason != "" {
			report.Skipped++
			appendRowError(report, row, reason)
			continue
		}

		pending = append(pending, transaction)
	}

	if len(pending) > 0 {
		inserted, err := s.transactionRepository.InsertBatch(pending)
		if err != nil {
			logrus.Error("Error inserting transaction batch on the repository:", err)
			return nil, NewIngestErrorWithBusiness(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, businessID,
				"Falha ao salvar o lote de transações")
		}

		report.Imported = int(inserted)
		metrics.TransactionsIngested.WithLabelValues("csv").Add(float64(inserted))
	}

	total, err := s.transactionRepository.CountByBusiness(businessID)
	if err != nil {
		logrus.Warnf("Erro ao contar transações do negócio %s: %v", businessID, err)
	}

	logrus.Infof("Importação de CSV para o negócio %s: %d importadas, %d ignoradas, %d no total",
		businessID, report.Imported, report.Skipped, total)

	return report, nil
}

// columnIndex guarda a posição de cada coluna reconhecida no cabeçalho
type columnIndex struct {
	date        int
	amount      int
	description int
}

func mapHeader(header []string) (*columnIndex, error) {
	columns := &columnIndex{date: -1, amount: -1, description: -1}

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			columns.date = i
		case "amount":
			columns.amount = i
		case "description":
			columns.description = i
		}
	}

	if columns.date == -1 || columns.amount == -1 {
		return nil, NewIngestError(ErrInvalidHeader, apiErrors.ErrInvalidFile,
			"O cabeçalho deve conter as colunas date e amount")
	}

	return columns, nil
}

func parseRow(businessID string, columns *columnIndex, record []string) (*domain.Transaction, string) {
	if columns.date >= len(record) || columns.amount >= len(record) {
		return nil, "colunas obrigatórias ausentes"
	}

	occurredAt, err := parseFlexibleDate(strings.TrimSpace(record[columns.date]))
	if err != nil {
		return nil, fmt.Sprintf("data %q inválida", record[columns.date])
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(record[columns.amount]), 64)
	if err != nil {
		return nil, fmt.Sprintf("valor %q inválido", record[columns.amount])
	}

	if amount < 0 {
		return nil, "valor negativo"
	}

	transaction := &domain.Transaction{
		BusinessID: businessID,
		Amount:     amount,
		OccurredAt: occurredAt,
	}

	if columns.description >= 0 && columns.description < len(record) {
		transaction.Description = strings.TrimSpace(record[columns.description])
	}

	return transaction, ""
}

func appendRowError(report *domain.ImportReport, row int, reason string) {
	if len(report.Errors) >= maxReportedErrors {
		return
	}

	report.Errors = append(report.Errors, domain.ImportRowError{Row: row, Reason: reason})
}

// parseFlexibleDate aceita datas no formato 2006-01-02 ou RFC3339.
func parseFlexibleDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.DateOnly, value); err == nil {
		return parsed, nil
	}

	return time.Parse(time.RFC3339, value)
}
