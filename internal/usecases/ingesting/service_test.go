package ingesting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/repository/mocks"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func strPtr(v string) *string {
	return &v
}

func TestService_CreateTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Mocks
	mockTransactionRepo := mocks.NewMockTransactionRepository(ctrl)

	// Service
	service := &Service{
		transactionRepository: mockTransactionRepo,
	}

	tests := []struct {
		name     string
		request  *domain.CreateTransactionRequest
		setup    func()
		validate func(t *testing.T, transaction *domain.Transaction, err error)
	}{
		{
			name: "Sem data informada usa o momento atual",
			request: &domain.CreateTransactionRequest{
				Amount: 149.90,
			},
			setup: func() {
				mockTransactionRepo.EXPECT().
					Insert(gomock.Any()).
					DoAndReturn(func(transaction *domain.Transaction) (*domain.Transaction, error) {
						transaction.ID = 1001
						return transaction, nil
					}).
					Times(1)
			},
			validate: func(t *testing.T, transaction *domain.Transaction, err error) {
				assert.NoError(t, err)
				assert.Equal(t, int64(1001), transaction.ID)
				assert.Equal(t, 149.90, transaction.Amount)
				assert.WithinDuration(t, time.Now().UTC(), transaction.OccurredAt, time.Minute)
			},
		},
		{
			name: "Data no formato simples é aceita",
			request: &domain.CreateTransactionRequest{
				Amount:     80.00,
				OccurredAt: strPtr("2024-03-15"),
			},
			setup: func() {
				mockTransactionRepo.EXPECT().
					Insert(gomock.Any()).
					DoAndReturn(func(transaction *domain.Transaction) (*domain.Transaction, error) {
						return transaction, nil
					}).
					Times(1)
			},
			validate: func(t *testing.T, transaction *domain.Transaction, err error) {
				assert.NoError(t, err)
				assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), transaction.OccurredAt)
			},
		},
		{
			name: "Data em RFC3339 é aceita",
			request: &domain.CreateTransactionRequest{
				Amount:     80.00,
				OccurredAt: strPtr("2024-03-15T18:30:00Z"),
			},
			setup: func() {
				mockTransactionRepo.EXPECT().
					Insert(gomock.Any()).
					DoAndReturn(func(transaction *domain.Transaction) (*domain.Transaction, error) {
						return transaction, nil
					}).
					Times(1)
			},
			validate: func(t *testing.T, transaction *domain.Transaction, err error) {
				assert.NoError(t, err)
				assert.Equal(t, 15, transaction.OccurredAt.Day())
				assert.Equal(t, 18, transaction.OccurredAt.Hour())
			},
		},
		{
			name: "Data inválida é rejeitada",
			request: &domain.CreateTransactionRequest{
				Amount:     80.00,
				OccurredAt: strPtr("15/03/2024"),
			},
			setup: func() {},
			validate: func(t *testing.T, transaction *domain.Transaction, err error) {
				assert.ErrorIs(t, err, ErrInvalidDate)
				assert.Nil(t, transaction)
			},
		},
		{
			name: "Erro do repositório é propagado",
			request: &domain.CreateTransactionRequest{
				Amount: 80.00,
			},
			setup: func() {
				mockTransactionRepo.EXPECT().
					Insert(gomock.Any()).
					Return(nil, assert.AnError).
					Times(1)
			},
			validate: func(t *testing.T, transaction *domain.Transaction, err error) {
				assert.ErrorIs(t, err, ErrDatabaseOperation)
				assert.Nil(t, transaction)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			transaction, err := service.CreateTransaction("abc123", tt.request)

			tt.validate(t, transaction, err)
		})
	}
}

func TestService_ImportCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Mocks
	mockTransactionRepo := mocks.NewMockTransactionRepository(ctrl)

	// Service
	service := &Service{
		transactionRepository: mockTransactionRepo,
	}

	t.Run("Importa as linhas válidas em um único lote", func(t *testing.T) {
		content := strings.Join([]string{
			"date,amount,description",
			"2024-03-10,1250.50,vendas do dia",
			"2024-03-11,980.00,",
			"2024-03-12T10:00:00Z,410.25,delivery",
		}, "\n")

		var captured []*domain.Transaction
		mockTransactionRepo.EXPECT().
			InsertBatch(gomock.Any()).
			DoAndReturn(func(transactions []*domain.Transaction) (int64, error) {
				captured = transactions
				return int64(len(transactions)), nil
			}).
			Times(1)
		mockTransactionRepo.EXPECT().
			CountByBusiness("abc123").
			Return(int64(3), nil).
			Times(1)

		report, err := service.ImportCSV("abc123", strings.NewReader(content))

		assert.NoError(t, err)
		assert.Equal(t, 3, report.Imported)
		assert.Equal(t, 0, report.Skipped)
		assert.Empty(t, report.Errors)

		assert.Len(t, captured, 3)
		assert.Equal(t, "abc123", captured[0].BusinessID)
		assert.Equal(t, 1250.50, captured[0].Amount)
		assert.Equal(t, "vendas do dia", captured[0].Description)
		assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), captured[0].OccurredAt)
		assert.Equal(t, "", captured[1].Description)
		assert.Equal(t, 10, captured[2].OccurredAt.Hour())
	})

	t.Run("Linhas inválidas são puladas com o número da linha", func(t *testing.T) {
		content := strings.Join([]string{
			"date,amount,description",
			"2024-03-10,1250.50,ok",
			"10/03/2024,100.00,data ruim",
			"2024-03-12,abc,valor ruim",
			"2024-03-13,-5.00,negativo",
			"2024-03-14,777.00,ok",
		}, "\n")

		mockTransactionRepo.EXPECT().
			InsertBatch(gomock.Any()).
			DoAndReturn(func(transactions []*domain.Transaction) (int64, error) {
				return int64(len(transactions)), nil
			}).
			Times(1)
		mockTransactionRepo.EXPECT().
			CountByBusiness("abc123").
			Return(int64(2), nil).
			Times(1)

		report, err := service.ImportCSV("abc123", strings.NewReader(content))

		assert.NoError(t, err)
		assert.Equal(t, 2, report.Imported)
		assert.Equal(t, 3, report.Skipped)
		assert.Len(t, report.Errors, 3)
		assert.Equal(t, 3, report.Errors[0].Row)
		assert.Equal(t, 4, report.Errors[1].Row)
		assert.Equal(t, 5, report.Errors[2].Row)
		assert.Equal(t, "valor negativo", report.Errors[2].Reason)
	})

	t.Run("Cabeçalho aceita maiúsculas e colunas extras", func(t *testing.T) {
		content := strings.Join([]string{
			"Date,Amount,Description,Extra",
			"2024-03-10,55.00,teste,ignorado",
		}, "\n")

		mockTransactionRepo.EXPECT().
			InsertBatch(gomock.Any()).
			DoAndReturn(func(transactions []*domain.Transaction) (int64, error) {
				return int64(len(transactions)), nil
			}).
			Times(1)
		mockTransactionRepo.EXPECT().
			CountByBusiness("abc123").
			Return(int64(1), nil).
			Times(1)

		report, err := service.ImportCSV("abc123", strings.NewReader(content))

		assert.NoError(t, err)
		assert.Equal(t, 1, report.Imported)
	})

	t.Run("Cabeçalho sem coluna obrigatória é rejeitado", func(t *testing.T) {
		content := "date,description\n2024-03-10,sem valor\n"

		report, err := service.ImportCSV("abc123", strings.NewReader(content))

		assert.ErrorIs(t, err, ErrInvalidHeader)
		assert.Nil(t, report)
	})

	t.Run("Arquivo vazio é rejeitado", func(t *testing.T) {
		report, err := service.ImportCSV("abc123", strings.NewReader(""))

		assert.ErrorIs(t, err, ErrEmptyFile)
		assert.Nil(t, report)
	})

	t.Run("Sem linhas válidas o lote não é gravado", func(t *testing.T) {
		content := strings.Join([]string{
			"date,amount",
			"data-ruim,100.00",
			"2024-03-10,valor-ruim",
		}, "\n")

		mockTransactionRepo.EXPECT().
			CountByBusiness("abc123").
			Return(int64(0), nil).
			Times(1)

		report, err := service.ImportCSV("abc123", strings.NewReader(content))

		assert.NoError(t, err)
		assert.Equal(t, 0, report.Imported)
		assert.Equal(t, 2, report.Skipped)
	})

	t.Run("Lista de erros detalhados é limitada", func(t *testing.T) {
		lines := []string{"date,amount"}
		for i := 0; i < 30; i++ {
			lines = append(lines, "data-ruim,100.00")
		}

		mockTransactionRepo.EXPECT().
			CountByBusiness("abc123").
			Return(int64(0), nil).
			Times(1)

		report, err := service.ImportCSV("abc123", strings.NewReader(strings.Join(lines, "\n")))

		assert.NoError(t, err)
		assert.Equal(t, 30, report.Skipped)
		assert.Len(t, report.Errors, maxReportedErrors)
	})

	t.Run("Erro no banco interrompe a importação", func(t *testing.T) {
		content := "date,amount\n2024-03-10,100.00\n"

		mockTransactionRepo.EXPECT().
			InsertBatch(gomock.Any()).
			Return(int64(0), assert.AnError).
			Times(1)

		report, err := service.ImportCSV("abc123", strings.NewReader(content))

		assert.ErrorIs(t, err, ErrDatabaseOperation)
		assert.Nil(t, report)
	})
}

func TestParseFlexibleDate(t *testing.T) {
	t.Run("Formato simples", func(t *testing.T) {
		parsed, err := parseFlexibleDate("2024-03-15")

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), parsed)
	})

	t.Run("RFC3339", func(t *testing.T) {
		parsed, err := parseFlexibleDate("2024-03-15T08:45:00-03:00")

		assert.NoError(t, err)
		assert.Equal(t, 15, parsed.Day())
	})

	t.Run("Formato desconhecido", func(t *testing.T) {
		_, err := parseFlexibleDate("15-03-2024")

		assert.Error(t, err)
	})
}
