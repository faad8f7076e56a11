package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/business"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/ingesting"
	"github.com/vfg2006/revenue-monitor-api/pkg/apiErrors"
	"github.com/vfg2006/revenue-monitor-api/pkg/middleware"
)

// maxUploadSize limita o tamanho do CSV de importação (5 MB)
const maxUploadSize = 5 << 20

// CreateTransaction registra uma transação avulsa do negócio
func CreateTransaction(service ingesting.Ingester, businessService business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateTransaction")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		businessID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if businessID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do negócio não fornecido", nil)
			return
		}

		// Negócio de outro dono é respondido como inexistente
		if _, err := businessService.Get(userClaims.UserID, userClaims.UserRoleID, businessID); err != nil {
			handleBusinessError(w, err)
			return
		}

		var req domain.CreateTransactionRequest

		// Decodificar o corpo da requisição
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := validate.Struct(req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Dados da transação inválidos", validationDetails(err))
			return
		}

		transaction, err := service.CreateTransaction(businessID, &req)
		if err != nil {
			logrus.Error("Error creating transaction:", err)
			handleIngestError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(transaction)
	}
}

// UploadTransactionsCSV importa transações em lote a partir de um arquivo
// CSV enviado no campo multipart "file". Linhas inválidas são puladas e
// relatadas no resumo da importação.
func UploadTransactionsCSV(service ingesting.Ingester, businessService business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UploadTransactionsCSV")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		businessID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if businessID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do negócio não fornecido", nil)
			return
		}

		// Negócio de outro dono é respondido como inexistente
		if _, err := businessService.Get(userClaims.UserID, userClaims.UserRoleID, businessID); err != nil {
			handleBusinessError(w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFile, "Arquivo excede o tamanho máximo permitido", nil)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Arquivo CSV não enviado no campo 'file'", nil)
			return
		}
		defer file.Close()

		report, err := service.ImportCSV(businessID, file)
		if err != nil {
			logrus.Error("Error importing transactions:", err)
			handleIngestError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

// handleIngestError traduz erros do serviço de ingestão para a resposta HTTP
func handleIngestError(w http.ResponseWriter, err error) {
	var ingestErr *ingesting.IngestError
	if errors.As(err, &ingestErr) {
		apiErrors.WriteError(w, ingestErr.Code, ingestErr.Details, nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao registrar a transação", nil)
}
