package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/business"
	"github.com/vfg2006/revenue-monitor-api/pkg/apiErrors"
	"github.com/vfg2006/revenue-monitor-api/pkg/middleware"
)

// ListBusinesses lista os negócios visíveis para o usuário autenticado.
// Administradores enxergam todos; os demais apenas os próprios.
func ListBusinesses(service business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		businesses, err := service.List(userClaims.UserID, userClaims.UserRoleID)
		if err != nil {
			logrus.Error("Error listing businesses:", err)
			handleBusinessError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(businesses)
	}
}

// CreateBusiness cria um negócio vinculado ao usuário autenticado
func CreateBusiness(service business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateBusiness")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		var req domain.CreateBusinessRequest

		// Decodificar o corpo da requisição
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := validate.Struct(req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Dados do negócio inválidos", validationDetails(err))
			return
		}

		created, err := service.Create(userClaims.UserID, &req)
		if err != nil {
			logrus.Error("Error creating business:", err)
			handleBusinessError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

// GetBusiness retorna um negócio pelo ID.
// Negócio de outro dono é respondido como inexistente.
func GetBusiness(service business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		found, err := service.Get(userClaims.UserID, userClaims.UserRoleID, businessID)
		if err != nil {
			handleBusinessError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(found)
	}
}

// UpdateBusiness aplica uma atualização parcial nos dados do negócio
func UpdateBusiness(service business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateBusiness")

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

		var req domain.UpdateBusinessRequest

		// Decodificar o corpo da requisição
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := validate.Struct(req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Dados do negócio inválidos", validationDetails(err))
			return
		}

		// Definir o ID do negócio a ser atualizado
		req.ID = businessID

		updated, err := service.Update(userClaims.UserID, userClaims.UserRoleID, &req)
		if err != nil {
			logrus.Error("Error updating business:", err)
			handleBusinessError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

// DeactivateBusiness desativa um negócio sem apagar o histórico de
// transações e alertas
func DeactivateBusiness(service business.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeactivateBusiness")

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

		if err := service.Deactivate(userClaims.UserID, userClaims.UserRoleID, businessID); err != nil {
			logrus.Error("Error deactivating business:", err)
			handleBusinessError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Negócio desativado com sucesso",
		})
	}
}

// handleBusinessError traduz erros do serviço de negócios para a resposta HTTP
func handleBusinessError(w http.ResponseWriter, err error) {
	var businessErr *business.BusinessError
	if errors.As(err, &businessErr) {
		apiErrors.WriteError(w, businessErr.Code, businessErr.Details, nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao processar o negócio", nil)
}
