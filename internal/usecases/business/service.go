package business

import (
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/repository"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"github.com/vfg2006/revenue-monitor-api/pkg/apiErrors"
	"github.com/vfg2006/revenue-monitor-api/pkg/middleware"
	"github.com/vfg2006/revenue-monitor-api/pkg/utils"
)

// Manager concentra o CRUD de negócios e a verificação de posse usada
// pelas demais rotas. Um negócio que não pertence ao solicitante é
// respondido como inexistente; administradores enxergam todos.
type Manager interface {
	Create(ownerID int, request *domain.CreateBusinessRequest) (*domain.Business, error)
	List(requesterID, requesterRoleID int) ([]*domain.Business, error)
	Get(requesterID, requesterRoleID int, businessID string) (*domain.Business, error)
	Update(requesterID, requesterRoleID int, request *domain.UpdateBusinessRequest) (*domain.Business, error)
	Deactivate(requesterID, requesterRoleID int, businessID string) error
}

type Service struct {
	businessRepository repository.BusinessRepository
}

func NewService(businessRepository repository.BusinessRepository) Manager {
	return &Service{
		businessRepository: businessRepository,
	}
}

func (s *Service) Create(ownerID int, request *domain.CreateBusinessRequest) (*domain.Business, error) {
	if request.Name == "" {
		return nil, NewBusinessError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Nome do negócio é obrigatório")
	}

	segment := domain.BusinessSegment(request.Segment)
	if !domain.ValidSegment(segment) {
		return nil, NewBusinessError(ErrInvalidSegment, apiErrors.ErrInvalidFormat, "Segmento de negócio desconhecido")
	}

	businessID, err := utils.GenerateID()
	if err != nil {
		return nil, NewBusinessError(ErrGenerateID, apiErrors.ErrInternalServer, "Falha ao gerar identificador único para o negócio")
	}

	business := &domain.Business{
		ID:      businessID,
		Name:    request.Name,
		Segment: segment,
		OwnerID: ownerID,
		Active:  true,
	}

	business, err = s.businessRepository.Create(business)
	if err != nil {
		logrus.Error("Error creating business on the repository:", err)
		return nil, NewBusinessError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao criar negócio no banco de dados")
	}

	logrus.Infof("Negócio %s criado para o usuário %d", business.ID, ownerID)

	return business, nil
}

func (s *Service) List(requesterID, requesterRoleID int) ([]*domain.Business, error) {
	var (
		businesses []*domain.Business
		err        error
	)

	if requesterRoleID == middleware.RoleAdmin {
		businesses, err = s.businessRepository.List()
	} else {
		businesses, err = s.businessRepository.ListByOwner(requesterID)
	}

	if err != nil {
		logrus.Error("Error listing businesses on the repository:", err)
		return nil, NewBusinessError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar negócios no banco de dados")
	}

	return businesses, nil
}

// Get retorna o negócio quando o solicitante é o dono ou administrador.
// Negócio de outro dono é tratado como não encontrado.
func (s *Service) Get(requesterID, requesterRoleID int, businessID string) (*domain.Business, error) {
	if businessID == "" {
		return nil, ErrBusinessIDRequired
	}

	business, err := s.businessRepository.GetByID(businessID)
	if err != nil {
		logrus.Error("Error getting business by id on the repository:", err)
		return nil, NewBusinessErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, businessID, "Falha ao buscar negócio no banco de dados")
	}

	if business == nil || !canAccess(business, requesterID, requesterRoleID) {
		return nil, NewBusinessErrorWithID(ErrBusinessNotFound, apiErrors.ErrBusinessNotFound, businessID, "Negócio não encontrado")
	}

	return business, nil
}

func (s *Service) Update(requesterID, requesterRoleID int, request *domain.UpdateBusinessRequest) (*domain.Business, error) {
	if request.ID == "" {
		return nil, ErrBusinessIDRequired
	}

	if _, err := s.Get(requesterID, requesterRoleID, request.ID); err != nil {
		return nil, err
	}

	if request.Segment != nil && !domain.ValidSegment(domain.BusinessSegment(*request.Segment)) {
		return nil, NewBusinessErrorWithID(ErrInvalidSegment, apiErrors.ErrInvalidFormat, request.ID, "Segmento de negócio desconhecido")
	}

	if err := s.businessRepository.Update(request); err != nil {
		logrus.Error("Error updating business on the repository:", err)
		return nil, NewBusinessErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, request.ID, "Falha ao atualizar negócio no banco de dados")
	}

	// Releitura para devolver os campos atualizados pelo banco
	business, err := s.businessRepository.GetByID(request.ID)
	if err != nil {
		logrus.Error("Error getting business by id on the repository:", err)
		return nil, NewBusinessErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, request.ID, "Falha ao buscar negócio no banco de dados")
	}

	return business, nil
}

func (s *Service) Deactivate(requesterID, requesterRoleID int, businessID string) error {
	if businessID == "" {
		return ErrBusinessIDRequired
	}

	if _, err := s.Get(requesterID, requesterRoleID, businessID); err != nil {
		return err
	}

	if err := s.businessRepository.SoftDelete(businessID); err != nil {
		logrus.Error("Error deactivating business on the repository:", err)
		return NewBusinessErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, businessID, "Falha ao desativar negócio no banco de dados")
	}

	logrus.Infof("Negócio %s desativado pelo usuário %d", businessID, requesterID)

	return nil
}

func canAccess(business *domain.Business, requesterID, requesterRoleID int) bool {
	if requesterRoleID == middleware.RoleAdmin {
		return true
	}
	return business.OwnerID == requesterID
}
