package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// DenominationUseCase casos de uso CRUD de denominaciones de efectivo.
type DenominationUseCase struct {
	repo repository.DenominationRepository
}

// NewDenominationUseCase construye el caso de uso.
func NewDenominationUseCase(repo repository.DenominationRepository) *DenominationUseCase {
	return &DenominationUseCase{repo: repo}
}

// Create registra una denominación. El valor es único y mayor que cero.
func (uc *DenominationUseCase) Create(in dto.CreateDenominationRequest) (*dto.DenominationResponse, error) {
	if in.Value <= 0 {
		return nil, domain.ErrInvalidInput
	}
	status := entity.Status(in.Status)
	if in.Status == "" {
		status = entity.StatusEnabled
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	denom := &entity.Denomination{
		ID:        uuid.New().String(),
		Value:     in.Value,
		Status:    status,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(denom); err != nil {
		return nil, err
	}
	return denomToResponse(denom), nil
}

// GetByID obtiene una denominación por ID.
func (uc *DenominationUseCase) GetByID(id string) (*dto.DenominationResponse, error) {
	denom, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if denom == nil {
		return nil, domain.ErrNotFound
	}
	return denomToResponse(denom), nil
}

// Update cambia valor y estado de la denominación.
func (uc *DenominationUseCase) Update(id string, in dto.UpdateDenominationRequest) (*dto.DenominationResponse, error) {
	denom, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if denom == nil {
		return nil, domain.ErrNotFound
	}
	if in.Value <= 0 {
		return nil, domain.ErrInvalidInput
	}
	status := entity.Status(in.Status)
	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	denom.Value = in.Value
	denom.Status = status
	if err := uc.repo.Update(denom); err != nil {
		return nil, err
	}
	return denomToResponse(denom), nil
}

// Delete elimina una denominación. Las facturas existentes no se ven afectadas:
// guardan los valores recibidos y de vuelto como números, no como referencias.
func (uc *DenominationUseCase) Delete(id string) error {
	denom, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if denom == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// List lista denominaciones ordenadas por valor descendente.
func (uc *DenominationUseCase) List(page dto.PageRequest) ([]*dto.DenominationResponse, error) {
	page.DefaultPage()
	denoms, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DenominationResponse, 0, len(denoms))
	for _, d := range denoms {
		out = append(out, denomToResponse(d))
	}
	return out, nil
}

func denomToResponse(d *entity.Denomination) *dto.DenominationResponse {
	return &dto.DenominationResponse{
		ID:        d.ID,
		Value:     d.Value,
		Status:    string(d.Status),
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}
