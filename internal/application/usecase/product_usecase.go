package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD del catálogo de productos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. El código de negocio es único.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice.IsNegative() || in.TaxRate.IsNegative() || in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	status := entity.Status(in.Status)
	if in.Status == "" {
		status = entity.StatusEnabled
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Code:      in.Code,
		UnitPrice: in.UnitPrice.RoundBank(2),
		TaxRate:   in.TaxRate.RoundBank(2),
		Stock:     in.Stock,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return productToResponse(product), nil
}

// Update actualiza nombre, precio, impuesto, stock y estado. El código no cambia.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" || in.UnitPrice.IsNegative() || in.TaxRate.IsNegative() || in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	status := entity.Status(in.Status)
	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	product.Name = in.Name
	product.UnitPrice = in.UnitPrice.RoundBank(2)
	product.TaxRate = in.TaxRate.RoundBank(2)
	product.Stock = in.Stock
	product.Status = status
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

// Delete elimina un producto. Si tiene líneas de factura asociadas retorna
// ErrConflict (la FK lo protege).
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// List busca productos por nombre o código con paginación.
func (uc *ProductUseCase) List(query string, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.repo.Search(query, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productToResponse(p))
	}
	return out, nil
}

func productToResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Code:      p.Code,
		UnitPrice: p.UnitPrice,
		TaxRate:   p.TaxRate,
		Stock:     p.Stock,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

// PriceWithTax precio unitario con impuesto incluido (utilitario de catálogo).
func PriceWithTax(p *entity.Product) decimal.Decimal {
	tax := p.UnitPrice.Mul(p.TaxRate).Div(decimal.NewFromInt(100))
	return p.UnitPrice.Add(tax).RoundBank(2)
}
