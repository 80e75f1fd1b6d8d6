package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/validation"
	"github.com/jhoicas/pos-bale/internal/domain"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
	"github.com/jhoicas/pos-bale/internal/domain/repository"
)

// CategoryUseCase alta, listado y baja de categorías del ledger.
type CategoryUseCase struct {
	repo repository.CategoryRepository
	ids
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, opts ...Option) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, ids: buildIDs(opts)}
}

// Create crea una categoría. Los nombres repetidos se aceptan.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryDTO, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	category := &entity.Category{
		ID:        uc.newID(),
		Name:      in.Name,
		CreatedAt: uc.now(),
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	out := dto.CategoryFromEntity(*category)
	return &out, nil
}

// List devuelve las categorías, la más nueva primero.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryDTO, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryDTO, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryFromEntity(c))
	}
	return out, nil
}

// Delete elimina la categoría sin tocar las transacciones que la referencian.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("id", "required")
	}
	return uc.repo.Delete(ctx, id)
}
