package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reviewhub.app/reviewhub/internal/dto"
	"reviewhub.app/reviewhub/internal/model"
	"reviewhub.app/reviewhub/internal/repository"
	"reviewhub.app/reviewhub/internal/validation"
	"reviewhub.app/reviewhub/pkg/apperror"
)

// Categories support only list, create and delete-by-slug. No update-in-place.
type CategoryService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	GetAllCategories(ctx context.Context, filter dto.CategoryFilter) (*dto.PaginatedCategoryResponse, error)
	DeleteCategory(ctx context.Context, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := validation.ValidateSlug(req.Slug); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindBySlug(ctx, req.Slug); err == nil {
		return nil, fmt.Errorf("%w: category with slug %s already exists", apperror.ErrInvalidInput, req.Slug)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &model.Category{
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	return &dto.CategoryResponse{Name: category.Name, Slug: category.Slug}, nil
}

func (s *categoryService) GetAllCategories(ctx context.Context, filter dto.CategoryFilter) (*dto.PaginatedCategoryResponse, error) {
	filter.Normalize()

	categories, total, err := s.repo.FindAll(ctx, filter.Search, filter.Offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, dto.CategoryResponse{
			Name: category.Name,
			Slug: category.Slug,
		})
	}

	return &dto.PaginatedCategoryResponse{
		Data: responses,
		Meta: dto.PaginationMeta{
			Offset:     filter.Offset,
			Limit:      filter.Limit,
			TotalItems: total,
		},
	}, nil
}

// DeleteCategory removes the category; its titles keep existing with a null
// category via the SET NULL constraint.
func (s *categoryService) DeleteCategory(ctx context.Context, slug string) error {
	if _, err := s.repo.FindBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %s not found", apperror.ErrNotFound, slug)
		}
		return err
	}

	return s.repo.DeleteBySlug(ctx, slug)
}
