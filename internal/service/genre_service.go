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

type GenreService interface {
	CreateGenre(ctx context.Context, req dto.CreateGenreRequest) (*dto.GenreResponse, error)
	GetAllGenres(ctx context.Context, filter dto.GenreFilter) (*dto.PaginatedGenreResponse, error)
	DeleteGenre(ctx context.Context, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) CreateGenre(ctx context.Context, req dto.CreateGenreRequest) (*dto.GenreResponse, error) {
	if err := validation.ValidateSlug(req.Slug); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindBySlug(ctx, req.Slug); err == nil {
		return nil, fmt.Errorf("%w: genre with slug %s already exists", apperror.ErrInvalidInput, req.Slug)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genre := &model.Genre{
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := s.repo.Create(ctx, genre); err != nil {
		return nil, err
	}

	return &dto.GenreResponse{Name: genre.Name, Slug: genre.Slug}, nil
}

func (s *genreService) GetAllGenres(ctx context.Context, filter dto.GenreFilter) (*dto.PaginatedGenreResponse, error) {
	filter.Normalize()

	genres, total, err := s.repo.FindAll(ctx, filter.Search, filter.Offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GenreResponse, 0, len(genres))
	for _, genre := range genres {
		responses = append(responses, dto.GenreResponse{
			Name: genre.Name,
			Slug: genre.Slug,
		})
	}

	return &dto.PaginatedGenreResponse{
		Data: responses,
		Meta: dto.PaginationMeta{
			Offset:     filter.Offset,
			Limit:      filter.Limit,
			TotalItems: total,
		},
	}, nil
}

func (s *genreService) DeleteGenre(ctx context.Context, slug string) error {
	if _, err := s.repo.FindBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: genre %s not found", apperror.ErrNotFound, slug)
		}
		return err
	}

	return s.repo.DeleteBySlug(ctx, slug)
}
