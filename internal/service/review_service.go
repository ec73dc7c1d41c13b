package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"reviewhub.app/reviewhub/internal/dto"
	"reviewhub.app/reviewhub/internal/model"
	"reviewhub.app/reviewhub/internal/permission"
	"reviewhub.app/reviewhub/internal/repository"
	"reviewhub.app/reviewhub/pkg/apperror"
)

type ReviewService interface {
	List(ctx context.Context, titleID int64, page dto.Pagination) (*dto.PaginatedReviewResponse, error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, authorID uuid.UUID, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actorID uuid.UUID, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actorID uuid.UUID, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
	userRepo   repository.UserRepository
	sanitizer  *bluemonday.Policy
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	titleRepo repository.TitleRepository,
	userRepo repository.UserRepository,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		userRepo:   userRepo,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

func (s *reviewService) List(ctx context.Context, titleID int64, page dto.Pagination) (*dto.PaginatedReviewResponse, error) {
	page.Normalize()

	if err := s.ensureTitleExists(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.FindAllByTitle(ctx, titleID, page.Offset, page.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, toReviewResponse(review))
	}

	return &dto.PaginatedReviewResponse{
		Data: responses,
		Meta: dto.PaginationMeta{
			Offset:     page.Offset,
			Limit:      page.Limit,
			TotalItems: total,
		},
	}, nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	response := toReviewResponse(review)
	return &response, nil
}

// Create stamps the author server-side and enforces one review per
// (author, title): an existence check first, then the unique index.
func (s *reviewService) Create(ctx context.Context, authorID uuid.UUID, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if err := s.ensureTitleExists(ctx, titleID); err != nil {
		return nil, err
	}

	if _, err := s.reviewRepo.FindByAuthorAndTitle(ctx, authorID, titleID); err == nil {
		return nil, fmt.Errorf("%w: only one review per title is allowed", apperror.ErrInvalidInput)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &model.Review{
		Text:     s.sanitizer.Sanitize(req.Text),
		Score:    req.Score,
		AuthorID: authorID,
		TitleID:  titleID,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: only one review per title is allowed", apperror.ErrInvalidInput)
		}
		return nil, err
	}

	return s.Get(ctx, titleID, review.ID)
}

// Update changes text and score only; author and pub_date are immutable.
func (s *reviewService) Update(ctx context.Context, actorID uuid.UUID, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCanModify(ctx, actorID, review.AuthorID, http.MethodPatch); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = s.sanitizer.Sanitize(*req.Text)
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	response := toReviewResponse(review)
	return &response, nil
}

func (s *reviewService) Delete(ctx context.Context, actorID uuid.UUID, titleID, reviewID int64) error {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := s.ensureCanModify(ctx, actorID, review.AuthorID, http.MethodDelete); err != nil {
		return err
	}

	return s.reviewRepo.Delete(ctx, review.ID)
}

func (s *reviewService) ensureTitleExists(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.FindByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: title %d not found", apperror.ErrNotFound, titleID)
		}
		return err
	}
	return nil
}

func (s *reviewService) findReview(ctx context.Context, titleID, reviewID int64) (*model.Review, error) {
	if err := s.ensureTitleExists(ctx, titleID); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.FindByIDAndTitle(ctx, reviewID, titleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: review %d not found", apperror.ErrNotFound, reviewID)
		}
		return nil, err
	}
	return review, nil
}

// ensureCanModify applies the author-or-privileged write gate.
func (s *reviewService) ensureCanModify(ctx context.Context, actorID, authorID uuid.UUID, method string) error {
	actor, err := s.userRepo.FindByID(ctx, actorID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrUnauthorized
		}
		return err
	}

	if !permission.Allows(method, actor.Role, actorID == authorID) {
		return fmt.Errorf("%w: you may only modify your own reviews", apperror.ErrForbidden)
	}

	return nil
}

func toReviewResponse(review *model.Review) dto.ReviewResponse {
	author := ""
	if review.Author != nil {
		author = review.Author.Username
	}

	return dto.ReviewResponse{
		ID:      review.ID,
		Text:    review.Text,
		Author:  author,
		Score:   review.Score,
		PubDate: review.PubDate.UTC().Format(time.RFC3339),
	}
}
