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

type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, page dto.Pagination) (*dto.PaginatedCommentResponse, error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, authorID uuid.UUID, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	Update(ctx context.Context, actorID uuid.UUID, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actorID uuid.UUID, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
	userRepo    repository.UserRepository
	sanitizer   *bluemonday.Policy
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

func (s *commentService) List(ctx context.Context, titleID, reviewID int64, page dto.Pagination) (*dto.PaginatedCommentResponse, error) {
	page.Normalize()

	if err := s.ensureReviewInTitle(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.FindAllByReview(ctx, reviewID, page.Offset, page.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, toCommentResponse(comment))
	}

	return &dto.PaginatedCommentResponse{
		Data: responses,
		Meta: dto.PaginationMeta{
			Offset:     page.Offset,
			Limit:      page.Limit,
			TotalItems: total,
		},
	}, nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	response := toCommentResponse(comment)
	return &response, nil
}

func (s *commentService) Create(ctx context.Context, authorID uuid.UUID, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if err := s.ensureReviewInTitle(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Text:     s.sanitizer.Sanitize(req.Text),
		AuthorID: authorID,
		ReviewID: reviewID,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.Get(ctx, titleID, reviewID, comment.ID)
}

func (s *commentService) Update(ctx context.Context, actorID uuid.UUID, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCanModify(ctx, actorID, comment.AuthorID, http.MethodPatch); err != nil {
		return nil, err
	}

	if req.Text != nil {
		comment.Text = s.sanitizer.Sanitize(*req.Text)
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	response := toCommentResponse(comment)
	return &response, nil
}

func (s *commentService) Delete(ctx context.Context, actorID uuid.UUID, titleID, reviewID, commentID int64) error {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := s.ensureCanModify(ctx, actorID, comment.AuthorID, http.MethodDelete); err != nil {
		return err
	}

	return s.commentRepo.Delete(ctx, comment.ID)
}

// ensureReviewInTitle checks that the review named in the path actually
// belongs to the title named in the path.
func (s *commentService) ensureReviewInTitle(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.reviewRepo.FindByIDAndTitle(ctx, reviewID, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: review %d not found for title %d", apperror.ErrNotFound, reviewID, titleID)
		}
		return err
	}
	return nil
}

func (s *commentService) findComment(ctx context.Context, titleID, reviewID, commentID int64) (*model.Comment, error) {
	if err := s.ensureReviewInTitle(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.FindByIDAndReview(ctx, commentID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d not found", apperror.ErrNotFound, commentID)
		}
		return nil, err
	}
	return comment, nil
}

func (s *commentService) ensureCanModify(ctx context.Context, actorID, authorID uuid.UUID, method string) error {
	actor, err := s.userRepo.FindByID(ctx, actorID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrUnauthorized
		}
		return err
	}

	if !permission.Allows(method, actor.Role, actorID == authorID) {
		return fmt.Errorf("%w: you may only modify your own comments", apperror.ErrForbidden)
	}

	return nil
}

func toCommentResponse(comment *model.Comment) dto.CommentResponse {
	author := ""
	if comment.Author != nil {
		author = comment.Author.Username
	}

	return dto.CommentResponse{
		ID:      comment.ID,
		Text:    comment.Text,
		Author:  author,
		PubDate: comment.PubDate.UTC().Format(time.RFC3339),
	}
}
