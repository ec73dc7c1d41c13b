package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub.app/reviewhub/internal/dto"
	"reviewhub.app/reviewhub/internal/model"
	"reviewhub.app/reviewhub/internal/permission"
	"reviewhub.app/reviewhub/internal/repository"
	"reviewhub.app/reviewhub/internal/validation"
	"reviewhub.app/reviewhub/pkg/apperror"
)

type UserService interface {
	List(ctx context.Context, filter dto.UserFilter) (*dto.PaginatedUserResponse, error)
	Create(ctx context.Context, req dto.AdminCreateUserRequest) (*dto.UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	Update(ctx context.Context, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, username string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	repo   repository.UserRepository
	mailer Mailer
}

func NewUserService(repo repository.UserRepository, mailer Mailer) UserService {
	return &userService{repo: repo, mailer: mailer}
}

func (s *userService) List(ctx context.Context, filter dto.UserFilter) (*dto.PaginatedUserResponse, error) {
	filter.Normalize()

	users, total, err := s.repo.FindAll(ctx, filter.Search, filter.Offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}

	return &dto.PaginatedUserResponse{
		Data: responses,
		Meta: dto.PaginationMeta{
			Offset:     filter.Offset,
			Limit:      filter.Limit,
			TotalItems: total,
		},
	}, nil
}

// Create is the admin-initiated path: the full field set may be supplied and
// the confirmation-code exchange is skipped, though a code is still issued so
// the account can obtain a token.
func (s *userService) Create(ctx context.Context, req dto.AdminCreateUserRequest) (*dto.UserResponse, error) {
	if err := validation.ValidateUsername(req.Username); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if err := validation.ValidateRole(role); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, req.Email, req.Username, nil); err != nil {
		return nil, err
	}

	code, hash, err := issueConfirmationCode()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:             req.Username,
		Email:                req.Email,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Bio:                  req.Bio,
		Role:                 role,
		ConfirmationCodeHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mailer.SendConfirmationCode(ctx, user.Email, code); err != nil {
		return nil, fmt.Errorf("failed to deliver confirmation code: %w", err)
	}

	response := toUserResponse(user)
	return &response, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	response := toUserResponse(user)
	return &response, nil
}

// Update is the admin patch on /users/{username}. Admins may set any valid
// role value.
func (s *userService) Update(ctx context.Context, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if err := validation.ValidateRole(*req.Role); err != nil {
			return nil, err
		}
		user.Role = *req.Role
	}

	return s.applyUpdate(ctx, user, req)
}

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, user.ID.String())
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	response := toUserResponse(user)
	return &response, nil
}

// UpdateProfile serves PATCH /users/me. A non-privileged user keeps role
// "user" no matter what the request body says; moderators and admins may set
// any valid role.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	if req.Role != nil {
		if err := validation.ValidateRole(*req.Role); err != nil {
			return nil, err
		}
		if permission.IsPrivileged(user.Role) {
			user.Role = *req.Role
		}
		// Non-privileged users keep their current role silently.
	}

	return s.applyUpdate(ctx, user, req)
}

func (s *userService) applyUpdate(ctx context.Context, user *model.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if req.Username != nil && *req.Username != user.Username {
		if err := validation.ValidateUsername(*req.Username); err != nil {
			return nil, err
		}
		if err := s.ensureUnique(ctx, "", *req.Username, &user.ID); err != nil {
			return nil, err
		}
		user.Username = *req.Username
	}

	if req.Email != nil && *req.Email != user.Email {
		if err := s.ensureUnique(ctx, *req.Email, "", &user.ID); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	response := toUserResponse(user)
	return &response, nil
}

func (s *userService) findByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s not found", apperror.ErrNotFound, username)
		}
		return nil, err
	}
	return user, nil
}

// ensureUnique checks username/email collisions, ignoring the given user ID
// so self-updates don't trip over their own row.
func (s *userService) ensureUnique(ctx context.Context, email, username string, ignore *uuid.UUID) error {
	if email != "" {
		existing, err := s.repo.FindByEmail(ctx, email)
		if err == nil && (ignore == nil || existing.ID != *ignore) {
			return fmt.Errorf("%w: email already registered", apperror.ErrInvalidInput)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	if username != "" {
		existing, err := s.repo.FindByUsername(ctx, username)
		if err == nil && (ignore == nil || existing.ID != *ignore) {
			return fmt.Errorf("%w: username already taken", apperror.ErrInvalidInput)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	return nil
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       user.Bio,
		Role:      user.Role,
	}
}
