package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub.app/reviewhub/internal/dto"
	"reviewhub.app/reviewhub/internal/model"
	"reviewhub.app/reviewhub/pkg/apperror"
)

func seedUser(t *testing.T, repo *fakeUserRepo, username, email, role string) uuid.UUID {
	t.Helper()
	user := &model.User{Username: username, Email: email, Role: role}
	require.NoError(t, repo.Create(context.Background(), user))
	return user.ID
}

func TestAdminCreateUserDefaultsToUserRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakeMailer{})

	res, err := svc.Create(context.Background(), dto.AdminCreateUserRequest{
		Email:    "bob@example.com",
		Username: "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, res.Role)
}

func TestAdminCreateUserRejectsUnknownRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakeMailer{})

	_, err := svc.Create(context.Background(), dto.AdminCreateUserRequest{
		Email:    "bob@example.com",
		Username: "bob",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestAdminCreateUserDeliversConfirmationCode(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := NewUserService(repo, mailer)

	_, err := svc.Create(context.Background(), dto.AdminCreateUserRequest{
		Email:    "bob@example.com",
		Username: "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", mailer.lastEmail)
	assert.NotEmpty(t, mailer.lastCode)
}

func TestUpdateProfileIgnoresRoleForRegularUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakeMailer{})
	id := seedUser(t, repo, "carol", "carol@example.com", model.RoleUser)

	role := model.RoleAdmin
	res, err := svc.UpdateProfile(context.Background(), id, dto.UpdateUserRequest{Role: &role})
	require.NoError(t, err)

	// The request succeeds but the role stays what it was.
	assert.Equal(t, model.RoleUser, res.Role)
}

func TestUpdateProfileAllowsRoleChangeForModerator(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakeMailer{})
	id := seedUser(t, repo, "mod", "mod@example.com", model.RoleModerator)

	role := model.RoleAdmin
	res, err := svc.UpdateProfile(context.Background(), id, dto.UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, res.Role)
}

func TestUpdateProfileUnknownUserIsUnauthorized(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakeMailer{})

	bio := "hello"
	_, err := svc.UpdateProfile(context.Background(), uuid.New(), dto.UpdateUserRequest{Bio: &bio})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestUpdateRejectsTakenUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakeMailer{})
	seedUser(t, repo, "carol", "carol@example.com", model.RoleUser)
	seedUser(t, repo, "dave", "dave@example.com", model.RoleUser)

	taken := "carol"
	_, err := svc.Update(context.Background(), "dave", dto.UpdateUserRequest{Username: &taken})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestUpdateKeepingOwnUsernameIsAllowed(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakeMailer{})
	seedUser(t, repo, "carol", "carol@example.com", model.RoleUser)

	same := "carol"
	bio := "updated"
	res, err := svc.Update(context.Background(), "carol", dto.UpdateUserRequest{Username: &same, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "carol", res.Username)
	assert.Equal(t, "updated", res.Bio)
}

func TestAdminUpdateMaySetAnyValidRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakeMailer{})
	seedUser(t, repo, "carol", "carol@example.com", model.RoleUser)

	role := model.RoleModerator
	res, err := svc.Update(context.Background(), "carol", dto.UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, model.RoleModerator, res.Role)
}

func TestDeleteUnknownUserIsNotFound(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakeMailer{})

	err := svc.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListUsersFiltersBySearch(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakeMailer{})
	seedUser(t, repo, "carol", "carol@example.com", model.RoleUser)
	seedUser(t, repo, "dave", "dave@example.com", model.RoleUser)

	res, err := svc.List(context.Background(), dto.UserFilter{Search: "car"})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "carol", res.Data[0].Username)
	assert.Equal(t, int64(1), res.Meta.TotalItems)
}
