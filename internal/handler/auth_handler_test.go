package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub.app/reviewhub/internal/dto"
	"reviewhub.app/reviewhub/pkg/apperror"
)

type stubAuthService struct {
	signup      func(dto.SignupRequest) (*dto.SignupResponse, error)
	obtainToken func(dto.TokenRequest) (*dto.TokenResponse, error)
}

func (s *stubAuthService) Signup(_ context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	return s.signup(req)
}

func (s *stubAuthService) ObtainToken(_ context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	return s.obtainToken(req)
}

func newAuthRouter(svc *stubAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(svc)

	router := gin.New()
	router.POST("/api/v1/auth/signup", h.Signup)
	router.POST("/api/v1/auth/token", h.ObtainToken)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSignupReturnsOK(t *testing.T) {
	router := newAuthRouter(&stubAuthService{
		signup: func(req dto.SignupRequest) (*dto.SignupResponse, error) {
			return &dto.SignupResponse{Email: req.Email, Username: req.Username}, nil
		},
	})

	rec := postJSON(router, "/api/v1/auth/signup", `{"email":"alice@example.com","username":"alice"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.SignupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice@example.com", body.Email)
	assert.Equal(t, "alice", body.Username)
}

func TestSignupMissingEmailIsBadRequest(t *testing.T) {
	router := newAuthRouter(&stubAuthService{
		signup: func(dto.SignupRequest) (*dto.SignupResponse, error) {
			t.Fatal("service should not be called on a bind failure")
			return nil, nil
		},
	})

	rec := postJSON(router, "/api/v1/auth/signup", `{"username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupInvalidEmailIsBadRequest(t *testing.T) {
	router := newAuthRouter(&stubAuthService{
		signup: func(dto.SignupRequest) (*dto.SignupResponse, error) {
			t.Fatal("service should not be called on a bind failure")
			return nil, nil
		},
	})

	rec := postJSON(router, "/api/v1/auth/signup", `{"email":"not-an-email","username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestObtainTokenMissingFieldsIsBadRequest(t *testing.T) {
	router := newAuthRouter(&stubAuthService{
		obtainToken: func(dto.TokenRequest) (*dto.TokenResponse, error) {
			t.Fatal("service should not be called on a bind failure")
			return nil, nil
		},
	})

	rec := postJSON(router, "/api/v1/auth/token", `{"username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestObtainTokenUnknownUserIsNotFound(t *testing.T) {
	router := newAuthRouter(&stubAuthService{
		obtainToken: func(dto.TokenRequest) (*dto.TokenResponse, error) {
			return nil, fmt.Errorf("%w: user ghost not found", apperror.ErrNotFound)
		},
	})

	rec := postJSON(router, "/api/v1/auth/token", `{"username":"ghost","confirmation_code":"abc"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestObtainTokenReturnsToken(t *testing.T) {
	router := newAuthRouter(&stubAuthService{
		obtainToken: func(dto.TokenRequest) (*dto.TokenResponse, error) {
			return &dto.TokenResponse{Token: "signed.jwt.token"}, nil
		},
	})

	rec := postJSON(router, "/api/v1/auth/token", `{"username":"alice","confirmation_code":"abc"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signed.jwt.token", body.Token)
}
