package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"nexus_backend/internal/feature/auth/domain/entity"
	"nexus_backend/internal/feature/auth/usecase"
	jwtmw "nexus_backend/internal/platform/jwt"
)

// mockAuthUsecase はAuthUsecaseのモック実装です。
type mockAuthUsecase struct {
	registerFunc       func(ctx context.Context, email, password, name string) (*entity.User, error)
	loginFunc          func(ctx context.Context, email, password string) (string, *entity.User, error)
	changePasswordFunc func(ctx context.Context, email, currentPassword, newPassword string) error
}

func (m *mockAuthUsecase) Register(ctx context.Context, email, password, name string) (*entity.User, error) {
	return m.registerFunc(ctx, email, password, name)
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthUsecase) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	return m.changePasswordFunc(ctx, email, currentPassword, newPassword)
}

func testAlice() *entity.User {
	return &entity.User{
		Email:     "alice@x.com",
		Name:      "Alice",
		Role:      entity.RoleEditor,
		Password:  "hash",
		CreatedAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func performRequest(h gin.HandlerFunc, method, path, body string, mws ...gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mws, h)
	r.Handle(method, path, handlers...)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		register   func(ctx context.Context, email, password, name string) (*entity.User, error)
		wantStatus int
	}{
		{
			name: "success",
			body: `{"email":"alice@x.com","password":"pw123456","name":"Alice"}`,
			register: func(ctx context.Context, email, password, name string) (*entity.User, error) {
				return testAlice(), nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing email",
			body:       `{"password":"pw123456"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: `{"email":"alice@x.com","password":"pw123456"}`,
			register: func(ctx context.Context, email, password, name string) (*entity.User, error) {
				return nil, usecase.ErrEmailAlreadyExists
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "store failure",
			body: `{"email":"alice@x.com","password":"pw123456"}`,
			register: func(ctx context.Context, email, password, name string) (*entity.User, error) {
				return nil, errors.New("store unavailable")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{registerFunc: tt.register})
			w := performRequest(h.Signup, http.MethodPost, "/signup", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Run("success returns token and user without password", func(t *testing.T) {
		uc := &mockAuthUsecase{
			loginFunc: func(ctx context.Context, email, password string) (string, *entity.User, error) {
				return "signed-token", testAlice(), nil
			},
		}
		h := NewAuthHandler(uc)

		w := performRequest(h.Login, http.MethodPost, "/login", `{"email":"alice@x.com","password":"pw123456"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"token":"signed-token"`)
		assert.Contains(t, w.Body.String(), `"email":"alice@x.com"`)
		assert.NotContains(t, w.Body.String(), "hash")
	})

	t.Run("invalid credentials", func(t *testing.T) {
		uc := &mockAuthUsecase{
			loginFunc: func(ctx context.Context, email, password string) (string, *entity.User, error) {
				return "", nil, usecase.ErrInvalidCredentials
			},
		}
		h := NewAuthHandler(uc)

		w := performRequest(h.Login, http.MethodPost, "/login", `{"email":"alice@x.com","password":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		// 存在の有無が分かるメッセージを返さない
		assert.Contains(t, w.Body.String(), "invalid email or password")
	})

	t.Run("validation error", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{})

		w := performRequest(h.Login, http.MethodPost, "/login", `{"email":"alice@x.com"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// withSessionEmail はAuthRequiredが設定するコンテキスト値を模倣します。
func withSessionEmail(email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(jwtmw.ContextEmail, email)
		c.Next()
	}
}

func TestChangePassword(t *testing.T) {
	body := `{"currentPassword":"old-pass","newPassword":"new-pass","confirmPassword":"new-pass"}`

	tests := []struct {
		name       string
		body       string
		change     func(ctx context.Context, email, currentPassword, newPassword string) error
		wantStatus int
	}{
		{
			name: "success",
			body: body,
			change: func(ctx context.Context, email, currentPassword, newPassword string) error {
				return nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "confirmation mismatch",
			body:       `{"currentPassword":"old-pass","newPassword":"new-pass","confirmPassword":"other"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "wrong current password",
			body: body,
			change: func(ctx context.Context, email, currentPassword, newPassword string) error {
				return usecase.ErrWrongPassword
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "user vanished",
			body: body,
			change: func(ctx context.Context, email, currentPassword, newPassword string) error {
				return usecase.ErrUserNotFound
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthUsecase{changePasswordFunc: tt.change})
			w := performRequest(h.ChangePassword, http.MethodPut, "/v1/password", tt.body,
				withSessionEmail("alice@x.com"))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	t.Run("missing session", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{})
		w := performRequest(h.ChangePassword, http.MethodPut, "/v1/password", body)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
