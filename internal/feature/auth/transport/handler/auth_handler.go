// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nexus_backend/internal/api"
	"nexus_backend/internal/feature/auth/domain/entity"
	"nexus_backend/internal/feature/auth/usecase"
	jwtmw "nexus_backend/internal/platform/jwt"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は指定されたメールアドレスとパスワードで新規ユーザーを登録します。
	Register(ctx context.Context, email, password, name string) (*entity.User, error)
	// Login はユーザーを認証し、成功時にJWTトークンと本人のレコードを返します。
	Login(ctx context.Context, email, password string) (string, *entity.User, error)
	// ChangePassword は本人確認付きでパスワードを変更します。
	ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// UserResponse はエンティティをクライアント向けのレスポンスへ変換します。
// パスワードハッシュは含めません。
func UserResponse(u *entity.User) api.UserResponse {
	return api.UserResponse{
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - メール重複時は409を返却
// - 成功時は201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			slog.Warn("signup conflict", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "email already registered"})
			return
		}
		slog.Error("signup failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "signup failed"})
		return
	}
	slog.Info("user signup successful", "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.MessageResponse{Message: "ok"})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却（存在有無を区別しない汎用メッセージ）
// - 認証成功時はJWTトークンとユーザー情報付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid email or password"})
		return
	}
	slog.Info("user login successful", "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.TokenResponse{Token: token, User: UserResponse(user)})
}

// ChangePassword は自分のパスワード変更エンドポイントを処理します。
// 新パスワードと確認用の一致はbindingで、長さと現パスワードの照合は
// ユースケースで検証されます。
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req api.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("change password validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	email := c.GetString(jwtmw.ContextEmail)
	if email == "" {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "missing session"})
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), email, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, usecase.ErrWrongPassword) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "current password is incorrect"})
			return
		}
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			return
		}
		slog.Error("change password failed", "error", err, "email", email)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to update password"})
		return
	}
	slog.Info("password updated", "email", email)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "password updated"})
}
