// Package handler はadminフィーチャーのHTTPハンドラーを提供します。
// ここに生えるエンドポイントはルータ側でadminロール必須のグループに載ります。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nexus_backend/internal/api"
	"nexus_backend/internal/feature/admin/usecase"
	analysisentity "nexus_backend/internal/feature/analysis/domain/entity"
	analysishandler "nexus_backend/internal/feature/analysis/transport/handler"
	authentity "nexus_backend/internal/feature/auth/domain/entity"
	authhandler "nexus_backend/internal/feature/auth/transport/handler"
	authusecase "nexus_backend/internal/feature/auth/usecase"
)

// AdminUsecase は管理者向け操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AdminUsecase interface {
	ListUsers(ctx context.Context) ([]*authentity.User, error)
	ProjectsByEmail(ctx context.Context, email string) ([]*analysisentity.Project, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
	Export(ctx context.Context) (*usecase.Snapshot, error)
}

// AdminHandler は管理者向けのHTTPリクエストを処理します。
type AdminHandler struct {
	uc AdminUsecase
}

// NewAdminHandler はAdminHandlerの新しいインスタンスを生成します。
func NewAdminHandler(uc AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// ListUsers は全ユーザー一覧を返します。
//
// エンドポイント: GET /v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		slog.Error("user listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load users"})
		return
	}

	out := make([]api.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, authhandler.UserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

// UserProjects は対象ユーザーのプロジェクト一覧を返します。
//
// エンドポイント: GET /v1/admin/users/:email/projects
func (h *AdminHandler) UserProjects(c *gin.Context) {
	email := c.Param("email")
	projects, err := h.uc.ProjectsByEmail(c.Request.Context(), email)
	if err != nil {
		slog.Error("project inspection failed", "error", err, "target", email)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load projects"})
		return
	}

	out := make([]api.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, analysishandler.ProjectResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

// ResetPassword は対象ユーザーのパスワードを強制変更します。
//
// エンドポイント: PUT /v1/admin/users/:email/password
// 対象が存在しない場合は404を返します（リセット導線は存在を前提とする仕様）。
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	var req api.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("reset password validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	email := c.Param("email")
	if err := h.uc.ResetPassword(c.Request.Context(), email, req.NewPassword); err != nil {
		if errors.Is(err, authusecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			return
		}
		slog.Error("reset password failed", "error", err, "target", email)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to reset password"})
		return
	}

	slog.Info("password reset by admin", "target", email)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "password updated"})
}

// Export はバックアップファイルをダウンロードとして返します。
//
// エンドポイント: GET /v1/admin/export
// ファイル名は nexus_full_backup_<YYYY-MM-DD>.json、ユーザーのパスワード欄は
// 秘匿済み、プロジェクトは無加工です。
func (h *AdminHandler) Export(c *gin.Context) {
	snapshot, err := h.uc.Export(c.Request.Context())
	if err != nil {
		slog.Error("export failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to export database"})
		return
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		slog.Error("export marshal failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to export database"})
		return
	}

	filename := fmt.Sprintf("nexus_full_backup_%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}
