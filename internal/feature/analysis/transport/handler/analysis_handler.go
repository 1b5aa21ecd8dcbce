// Package handler はanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nexus_backend/internal/api"
	authentity "nexus_backend/internal/feature/auth/domain/entity"
	"nexus_backend/internal/feature/analysis/domain/entity"
	"nexus_backend/internal/feature/analysis/usecase"
	jwtmw "nexus_backend/internal/platform/jwt"
)

// AnalysisUsecase は分析オーケストレーションのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AnalysisUsecase interface {
	Analyze(ctx context.Context, content string, user *authentity.User) (*entity.Project, error)
	ListForUser(ctx context.Context, user *authentity.User) ([]*entity.Project, error)
}

// AnalysisHandler は分析実行と履歴取得のHTTPリクエストを処理します。
type AnalysisHandler struct {
	uc AnalysisUsecase
}

// NewAnalysisHandler はAnalysisHandlerの新しいインスタンスを生成します。
func NewAnalysisHandler(uc AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

// ProjectResponse はエンティティをクライアント向けのレスポンスへ変換します。
func ProjectResponse(p *entity.Project) api.ProjectResponse {
	return api.ProjectResponse{
		ID:                     p.ID,
		UserID:                 p.UserID,
		UserName:               p.UserName,
		Date:                   p.Date.Format(time.RFC3339),
		Title:                  p.Title,
		OriginalContentPreview: p.OriginalContentPreview,
		FullResponse:           p.FullResponse,
		SEOScore:               p.SEOScore,
		AEOScore:               p.AEOScore,
		GEOScore:               p.GEOScore,
	}
}

// currentUser はJWTクレームから呼び出しユーザーのスナップショットを組み立てます。
// userName / userId はこのスナップショットからプロジェクトに複製されます。
func currentUser(c *gin.Context) *authentity.User {
	email := c.GetString(jwtmw.ContextEmail)
	if email == "" {
		return nil
	}
	return &authentity.User{
		Email: email,
		Name:  c.GetString(jwtmw.ContextName),
		Role:  authentity.Role(c.GetString(jwtmw.ContextRole)),
	}
}

// Analyze はコンテンツ分析エンドポイントを処理します。
//
// エンドポイント: POST /v1/analyze
// プロバイダ障害時は502を返し、レコードは保存されません。
// クライアントは入力を保持したまま再実行できます。
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req api.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("analyze validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "content is required"})
		return
	}

	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "missing session"})
		return
	}

	project, err := h.uc.Analyze(c.Request.Context(), req.Content, user)
	if err != nil {
		if errors.Is(err, usecase.ErrProvider) {
			slog.Error("provider call failed", "error", err, "email", user.Email)
			c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "Falha ao analisar conteúdo. Verifique a Chave da API."})
			return
		}
		slog.Error("analysis failed", "error", err, "email", user.Email)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to save analysis"})
		return
	}

	slog.Info("analysis completed", "email", user.Email, "project_id", project.ID,
		"seo", project.SEOScore, "aeo", project.AEOScore, "geo", project.GEOScore)
	c.JSON(http.StatusOK, ProjectResponse(project))
}

// ListProjects は呼び出しユーザーのプロジェクト履歴を返します。
//
// エンドポイント: GET /v1/projects
// adminは全ユーザーのプロジェクトを、それ以外は自分の分のみを日付降順で受け取ります。
func (h *AnalysisHandler) ListProjects(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "missing session"})
		return
	}

	projects, err := h.uc.ListForUser(c.Request.Context(), user)
	if err != nil {
		slog.Error("project listing failed", "error", err, "email", user.Email)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load projects"})
		return
	}

	out := make([]api.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectResponse(p))
	}
	c.JSON(http.StatusOK, out)
}
