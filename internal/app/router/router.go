package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	adminhandler "nexus_backend/internal/feature/admin/transport/handler"
	analysishandler "nexus_backend/internal/feature/analysis/transport/handler"
	authhandler "nexus_backend/internal/feature/auth/transport/handler"
	"nexus_backend/internal/platform/http/handler"
	jwtmw "nexus_backend/internal/platform/jwt"
)

func NewRouter(auth *authhandler.AuthHandler, analysis *analysishandler.AnalysisHandler,
	admin *adminhandler.AdminHandler) *gin.Engine {
	r := gin.Default()
	// CORS のデフォルト設定を有効（ブラウザのダッシュボードから呼び出すため）
	r.Use(cors.Default())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/signup", auth.Signup)
	// ログイン（JWT 発行）
	r.POST("/login", auth.Login)

	// 認証必須のルート
	v1 := r.Group("/v1")
	v1.Use(jwtmw.AuthRequired())
	{
		// コンテンツ分析の実行と履歴
		v1.POST("/analyze", analysis.Analyze)
		v1.GET("/projects", analysis.ListProjects)
		// 自分のパスワード変更
		v1.PUT("/password", auth.ChangePassword)

		// adminロール必須のルート
		adm := v1.Group("/admin")
		adm.Use(jwtmw.AdminRequired())
		{
			adm.GET("/users", admin.ListUsers)
			adm.GET("/users/:email/projects", admin.UserProjects)
			adm.PUT("/users/:email/password", admin.ResetPassword)
			adm.GET("/export", admin.Export)
		}
	}

	return r
}
