package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"nexus_backend/internal/api"
	adminhandler "nexus_backend/internal/feature/admin/transport/handler"
	adminusecase "nexus_backend/internal/feature/admin/usecase"
	analysisadapters "nexus_backend/internal/feature/analysis/adapters"
	analysishandler "nexus_backend/internal/feature/analysis/transport/handler"
	analysisusecase "nexus_backend/internal/feature/analysis/usecase"
	authadapters "nexus_backend/internal/feature/auth/adapters"
	authhandler "nexus_backend/internal/feature/auth/transport/handler"
	authusecase "nexus_backend/internal/feature/auth/usecase"
	"nexus_backend/internal/platform/kvstore"
	jwtmw "nexus_backend/internal/platform/jwt"
)

const testSecret = "router-test-secret"

// stubAnalyzer はプロバイダ呼び出しを固定レポートで置き換えます。
type stubAnalyzer struct {
	response string
	err      error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, content string) (string, error) {
	return s.response, s.err
}

// setupServer はSQLiteバックエンドで全フィーチャーを配線したルータを組み立てます。
func setupServer(t *testing.T, analyzer analysisusecase.ContentAnalyzer) *gin.Engine {
	t.Helper()
	t.Setenv(jwtmw.EnvKeyJWTSecret, testSecret)
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")
	require.NoError(t, db.AutoMigrate(&kvstore.DocumentModel{}), "failed to migrate table")

	store := kvstore.NewGormStore(db)
	ctx := context.Background()

	userRepo := authadapters.NewUserStore(store)
	require.NoError(t, userRepo.Init(ctx))
	projectRepo := analysisadapters.NewProjectStore(store)
	require.NoError(t, projectRepo.Init(ctx))

	generator := jwtmw.NewGenerator(testSecret, time.Hour)

	authUC := authusecase.NewAuthUsecase(userRepo, generator)
	analysisUC := analysisusecase.NewAnalysisUsecase(analyzer, projectRepo)
	adminUC := adminusecase.NewAdminUsecase(userRepo, projectRepo)

	return NewRouter(
		authhandler.NewAuthHandler(authUC),
		analysishandler.NewAnalysisHandler(analysisUC),
		adminhandler.NewAdminHandler(adminUC),
	)
}

func doJSON(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, email, password string) api.TokenResponse {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/login",
		`{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	var resp api.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

const stubReport = "## Report\n[SCORES]\nSEO: 90\nAEO: 85\nGEO: 70\n[/SCORES]"

func TestEndToEnd_AnalyzeFlow(t *testing.T) {
	r := setupServer(t, &stubAnalyzer{response: stubReport})

	// 新規登録
	w := doJSON(r, http.MethodPost, "/signup",
		`{"email":"alice@x.com","password":"pw123456","name":"Alice"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	// ログイン
	session := login(t, r, "alice@x.com", "pw123456")
	assert.Equal(t, "alice@x.com", session.User.Email)
	assert.Equal(t, "editor", session.User.Role)

	// 分析実行
	w = doJSON(r, http.MethodPost, "/v1/analyze", `{"content":"Hello world"}`, session.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var project api.ProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))
	assert.NotEmpty(t, project.ID)
	assert.Equal(t, "alice@x.com", project.UserID)
	assert.Equal(t, "Alice", project.UserName)
	assert.Equal(t, "Hello world", project.OriginalContentPreview)
	assert.Equal(t, stubReport, project.FullResponse)
	assert.Equal(t, 90, project.SEOScore)
	assert.Equal(t, 85, project.AEOScore)
	assert.Equal(t, 70, project.GEOScore)
	assert.True(t, strings.HasPrefix(project.Title, "Análise "))

	// 履歴に反映されている
	w = doJSON(r, http.MethodGet, "/v1/projects", "", session.Token)
	require.Equal(t, http.StatusOK, w.Code)

	var projects []api.ProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &projects))
	require.Len(t, projects, 1)
	assert.Equal(t, project.ID, projects[0].ID)
}

func TestEndToEnd_ProviderFailure(t *testing.T) {
	r := setupServer(t, &stubAnalyzer{err: assert.AnError})

	session := login(t, r, "user@nexus.ai", "user123")

	w := doJSON(r, http.MethodPost, "/v1/analyze", `{"content":"Hello"}`, session.Token)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// 部分的なレコードは残らない
	w = doJSON(r, http.MethodGet, "/v1/projects", "", session.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestEndToEnd_SeededAccountsAndRoles(t *testing.T) {
	r := setupServer(t, &stubAnalyzer{response: stubReport})

	// シードされた一般ユーザーで分析
	editor := login(t, r, "user@nexus.ai", "user123")
	w := doJSON(r, http.MethodPost, "/v1/analyze", `{"content":"editor content"}`, editor.Token)
	require.Equal(t, http.StatusOK, w.Code)

	// 一般ユーザーはadmin APIに入れない
	w = doJSON(r, http.MethodGet, "/v1/admin/users", "", editor.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// adminは全ユーザーと全プロジェクトを見られる
	admin := login(t, r, "admin@nexus.ai", "admin123")

	w = doJSON(r, http.MethodGet, "/v1/admin/users", "", admin.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var users []api.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	w = doJSON(r, http.MethodGet, "/v1/projects", "", admin.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var all []api.ProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 1)
	assert.Equal(t, "user@nexus.ai", all[0].UserID)
}

func TestEndToEnd_AdminPasswordReset(t *testing.T) {
	r := setupServer(t, &stubAnalyzer{response: stubReport})
	admin := login(t, r, "admin@nexus.ai", "admin123")

	w := doJSON(r, http.MethodPut, "/v1/admin/users/user@nexus.ai/password",
		`{"newPassword":"reset-pass"}`, admin.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 旧パスワードは無効、新パスワードでログインできる
	w = doJSON(r, http.MethodPost, "/login", `{"email":"user@nexus.ai","password":"user123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	login(t, r, "user@nexus.ai", "reset-pass")
}

func TestEndToEnd_ChangeOwnPassword(t *testing.T) {
	r := setupServer(t, &stubAnalyzer{response: stubReport})
	session := login(t, r, "user@nexus.ai", "user123")

	w := doJSON(r, http.MethodPut, "/v1/password",
		`{"currentPassword":"user123","newPassword":"next-pass","confirmPassword":"next-pass"}`,
		session.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	login(t, r, "user@nexus.ai", "next-pass")
}

func TestEndToEnd_UnauthenticatedAccess(t *testing.T) {
	r := setupServer(t, &stubAnalyzer{response: stubReport})

	w := doJSON(r, http.MethodGet, "/v1/projects", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
