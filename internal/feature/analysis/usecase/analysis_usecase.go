// Package usecase はanalysisフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	authentity "nexus_backend/internal/feature/auth/domain/entity"
	"nexus_backend/internal/feature/analysis/domain/entity"
)

const (
	// previewLength は保存するコンテンツプレビューの最大文字数です。
	previewLength = 100

	// フォールバックスコアの一様乱数範囲 [60, 89] です。
	fallbackScoreMin  = 60
	fallbackScoreSpan = 30
)

var (
	// ErrMissingUser は認証済みユーザーなしで分析が呼ばれた場合に返されます。
	ErrMissingUser = errors.New("no authenticated user")

	// ErrProvider は生成プロバイダの呼び出し失敗を示します。
	// この場合レコードは一切保存されません。
	ErrProvider = errors.New("content analysis failed")
)

// ContentAnalyzer は生成プロバイダへの単発のテキスト生成呼び出しを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ContentAnalyzer interface {
	// Analyze はコンテンツを送信し、レポート全文を返します。
	Analyze(ctx context.Context, content string) (string, error)
}

// ProjectRepository はプロジェクトコレクションの永続化層を抽象化します。
type ProjectRepository interface {
	// Save はプロジェクトをコレクション末尾に無条件で追加します。
	Save(ctx context.Context, project *entity.Project) error

	// ListForUser は呼び出しユーザーの権限に応じたプロジェクト一覧を
	// 日付降順（同時刻は挿入順）で返します。adminは全件、それ以外は自分の分のみです。
	ListForUser(ctx context.Context, user *authentity.User) ([]*entity.Project, error)

	// ListByEmail は指定メールアドレスが所有するプロジェクトを日付降順で返します。
	// 権限チェックは呼び出し側の責務です。
	ListByEmail(ctx context.Context, email string) ([]*entity.Project, error)
}

// analysisUsecase は分析オーケストレーションを実装します。
type analysisUsecase struct {
	analyzer ContentAnalyzer
	projects ProjectRepository
}

// NewAnalysisUsecase はanalysisUsecaseの新しいインスタンスを生成します。
func NewAnalysisUsecase(analyzer ContentAnalyzer, projects ProjectRepository) *analysisUsecase {
	return &analysisUsecase{analyzer: analyzer, projects: projects}
}

// Analyze はコンテンツをプロバイダに送信し、スコアを抽出して
// プロジェクトとして永続化し、そのレコードを返します。
//
// プロバイダ呼び出しが失敗した場合はErrProviderでラップして返し、
// 部分的なレコードは保存しません。スコアが抽出できなかった場合（値0）は
// 60〜89の疑似乱数で補完します。抽出値が本当に0だったケースと
// 「見つからなかった」ケースは区別できず、どちらも上書きされます。
func (u *analysisUsecase) Analyze(ctx context.Context, content string, user *authentity.User) (*entity.Project, error) {
	if user == nil || user.Email == "" {
		return nil, ErrMissingUser
	}

	response, err := u.analyzer.Analyze(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	scores := ExtractScores(response)
	now := time.Now()

	project := &entity.Project{
		ID:                     uuid.NewString(),
		UserID:                 user.Email,
		UserName:               user.Name,
		Date:                   now,
		Title:                  "Análise " + now.Format("15:04:05"),
		OriginalContentPreview: preview(content),
		FullResponse:           response,
		SEOScore:               orFallback(scores.SEO),
		AEOScore:               orFallback(scores.AEO),
		GEOScore:               orFallback(scores.GEO),
	}

	if err := u.projects.Save(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	return project, nil
}

// ListForUser は呼び出しユーザー向けのプロジェクト一覧を返します。
func (u *analysisUsecase) ListForUser(ctx context.Context, user *authentity.User) ([]*entity.Project, error) {
	if user == nil || user.Email == "" {
		return nil, ErrMissingUser
	}
	return u.projects.ListForUser(ctx, user)
}

// preview は先頭100文字（rune単位）を返します。
func preview(content string) string {
	r := []rune(content)
	if len(r) <= previewLength {
		return content
	}
	return string(r[:previewLength])
}

// orFallback はスコアが抽出できなかった場合（0）に60〜89の乱数を返します。
func orFallback(score int) int {
	if score != 0 {
		return score
	}
	return rand.IntN(fallbackScoreSpan) + fallbackScoreMin
}
