// Package usecase はadminフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	analysisentity "nexus_backend/internal/feature/analysis/domain/entity"
	authentity "nexus_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength はリセット時の新パスワードの最低文字数です。
	minPasswordLength = 6

	// passwordPlaceholder はバックアップ出力時にパスワード欄へ入れる固定値です。
	passwordPlaceholder = "[PROTECTED]"
)

// UserRepository は管理画面が必要とするユーザー操作を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type UserRepository interface {
	// List はユーザーコレクション全体を保存順で返します。
	List(ctx context.Context) ([]*authentity.User, error)

	// UpdatePassword は一致したユーザーのパスワードハッシュを上書きします。
	// ユーザーが存在しない場合はエラーを返します（存在の有無が漏れるのは
	// リセット導線の仕様です）。
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// ProjectRepository は管理画面が必要とするプロジェクト操作を抽象化します。
type ProjectRepository interface {
	// ListByEmail は指定メールアドレスが所有するプロジェクトを日付降順で返します。
	ListByEmail(ctx context.Context, email string) ([]*analysisentity.Project, error)

	// ListAll はコレクション全体を保存順で返します。
	ListAll(ctx context.Context) ([]*analysisentity.Project, error)
}

// Snapshot はバックアップ出力の全体構造です。
// ユーザーのパスワード欄は固定のプレースホルダへ差し替えられます。
// プロジェクトは無加工で含まれます。
type Snapshot struct {
	Users    []*authentity.User        `json:"users"`
	Projects []*analysisentity.Project `json:"projects"`
}

// adminUsecase は管理者向け操作を実装します。
type adminUsecase struct {
	users    UserRepository
	projects ProjectRepository
}

// NewAdminUsecase はadminUsecaseの新しいインスタンスを生成します。
func NewAdminUsecase(users UserRepository, projects ProjectRepository) *adminUsecase {
	return &adminUsecase{users: users, projects: projects}
}

// ListUsers は全ユーザーを保存順で返します。
func (u *adminUsecase) ListUsers(ctx context.Context) ([]*authentity.User, error) {
	return u.users.List(ctx)
}

// ProjectsByEmail は対象ユーザーのプロジェクトを日付降順で返します。
// 権限の確認はルータのミドルウェアに委ねます。
func (u *adminUsecase) ProjectsByEmail(ctx context.Context, email string) ([]*analysisentity.Project, error) {
	return u.projects.ListByEmail(ctx, email)
}

// ResetPassword は管理者による強制パスワード変更です。
// 現パスワードの照合は行いません。
func (u *adminUsecase) ResetPassword(ctx context.Context, email, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return u.users.UpdatePassword(ctx, email, string(hashed))
}

// Export は全ユーザー（パスワード秘匿）と全プロジェクトのスナップショットを返します。
func (u *adminUsecase) Export(ctx context.Context) (*Snapshot, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := u.projects.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	redacted := make([]*authentity.User, 0, len(users))
	for _, user := range users {
		clone := *user
		clone.Password = passwordPlaceholder
		redacted = append(redacted, &clone)
	}

	return &Snapshot{Users: redacted, Projects: projects}, nil
}
