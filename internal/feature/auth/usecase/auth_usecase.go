// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"nexus_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength はパスワード変更時の最低文字数を定義します。
	minPasswordLength = 6

	// defaultUserName は登録時に名前が省略された場合の表示名です。
	defaultUserName = "Novo Usuário"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// List はユーザーコレクション全体を保存順で返します。
	// コレクションが欠損・破損している場合は空スライスを返します（エラーにしません）。
	List(ctx context.Context) ([]*entity.User, error)

	// Add は新しいユーザーをコレクション末尾に追加します。
	// 大文字小文字を無視して同じメールアドレスが既に存在する場合、
	// ErrEmailAlreadyExistsを返します。
	Add(ctx context.Context, user *entity.User) error

	// FindByEmail は大文字小文字を無視した一致でユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdatePassword は最初に一致したユーザーのパスワードハッシュを上書きします。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(email, name, role string) (string, error)
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	jwtGenerator JWTGenerator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, jwtGenerator JWTGenerator) *authUsecase {
	return &authUsecase{
		users:        users,
		jwtGenerator: jwtGenerator,
	}
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録します。
// ロールは常にeditorで固定です。メールアドレスは表示用の大文字小文字を
// そのまま保持し、重複チェックのみ小文字比較で行われます。
func (u *authUsecase) Register(ctx context.Context, email, password, name string) (*entity.User, error) {
	if name == "" {
		name = defaultUserName
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:     strings.TrimSpace(email),
		Name:      name,
		Role:      entity.RoleEditor,
		Password:  string(hashed),
		CreatedAt: time.Now(),
	}
	if err := u.users.Add(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login はユーザーを認証し、成功時にJWTトークンと本人のレコードを返します。
// 末尾に空白が紛れ込んだ入力を許容するため、送信されたパスワードそのものと
// 空白除去後のパスワードの両方をハッシュと照合します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := u.users.FindByEmail(ctx, strings.TrimSpace(email))

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = user.Password
	}

	// 送信値そのままとtrim後の両方を常に検証
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if compareErr != nil {
		compareErr = bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(strings.TrimSpace(password)))
	}

	// ユーザー未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || compareErr != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, tokenErr := u.jwtGenerator.GenerateToken(user.Email, user.Name, string(user.Role))
	if tokenErr != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", tokenErr)
	}

	return token, user, nil
}

// ChangePassword は本人確認付きでパスワードを変更します。
// 新パスワードの長さ検証、現パスワードの照合、更新の順で処理します。
func (u *authUsecase) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return u.users.UpdatePassword(ctx, email, string(hashed))
}
