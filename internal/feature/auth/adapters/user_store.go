// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"nexus_backend/internal/feature/auth/domain/entity"
	"nexus_backend/internal/feature/auth/usecase"
	"nexus_backend/internal/platform/kvstore"
)

// UsersKey はユーザーコレクションを保持するストアキーです。
const UsersKey = "nexus_db_users"

// 初回起動時に投入される固定アカウントです。
const (
	seedAdminEmail    = "admin@nexus.ai"
	seedAdminName     = "Super Admin"
	seedAdminPassword = "admin123"

	seedEditorEmail    = "user@nexus.ai"
	seedEditorName     = "Demo User"
	seedEditorPassword = "user123"
)

// userStore はUserRepositoryインターフェースのkvstore実装です。
// コレクション全体をJSON配列1本として読み書きします。同一コレクションへの
// 並行書き込みは後勝ちになります（コレクション単位の丸ごと更新のため）。
type userStore struct {
	store kvstore.Store
}

// userStoreがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userStore)(nil)

// NewUserStore は指定されたストアでuserStoreの新しいインスタンスを生成します。
func NewUserStore(store kvstore.Store) *userStore {
	return &userStore{store: store}
}

// Init はユーザーコレクションを必要に応じて初期投入します。
// コレクションが欠損・破損・空配列のいずれかの場合のみ、管理者と一般ユーザーの
// 固定アカウント2件を投入します。何度呼んでも安全です（冪等）。
func (r *userStore) Init(ctx context.Context) error {
	users, err := r.load(ctx)
	if err == nil && len(users) > 0 {
		return nil
	}

	seed := make([]*entity.User, 0, 2)
	for _, s := range []struct {
		email, name, password string
		role                  entity.Role
	}{
		{seedAdminEmail, seedAdminName, seedAdminPassword, entity.RoleAdmin},
		{seedEditorEmail, seedEditorName, seedEditorPassword, entity.RoleEditor},
	} {
		hashed, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		seed = append(seed, &entity.User{
			Email:     s.email,
			Name:      s.name,
			Role:      s.role,
			Password:  string(hashed),
			CreatedAt: time.Now(),
		})
	}

	slog.Info("seeding user collection", "count", len(seed))
	return r.save(ctx, seed)
}

// List はユーザーコレクション全体を保存順で返します。
// 値が欠損またはパースできない場合は空スライスを返します（エラーにしません）。
func (r *userStore) List(ctx context.Context) ([]*entity.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) || errors.Is(err, errCorruptCollection) {
			return []*entity.User{}, nil
		}
		return nil, err
	}
	return users, nil
}

// Add はユーザーをコレクション末尾に追加します。
// 大文字小文字を無視して同じメールアドレスが存在する場合、
// usecase.ErrEmailAlreadyExistsを返します。
func (r *userStore) Add(ctx context.Context, u *entity.User) error {
	users, err := r.List(ctx)
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.EmailEquals(u.Email) {
			return usecase.ErrEmailAlreadyExists
		}
	}
	return r.save(ctx, append(users, u))
}

// FindByEmail は大文字小文字を無視した一致でユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userStore) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.EmailEquals(email) {
			return u, nil
		}
	}
	return nil, usecase.ErrUserNotFound
}

// UpdatePassword は最初に一致したユーザーのパスワードハッシュを上書きします。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userStore) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	users, err := r.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.EmailEquals(email) {
			u.Password = passwordHash
			return r.save(ctx, users)
		}
	}
	return usecase.ErrUserNotFound
}

// errCorruptCollection はJSONとして読めないコレクション値を示す内部エラーです。
var errCorruptCollection = errors.New("corrupt user collection")

// load はコレクションを取得してデコードします。
func (r *userStore) load(ctx context.Context) ([]*entity.User, error) {
	data, err := r.store.Get(ctx, UsersKey)
	if err != nil {
		return nil, err
	}
	var users []*entity.User
	if err := json.Unmarshal(data, &users); err != nil {
		slog.Warn("user collection is corrupt", "error", err)
		return nil, errCorruptCollection
	}
	return users, nil
}

// save はコレクション全体をエンコードして書き戻します。
func (r *userStore) save(ctx context.Context, users []*entity.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}
	return r.store.Set(ctx, UsersKey, data)
}
