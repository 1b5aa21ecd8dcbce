// Package adapters はanalysisフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	authentity "nexus_backend/internal/feature/auth/domain/entity"
	"nexus_backend/internal/feature/analysis/domain/entity"
	"nexus_backend/internal/feature/analysis/usecase"
	"nexus_backend/internal/platform/kvstore"
)

// ProjectsKey はプロジェクトコレクションを保持するストアキーです。
const ProjectsKey = "nexus_db_projects"

// projectStore はProjectRepositoryインターフェースのkvstore実装です。
// プロジェクトは追記専用で、更新・削除・付け替えはありません。
type projectStore struct {
	store kvstore.Store
}

// projectStoreがProjectRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ProjectRepository = (*projectStore)(nil)

// NewProjectStore は指定されたストアでprojectStoreの新しいインスタンスを生成します。
func NewProjectStore(store kvstore.Store) *projectStore {
	return &projectStore{store: store}
}

// Init はプロジェクトコレクションが存在しない場合に空配列を投入します。
// 何度呼んでも安全です（冪等）。
func (r *projectStore) Init(ctx context.Context) error {
	if _, err := r.store.Get(ctx, ProjectsKey); err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return r.save(ctx, []*entity.Project{})
		}
		return err
	}
	return nil
}

// Save はプロジェクトをコレクション末尾に無条件で追加します。
// スコア範囲やフィールドの検証は行いません。
// コレクションが破損している場合はエラーを返します。空扱いで書き戻すと
// 既存の履歴全体が1件に置き換わってしまうためです。
func (r *projectStore) Save(ctx context.Context, p *entity.Project) error {
	projects, err := r.load(ctx)
	if err != nil {
		if errors.Is(err, errCorruptProjects) {
			slog.Error("refusing to overwrite corrupt project collection", "key", ProjectsKey)
		}
		return err
	}
	return r.save(ctx, append(projects, p))
}

// ListForUser は呼び出しユーザーの権限に応じた一覧を日付降順で返します。
// adminは全件、それ以外はuserIdが本人のメールアドレスに一致するもののみです。
func (r *projectStore) ListForUser(ctx context.Context, user *authentity.User) ([]*entity.Project, error) {
	projects, err := r.loadTolerant(ctx)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		projects = filterByOwner(projects, user.Email)
	}
	sortByDateDesc(projects)
	return projects, nil
}

// ListByEmail は指定メールアドレスが所有するプロジェクトを日付降順で返します。
// 呼び出し元の権限は確認しません（ルータ側のミドルウェアで制御します）。
func (r *projectStore) ListByEmail(ctx context.Context, email string) ([]*entity.Project, error) {
	projects, err := r.loadTolerant(ctx)
	if err != nil {
		return nil, err
	}
	projects = filterByOwner(projects, email)
	sortByDateDesc(projects)
	return projects, nil
}

// ListAll はコレクション全体を保存順で返します。バックアップ出力用です。
func (r *projectStore) ListAll(ctx context.Context) ([]*entity.Project, error) {
	return r.loadTolerant(ctx)
}

// filterByOwner はuserIdの完全一致で絞り込みます。
// 所有権は作成時点のメールアドレス文字列そのものです。
func filterByOwner(projects []*entity.Project, email string) []*entity.Project {
	out := make([]*entity.Project, 0, len(projects))
	for _, p := range projects {
		if p.UserID == email {
			out = append(out, p)
		}
	}
	return out
}

// sortByDateDesc は日付降順の安定ソートを行います。
// 同時刻のレコードは元の挿入順を保ちます。
func sortByDateDesc(projects []*entity.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Date.After(projects[j].Date)
	})
}

// errCorruptProjects はJSONとして読めないコレクション値を示す内部エラーです。
var errCorruptProjects = errors.New("corrupt project collection")

// load はコレクションを取得してデコードします。
// 値が欠損している場合は空スライスを、破損している場合はerrCorruptProjectsを返します。
func (r *projectStore) load(ctx context.Context) ([]*entity.Project, error) {
	data, err := r.store.Get(ctx, ProjectsKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return []*entity.Project{}, nil
		}
		return nil, err
	}
	var projects []*entity.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		slog.Warn("project collection is corrupt", "error", err)
		return nil, errCorruptProjects
	}
	return projects, nil
}

// loadTolerant は読み取り用のロードです。破損したコレクションは空扱いにして
// 一覧表示を継続させます（書き込み側のSaveは破損を許容しません）。
func (r *projectStore) loadTolerant(ctx context.Context) ([]*entity.Project, error) {
	projects, err := r.load(ctx)
	if err != nil {
		if errors.Is(err, errCorruptProjects) {
			return []*entity.Project{}, nil
		}
		return nil, err
	}
	return projects, nil
}

// save はコレクション全体をエンコードして書き戻します。
func (r *projectStore) save(ctx context.Context, projects []*entity.Project) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to marshal projects: %w", err)
	}
	return r.store.Set(ctx, ProjectsKey, data)
}
