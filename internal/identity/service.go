// Package identity はユーザー登録・ログイン・セッション管理のドメインロジックを提供する。
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/instachef/internal/kvstore"
	"github.com/hitoshi/instachef/internal/model"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service はユーザーと現在セッションのストア。
// users / user / userProfile / rememberedEmail / sessions の各キーを所有する。
type Service struct {
	store  kvstore.Store
	config ServiceConfig
}

// NewService はServiceを生成する。
func NewService(store kvstore.Store, config ServiceConfig) *Service {
	return &Service{
		store:  store,
		config: config,
	}
}

// RegisterDraft はユーザー登録の入力を表す。
type RegisterDraft struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// ProfileChanges はプロフィール編集の入力を表す。
// 空のフィールドは変更しない。NewPasswordが非空の場合のみパスワードを更新する。
type ProfileChanges struct {
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// Register は新規ユーザーを登録し、セッションを発行する。
// メールアドレスはトリム後の完全一致で重複判定し、重複時はDUPLICATE_EMAILを返す
// （このときユーザーリストは変更しない）。
func (s *Service) Register(ctx context.Context, draft RegisterDraft) (*model.User, *model.Session, error) {
	email := strings.TrimSpace(draft.Email)

	var users []model.User
	if _, err := s.store.Read(ctx, kvstore.KeyUsers, &users); err != nil {
		return nil, nil, fmt.Errorf("failed to read users: %w", err)
	}

	for _, u := range users {
		if u.Email == email {
			return nil, nil, model.NewDuplicateEmailError(email)
		}
	}

	user := model.User{
		Firstname: draft.Firstname,
		Lastname:  draft.Lastname,
		Email:     email,
		Password:  draft.Password,
	}

	users = append(users, user)
	if err := s.store.Write(ctx, kvstore.KeyUsers, users); err != nil {
		return nil, nil, fmt.Errorf("failed to write users: %w", err)
	}

	if err := s.writeCurrentUser(ctx, user); err != nil {
		return nil, nil, err
	}

	session, err := s.createSession(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("new user registered",
		slog.String("email", email),
	)

	return &user, session, nil
}

// Login は保存済みユーザーに対してトリム済みメールアドレスとパスワード文字列の
// 完全一致を照合する。失敗時はINVALID_CREDENTIALSを返し、何も変更しない。
// 成功時はセッションを発行し、rememberに応じてrememberedEmailを保存または削除する。
func (s *Service) Login(ctx context.Context, email, password string, remember bool) (*model.User, *model.Session, error) {
	email = strings.TrimSpace(email)

	var users []model.User
	if _, err := s.store.Read(ctx, kvstore.KeyUsers, &users); err != nil {
		return nil, nil, fmt.Errorf("failed to read users: %w", err)
	}

	var found *model.User
	for i := range users {
		if users[i].Email == email && users[i].Password == password {
			found = &users[i]
			break
		}
	}
	if found == nil {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	if err := s.writeCurrentUser(ctx, *found); err != nil {
		return nil, nil, err
	}

	if remember && email != "" {
		if err := s.store.Write(ctx, kvstore.KeyRememberedEmail, email); err != nil {
			return nil, nil, fmt.Errorf("failed to write remembered email: %w", err)
		}
	} else {
		if err := s.store.Remove(ctx, kvstore.KeyRememberedEmail); err != nil {
			return nil, nil, fmt.Errorf("failed to remove remembered email: %w", err)
		}
	}

	session, err := s.createSession(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("user logged in",
		slog.String("email", email),
	)

	return found, session, nil
}

// Logout はセッションを破棄し、現在ユーザーのキーだけを削除する。
// ユーザーリストとrememberedEmailは変更しない。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID != "" {
		sessions, err := s.readSessions(ctx)
		if err != nil {
			return err
		}
		if _, ok := sessions[sessionID]; ok {
			delete(sessions, sessionID)
			if err := s.store.Write(ctx, kvstore.KeySessions, sessions); err != nil {
				return fmt.Errorf("failed to write sessions: %w", err)
			}
		}
	}

	if err := s.store.Remove(ctx, kvstore.KeySessionUser); err != nil {
		return fmt.Errorf("failed to remove current user: %w", err)
	}
	if err := s.store.Remove(ctx, kvstore.KeyUserProfile); err != nil {
		return fmt.Errorf("failed to remove user profile: %w", err)
	}

	return nil
}

// FindSession は指定IDのセッションを取得する。
// 存在しない場合と期限切れの場合はnilを返す。
func (s *Service) FindSession(ctx context.Context, sessionID string) (*model.Session, error) {
	sessions, err := s.readSessions(ctx)
	if err != nil {
		return nil, err
	}

	session, ok := sessions[sessionID]
	if !ok || session.Expired(time.Now()) {
		return nil, nil
	}

	return &session, nil
}

// CurrentUser はメールアドレスからユーザーの完全なレコードを取得する。
func (s *Service) CurrentUser(ctx context.Context, email string) (*model.User, error) {
	var users []model.User
	if _, err := s.store.Read(ctx, kvstore.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}

	return nil, model.NewUserNotFoundError()
}

// UpdateProfile はユーザーレコードへ変更をマージする。
// 空フィールドは既存値を維持する。メールアドレスが変わった場合は
// 現在ユーザーの射影と当該ユーザーのセッションも追従させる。
func (s *Service) UpdateProfile(ctx context.Context, email string, changes ProfileChanges) (*model.User, error) {
	var users []model.User
	if _, err := s.store.Read(ctx, kvstore.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	idx := -1
	for i := range users {
		if users[i].Email == email {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, model.NewUserNotFoundError()
	}

	user := users[idx]
	if changes.Firstname != "" {
		user.Firstname = changes.Firstname
	}
	if changes.Lastname != "" {
		user.Lastname = changes.Lastname
	}
	if newEmail := strings.TrimSpace(changes.Email); newEmail != "" {
		user.Email = newEmail
	}
	if changes.NewPassword != "" {
		user.Password = changes.NewPassword
	}

	users[idx] = user
	if err := s.store.Write(ctx, kvstore.KeyUsers, users); err != nil {
		return nil, fmt.Errorf("failed to write users: %w", err)
	}

	if err := s.writeCurrentUser(ctx, user); err != nil {
		return nil, err
	}

	if user.Email != email {
		if err := s.rewriteSessionEmails(ctx, email, user.Email); err != nil {
			return nil, err
		}
	}

	return &user, nil
}

// RememberedEmail は保存済みのメールアドレスを返す。未保存の場合は空文字列。
func (s *Service) RememberedEmail(ctx context.Context) (string, error) {
	var email string
	if _, err := s.store.Read(ctx, kvstore.KeyRememberedEmail, &email); err != nil {
		return "", fmt.Errorf("failed to read remembered email: %w", err)
	}
	return email, nil
}

// writeCurrentUser は現在ユーザーの完全なレコードと{email}射影を書き込む。
func (s *Service) writeCurrentUser(ctx context.Context, user model.User) error {
	if err := s.store.Write(ctx, kvstore.KeyUserProfile, user); err != nil {
		return fmt.Errorf("failed to write user profile: %w", err)
	}
	if err := s.store.Write(ctx, kvstore.KeySessionUser, model.SessionUser{Email: user.Email}); err != nil {
		return fmt.Errorf("failed to write current user: %w", err)
	}
	return nil
}

// createSession は新しいセッションを発行して永続化する。
// 期限切れのセッションはこのタイミングで刈り取る。
func (s *Service) createSession(ctx context.Context, email string) (*model.Session, error) {
	sessions, err := s.readSessions(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for id, sess := range sessions {
		if sess.Expired(now) {
			delete(sessions, id)
		}
	}

	session := model.Session{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
	}

	sessions[session.ID] = session
	if err := s.store.Write(ctx, kvstore.KeySessions, sessions); err != nil {
		return nil, fmt.Errorf("failed to write sessions: %w", err)
	}

	return &session, nil
}

// rewriteSessionEmails はメールアドレス変更にセッションレコードを追従させる。
func (s *Service) rewriteSessionEmails(ctx context.Context, oldEmail, newEmail string) error {
	sessions, err := s.readSessions(ctx)
	if err != nil {
		return err
	}

	changed := false
	for id, sess := range sessions {
		if sess.Email == oldEmail {
			sess.Email = newEmail
			sessions[id] = sess
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err := s.store.Write(ctx, kvstore.KeySessions, sessions); err != nil {
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	return nil
}

func (s *Service) readSessions(ctx context.Context) (map[string]model.Session, error) {
	sessions := make(map[string]model.Session)
	if _, err := s.store.Read(ctx, kvstore.KeySessions, &sessions); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return sessions, nil
}
