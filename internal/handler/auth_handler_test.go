package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/instachef/internal/identity"
	"github.com/hitoshi/instachef/internal/middleware"
	"github.com/hitoshi/instachef/internal/model"
)

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	registerFn        func(ctx context.Context, draft identity.RegisterDraft) (*model.User, *model.Session, error)
	loginFn           func(ctx context.Context, email, password string, remember bool) (*model.User, *model.Session, error)
	logoutFn          func(ctx context.Context, sessionID string) error
	findSessionFn     func(ctx context.Context, sessionID string) (*model.Session, error)
	currentUserFn     func(ctx context.Context, email string) (*model.User, error)
	rememberedEmailFn func(ctx context.Context) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, draft identity.RegisterDraft) (*model.User, *model.Session, error) {
	return m.registerFn(ctx, draft)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string, remember bool) (*model.User, *model.Session, error) {
	return m.loginFn(ctx, email, password, remember)
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	return m.logoutFn(ctx, sessionID)
}

func (m *mockAuthService) FindSession(ctx context.Context, sessionID string) (*model.Session, error) {
	return m.findSessionFn(ctx, sessionID)
}

func (m *mockAuthService) CurrentUser(ctx context.Context, email string) (*model.User, error) {
	return m.currentUserFn(ctx, email)
}

func (m *mockAuthService) RememberedEmail(ctx context.Context) (string, error) {
	return m.rememberedEmailFn(ctx)
}

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{
		CookieDomain:  "",
		CookieSecure:  false,
		SessionMaxAge: 86400,
	}
}

func sessionCookieFrom(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Register_Returns201AndSetsSessionCookie(t *testing.T) {
	service := &mockAuthService{
		registerFn: func(ctx context.Context, draft identity.RegisterDraft) (*model.User, *model.Session, error) {
			return &model.User{
					Firstname: draft.Firstname,
					Lastname:  draft.Lastname,
					Email:     draft.Email,
					Password:  draft.Password,
				}, &model.Session{
					ID:        "new-session-id",
					Email:     draft.Email,
					ExpiresAt: time.Now().Add(24 * time.Hour),
				}, nil
		},
	}

	h := NewAuthHandler(service, testAuthConfig())

	body, _ := json.Marshal(identity.RegisterDraft{
		Firstname: "Alice",
		Lastname:  "Martin",
		Email:     "alice@example.com",
		Password:  "Secret12345!",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	cookie := sessionCookieFrom(resp)
	if cookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if cookie.Value != "new-session-id" {
		t.Errorf("session cookie value = %q, want %q", cookie.Value, "new-session-id")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}

	var got userResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", got.Email, "alice@example.com")
	}
}

func TestAuthHandler_Register_ResponseDoesNotContainPassword(t *testing.T) {
	service := &mockAuthService{
		registerFn: func(ctx context.Context, draft identity.RegisterDraft) (*model.User, *model.Session, error) {
			return &model.User{Email: draft.Email, Password: draft.Password},
				&model.Session{ID: "s1", Email: draft.Email}, nil
		},
	}

	h := NewAuthHandler(service, testAuthConfig())

	body, _ := json.Marshal(identity.RegisterDraft{
		Email:    "bob@example.com",
		Password: "SuperSecret99!",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	raw := w.Body.String()
	if strings.Contains(raw, "SuperSecret99!") {
		t.Error("response body should not contain the password")
	}
}

func TestAuthHandler_Register_DuplicateEmail_Returns409(t *testing.T) {
	service := &mockAuthService{
		registerFn: func(ctx context.Context, draft identity.RegisterDraft) (*model.User, *model.Session, error) {
			return nil, nil, model.NewDuplicateEmailError(draft.Email)
		},
	}

	h := NewAuthHandler(service, testAuthConfig())

	body, _ := json.Marshal(identity.RegisterDraft{
		Email:    "taken@example.com",
		Password: "pw",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Result().StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusConflict)
	}

	var errBody apiErrorResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&errBody); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if errBody.Code != model.ErrCodeDuplicateEmail {
		t.Errorf("code = %q, want %q", errBody.Code, model.ErrCodeDuplicateEmail)
	}
}

func TestAuthHandler_Register_MissingEmail_Returns400(t *testing.T) {
	service := &mockAuthService{
		registerFn: func(ctx context.Context, draft identity.RegisterDraft) (*model.User, *model.Session, error) {
			t.Fatal("Register should not be called without email")
			return nil, nil, nil
		},
	}

	h := NewAuthHandler(service, testAuthConfig())

	body, _ := json.Marshal(identity.RegisterDraft{Password: "pw"})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestAuthHandler_Login_Success_SetsSessionCookie(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string, remember bool) (*model.User, *model.Session, error) {
			if email != "alice@example.com" || password != "Secret12345!" {
				t.Errorf("unexpected credentials %q / %q", email, password)
			}
			if !remember {
				t.Error("remember = false, want true")
			}
			return &model.User{Email: email}, &model.Session{ID: "login-session", Email: email}, nil
		},
	}

	h := NewAuthHandler(service, testAuthConfig())

	body, _ := json.Marshal(loginRequest{
		Email:    "alice@example.com",
		Password: "Secret12345!",
		Remember: true,
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	cookie := sessionCookieFrom(resp)
	if cookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if cookie.Value != "login-session" {
		t.Errorf("session cookie value = %q, want %q", cookie.Value, "login-session")
	}
}

func TestAuthHandler_Login_InvalidCredentials_Returns401(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string, remember bool) (*model.User, *model.Session, error) {
			return nil, nil, model.NewInvalidCredentialsError()
		},
	}

	h := NewAuthHandler(service, testAuthConfig())

	body, _ := json.Marshal(loginRequest{Email: "alice@example.com", Password: "wrong"})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if sessionCookieFrom(resp) != nil {
		t.Error("session cookie should not be set on failed login")
	}
}

func TestAuthHandler_Logout_ClearsCookieAndReturns204(t *testing.T) {
	loggedOutSession := ""
	service := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			loggedOutSession = sessionID
			return nil
		},
	}

	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "active-session"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if loggedOutSession != "active-session" {
		t.Errorf("logged out session = %q, want %q", loggedOutSession, "active-session")
	}

	cookie := sessionCookieFrom(resp)
	if cookie == nil {
		t.Fatal("expected session cookie to be cleared")
	}
	if cookie.MaxAge != -1 {
		t.Errorf("cookie MaxAge = %d, want -1", cookie.MaxAge)
	}
}

func TestAuthHandler_Logout_NoCookie_StillReturns204(t *testing.T) {
	service := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			t.Fatal("Logout should not be called without cookie")
			return nil
		},
	}

	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
}

func TestAuthHandler_Me_ValidSession_ReturnsUser(t *testing.T) {
	service := &mockAuthService{
		findSessionFn: func(ctx context.Context, sessionID string) (*model.Session, error) {
			if sessionID == "me-session" {
				return &model.Session{ID: "me-session", Email: "carol@example.com"}, nil
			}
			return nil, nil
		},
		currentUserFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{Firstname: "Carol", Email: email}, nil
		},
	}

	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "me-session"})
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	var got userResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Email != "carol@example.com" {
		t.Errorf("email = %q, want %q", got.Email, "carol@example.com")
	}
}

func TestAuthHandler_Me_NoCookie_Returns401(t *testing.T) {
	service := &mockAuthService{}

	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthHandler_Me_ExpiredSession_Returns401(t *testing.T) {
	service := &mockAuthService{
		findSessionFn: func(ctx context.Context, sessionID string) (*model.Session, error) {
			// 期限切れセッションはnilとして返る
			return nil, nil
		},
	}

	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "expired-session"})
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthHandler_RememberedEmail_ReturnsSavedValue(t *testing.T) {
	service := &mockAuthService{
		rememberedEmailFn: func(ctx context.Context) (string, error) {
			return "alice@example.com", nil
		},
	}

	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/remembered-email", nil)
	w := httptest.NewRecorder()

	h.RememberedEmail(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	var got map[string]string
	if err := json.NewDecoder(w.Result().Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got["email"] != "alice@example.com" {
		t.Errorf("email = %q, want %q", got["email"], "alice@example.com")
	}
}

func TestAuthHandler_RememberedEmail_Absent_ReturnsEmptyString(t *testing.T) {
	service := &mockAuthService{
		rememberedEmailFn: func(ctx context.Context) (string, error) {
			return "", nil
		},
	}

	h := NewAuthHandler(service, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/remembered-email", nil)
	w := httptest.NewRecorder()

	h.RememberedEmail(w, req)

	var got map[string]string
	if err := json.NewDecoder(w.Result().Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got["email"] != "" {
		t.Errorf("email = %q, want empty string", got["email"])
	}
}
