package handler_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/abzalkhan/taskboard/internal/domain"
	"github.com/abzalkhan/taskboard/internal/transport/http/handler"
	"github.com/abzalkhan/taskboard/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	register func(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthResult, error)
	login    func(ctx context.Context, email, password string) (*usecase.AuthResult, error)
}

func (f *fakeAuthUsecase) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthResult, error) {
	return f.register(ctx, input)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	return f.login(ctx, email, password)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newAuthEngine(uc *fakeAuthUsecase) *gin.Engine {
	h := handler.NewAuthHandler(uc, testLogger())

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	return r
}

func postJSON(t *testing.T, engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func demoResult() *usecase.AuthResult {
	return &usecase.AuthResult{
		User: &domain.User{
			ID:        "user-1",
			Email:     "a@x.com",
			Name:      "Ann",
			CreatedAt: time.Now(),
		},
		Token: "signed.jwt.token",
	}
}

// ---- Register ----

func TestRegister_InvalidJSON_Returns400(t *testing.T) {
	w := postJSON(t, newAuthEngine(&fakeAuthUsecase{}), "/auth/register", `{bad json}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_ShortPassword_Returns400(t *testing.T) {
	w := postJSON(t, newAuthEngine(&fakeAuthUsecase{}), "/auth/register",
		`{"email":"a@x.com","name":"Ann","password":"short"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_Success_Returns201WithoutHash(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthResult, error) {
			return demoResult(), nil
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/register",
		`{"email":"a@x.com","name":"Ann","password":"pw123456"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("response has no user object: %s", w.Body.String())
	}
	for key := range user {
		if strings.Contains(strings.ToLower(key), "password") {
			t.Errorf("user projection leaks field %q", key)
		}
	}
	if resp["access_token"] != "signed.jwt.token" {
		t.Errorf("access_token = %v, want the issued token", resp["access_token"])
	}
}

func TestRegister_ExistingEmail_Returns409(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthResult, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/register",
		`{"email":"a@x.com","name":"Ann","password":"pw123456"}`)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

// ---- Login ----

func TestLogin_Success_Returns200(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
			return demoResult(), nil
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/login",
		`{"email":"a@x.com","password":"pw123456"}`)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestLogin_FailureBranches_IdenticalResponses(t *testing.T) {
	// The handler only ever sees ErrInvalidCredentials, whether the email was
	// unknown or the password wrong. Both requests must produce the same
	// status and body.
	uc := &fakeAuthUsecase{
		login: func(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	engine := newAuthEngine(uc)

	unknown := postJSON(t, engine, "/auth/login", `{"email":"nobody@x.com","password":"pw123456"}`)
	wrongPw := postJSON(t, engine, "/auth/login", `{"email":"a@x.com","password":"wrongpw"}`)

	if unknown.Code != http.StatusUnauthorized || wrongPw.Code != http.StatusUnauthorized {
		t.Errorf("statuses = %d/%d, want 401/401", unknown.Code, wrongPw.Code)
	}
	if unknown.Body.String() != wrongPw.Body.String() {
		t.Errorf("login failure bodies differ: %q vs %q",
			unknown.Body.String(), wrongPw.Body.String())
	}
}
