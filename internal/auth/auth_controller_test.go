package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crictally/config"
	"github.com/DhavalSuthar-24/crictally/internal/user"
	"github.com/DhavalSuthar-24/crictally/pkg/token"
)

// stubAuthRepo is an in-memory AuthRepository for handler tests.
type stubAuthRepo struct {
	nextID  uint
	users   map[uint]*user.User
	refresh map[string]*user.RefreshToken
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{
		nextID:  1,
		users:   make(map[uint]*user.User),
		refresh: make(map[string]*user.RefreshToken),
	}
}

func (r *stubAuthRepo) CreateUser(u *user.User) error {
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	return nil
}

func (r *stubAuthRepo) GetUserByEmail(email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAuthRepo) GetUserByUsername(username string) (*user.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAuthRepo) GetUserByID(id uint) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubAuthRepo) SaveRefreshToken(t *user.RefreshToken) error {
	r.refresh[t.Token] = t
	return nil
}

func (r *stubAuthRepo) GetRefreshToken(tokenString string) (*user.RefreshToken, error) {
	t, ok := r.refresh[tokenString]
	if !ok || t.Revoked || t.ExpiresAt.Before(time.Now()) {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubAuthRepo) InvalidateRefreshToken(tokenString string) error {
	if t, ok := r.refresh[tokenString]; ok {
		t.Revoked = true
	}
	return nil
}

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.AccessTokenSecret = "access-secret"
	cfg.JWT.AccessTokenExpiryMinutes = 15
	cfg.JWT.RefreshTokenSecret = "refresh-secret"
	cfg.JWT.RefreshTokenExpiryDays = 7
	return cfg
}

func setupAuthRouter() (*gin.Engine, *stubAuthRepo) {
	gin.SetMode(gin.TestMode)
	repo := newStubAuthRepo()
	ac := NewAuthController(repo, testAuthConfig())

	r := gin.New()
	grp := r.Group("/api/auth")
	grp.POST("/register", ac.Register)
	grp.POST("/login", ac.Login)
	grp.POST("/refresh-token", ac.RefreshToken)
	grp.POST("/logout", ac.Logout)
	return r, repo
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerBody() RegisterRequest {
	return RegisterRequest{
		Name:     "Asha Rao",
		Username: "asha",
		Email:    "asha@example.com",
		Password: "correct-horse",
	}
}

func decodeAuthResponse(t *testing.T, w *httptest.ResponseRecorder) AuthResponse {
	t.Helper()
	var resp struct {
		Data AuthResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return resp.Data
}

func TestRegister(t *testing.T) {
	r, repo := setupAuthRouter()

	w := postJSON(t, r, "/api/auth/register", registerBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body %s", w.Code, w.Body.String())
	}

	data := decodeAuthResponse(t, w)
	if data.AccessToken == "" || data.RefreshToken == "" {
		t.Error("expected both tokens in response")
	}
	claims, err := token.ValidateJWT(data.AccessToken, "access-secret")
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.UserID != data.User.ID {
		t.Errorf("token user = %d, want %d", claims.UserID, data.User.ID)
	}

	stored := repo.users[data.User.ID]
	if stored == nil {
		t.Fatal("user not persisted")
	}
	if stored.Password == "correct-horse" {
		t.Error("password stored in plaintext")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := setupAuthRouter()
	postJSON(t, r, "/api/auth/register", registerBody())

	dup := registerBody()
	dup.Username = "someone-else"
	w := postJSON(t, r, "/api/auth/register", dup)
	if w.Code != http.StatusConflict {
		t.Fatalf("got status %d, want 409", w.Code)
	}
}

func TestLogin(t *testing.T) {
	r, _ := setupAuthRouter()
	postJSON(t, r, "/api/auth/register", registerBody())

	tests := []struct {
		name       string
		identifier string
		password   string
		wantCode   int
	}{
		{"by email", "asha@example.com", "correct-horse", http.StatusOK},
		{"by username", "asha", "correct-horse", http.StatusOK},
		{"wrong password", "asha", "battery-staple", http.StatusUnauthorized},
		{"unknown user", "nobody", "correct-horse", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/auth/login", LoginRequest{
				LoginIdentifier: tt.identifier,
				Password:        tt.password,
			})
			if w.Code != tt.wantCode {
				t.Errorf("got status %d, want %d, body %s", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}

func TestRefreshTokenFlow(t *testing.T) {
	r, _ := setupAuthRouter()
	w := postJSON(t, r, "/api/auth/register", registerBody())
	data := decodeAuthResponse(t, w)

	w = postJSON(t, r, "/api/auth/refresh-token", RefreshTokenRequest{RefreshToken: data.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: got status %d, body %s", w.Code, w.Body.String())
	}

	// A revoked token must stop refreshing.
	w = postJSON(t, r, "/api/auth/logout", LogoutRequest{RefreshToken: data.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("logout: got status %d, body %s", w.Code, w.Body.String())
	}
	w = postJSON(t, r, "/api/auth/refresh-token", RefreshTokenRequest{RefreshToken: data.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: got status %d, want 401", w.Code)
	}
}
