package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cash_management/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newAuthRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", RegisterHandler(db))
	r.POST("/auth/login", LoginHandler(db, testSecret))
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	w := postJSON(r, "/auth/register", RegisterRequest{
		Username: "Carol",
		Email:    "carol@example.com",
		Password: "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Usernames are stored lowercased
	var user domain.User
	require.NoError(t, db.Where("username = ?", "carol").First(&user).Error)
	assert.NotEqual(t, "hunter2hunter2", user.Password, "password is stored hashed")

	w = postJSON(r, "/auth/login", LoginRequest{Username: "Carol", Password: "hunter2hunter2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{name: "missing email", req: RegisterRequest{Username: "dave", Password: "longenough"}},
		{name: "bad email", req: RegisterRequest{Username: "dave", Email: "nope", Password: "longenough"}},
		{name: "short password", req: RegisterRequest{Username: "dave", Email: "d@e.com", Password: "short"}},
		{name: "bad username", req: RegisterRequest{Username: "da ve!", Email: "d@e.com", Password: "longenough"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/auth/register", tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	first := RegisterRequest{Username: "erin", Email: "erin@example.com", Password: "longenough"}
	require.Equal(t, http.StatusCreated, postJSON(r, "/auth/register", first).Code)

	// Same username, different email
	dupUser := RegisterRequest{Username: "Erin", Email: "other@example.com", Password: "longenough"}
	assert.Equal(t, http.StatusConflict, postJSON(r, "/auth/register", dupUser).Code)

	// Same email, different username
	dupMail := RegisterRequest{Username: "erin2", Email: "Erin@example.com", Password: "longenough"}
	assert.Equal(t, http.StatusConflict, postJSON(r, "/auth/register", dupMail).Code)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	req := RegisterRequest{Username: "grace", Email: "grace@example.com", Password: "oldpassword"}
	require.Equal(t, http.StatusCreated, postJSON(r, "/auth/register", req).Code)
	var user domain.User
	require.NoError(t, db.Where("username = ?", "grace").First(&user).Error)

	r.POST("/auth/password", authAs(user.ID), ChangePasswordHandler(db))

	// The old password must match before anything changes
	w := postJSON(r, "/auth/password", ChangePasswordRequest{OldPassword: "wrongwrong", NewPassword: "newpassword"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Too-short replacements are rejected
	w = postJSON(r, "/auth/password", ChangePasswordRequest{OldPassword: "oldpassword", NewPassword: "tiny"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A valid change replaces the stored hash
	w = postJSON(r, "/auth/password", ChangePasswordRequest{OldPassword: "oldpassword", NewPassword: "newpassword"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, db.First(&user, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("newpassword")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("oldpassword")))

	// Logging in with the new password works end to end
	w = postJSON(r, "/auth/login", LoginRequest{Username: "grace", Password: "newpassword"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	req := RegisterRequest{Username: "frank", Email: "frank@example.com", Password: "longenough"}
	require.Equal(t, http.StatusCreated, postJSON(r, "/auth/register", req).Code)

	w := postJSON(r, "/auth/login", LoginRequest{Username: "frank", Password: "wrongwrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/auth/login", LoginRequest{Username: "ghost", Password: "longenough"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
