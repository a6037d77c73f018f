package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fgcbrasil/platform-backend/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestParseToken(t *testing.T) {
	a := NewAuthenticator(testSecret, nil)

	validClaims := jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}

	t.Run("valid token", func(t *testing.T) {
		userID, err := a.parseToken(requestWithToken(signedToken(t, testSecret, validClaims)))
		require.NoError(t, err)
		assert.Equal(t, 42, userID)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := a.parseToken(requestWithToken(""))
		assert.Error(t, err)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abcdef")
		_, err := a.parseToken(req)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := a.parseToken(requestWithToken(signedToken(t, "other-secret", validClaims)))
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := jwt.MapClaims{
			"user_id": 42,
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}
		_, err := a.parseToken(requestWithToken(signedToken(t, testSecret, expired)))
		assert.Error(t, err)
	})

	t.Run("missing user_id claim", func(t *testing.T) {
		claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
		_, err := a.parseToken(requestWithToken(signedToken(t, testSecret, claims)))
		assert.Error(t, err)
	})

	t.Run("non-positive user_id", func(t *testing.T) {
		claims := jwt.MapClaims{
			"user_id": 0,
			"exp":     time.Now().Add(time.Hour).Unix(),
		}
		_, err := a.parseToken(requestWithToken(signedToken(t, testSecret, claims)))
		assert.Error(t, err)
	})
}

// callGate прогоняет запрос с заданным вызывающим через middleware и
// сообщает, дошел ли запрос до обработчика.
func callGate(gate func(http.Handler) http.Handler, caller *models.User) (int, bool) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if caller != nil {
		req = req.WithContext(ContextWithCaller(req.Context(), caller))
	}
	rec := httptest.NewRecorder()
	gate(next).ServeHTTP(rec, req)
	return rec.Code, reached
}

func TestRequireStaff(t *testing.T) {
	a := NewAuthenticator(testSecret, nil)

	testCases := []struct {
		name        string
		caller      *models.User
		wantStatus  int
		wantReached bool
	}{
		{name: "admin", caller: &models.User{ID: 1, Role: models.RoleAdmin}, wantStatus: http.StatusOK, wantReached: true},
		{name: "organizer", caller: &models.User{ID: 2, Role: models.RoleOrganizer}, wantStatus: http.StatusOK, wantReached: true},
		{name: "player", caller: &models.User{ID: 3, Role: models.RolePlayer}, wantStatus: http.StatusForbidden},
		{name: "fan", caller: &models.User{ID: 4, Role: models.RoleFan}, wantStatus: http.StatusForbidden},
		{name: "no caller", caller: nil, wantStatus: http.StatusUnauthorized},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, reached := callGate(a.RequireStaff, tc.caller)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantReached, reached)
		})
	}
}

// Глобально-административные операции (рифа, полный список пользователей,
// сброс рейтинга) недоступны организаторам.
func TestRequireGlobalAdmin(t *testing.T) {
	a := NewAuthenticator(testSecret, nil)

	testCases := []struct {
		name        string
		caller      *models.User
		wantStatus  int
		wantReached bool
	}{
		{name: "admin", caller: &models.User{ID: 1, Role: models.RoleAdmin}, wantStatus: http.StatusOK, wantReached: true},
		{name: "organizer", caller: &models.User{ID: 2, Role: models.RoleOrganizer}, wantStatus: http.StatusForbidden},
		{name: "player", caller: &models.User{ID: 3, Role: models.RolePlayer}, wantStatus: http.StatusForbidden},
		{name: "no caller", caller: nil, wantStatus: http.StatusUnauthorized},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, reached := callGate(a.RequireGlobalAdmin, tc.caller)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantReached, reached)
		})
	}
}
