package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/repositories"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const callerContextKey contextKey = "caller"

const jwtClaimUserID = "user_id"

// Authenticator проверяет Bearer-токен и прикрепляет к контексту профиль
// вызывающего, прочитанный из хранилища (организация, роль и т.д.).
type Authenticator struct {
	jwtSecret []byte
	userRepo  repositories.UserRepository
}

func NewAuthenticator(jwtSecret string, userRepo repositories.UserRepository) *Authenticator {
	return &Authenticator{
		jwtSecret: []byte(jwtSecret),
		userRepo:  userRepo,
	}
}

// ContextWithCaller прикрепляет профиль вызывающего к контексту запроса.
func ContextWithCaller(ctx context.Context, caller *models.User) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// CallerFromContext возвращает профиль аутентифицированного пользователя.
func CallerFromContext(ctx context.Context) (*models.User, error) {
	caller, ok := ctx.Value(callerContextKey).(*models.User)
	if !ok || caller == nil {
		return nil, errors.New("caller not found in request context")
	}
	return caller, nil
}

func (a *Authenticator) parseToken(r *http.Request) (int, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return 0, errors.New("authorization header is missing")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return 0, errors.New("authorization header must use the Bearer scheme")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token claims")
	}

	userIDFloat, ok := claims[jwtClaimUserID].(float64)
	if !ok {
		return 0, fmt.Errorf("missing '%s' claim in token", jwtClaimUserID)
	}
	userID := int(userIDFloat)
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user ID value in '%s' claim: %d", jwtClaimUserID, userID)
	}
	return userID, nil
}

func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.parseToken(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// Профиль читается из хранилища на каждый запрос: роль и
		// организация в токен не зашиваются.
		caller, err := a.userRepo.GetByID(r.Context(), nil, userID)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := ContextWithCaller(r.Context(), caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff пропускает глобальных администраторов и организаторов.
func (a *Authenticator) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := CallerFromContext(r.Context())
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !caller.IsGlobalAdmin() && caller.Role != models.RoleOrganizer {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireGlobalAdmin пропускает только глобальных администраторов.
func (a *Authenticator) RequireGlobalAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := CallerFromContext(r.Context())
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !caller.IsGlobalAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
