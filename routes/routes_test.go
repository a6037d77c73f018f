package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fgcbrasil/platform-backend/handlers"
	"github.com/fgcbrasil/platform-backend/live"
	"github.com/fgcbrasil/platform-backend/middleware"
	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/repositories"
	"github.com/fgcbrasil/platform-backend/services"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "routes-test-secret"

// stubUserRepo отдает профили для Authenticate; остальные методы в
// маршрутных тестах не вызываются.
type stubUserRepo struct {
	users map[int]*models.User
}

func (s *stubUserRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *stubUserRepo) Create(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
	return nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (s *stubUserRepo) List(ctx context.Context, filter repositories.ListUsersFilter) ([]models.User, error) {
	return nil, nil
}

func (s *stubUserRepo) ListRanking(ctx context.Context, role models.UserRole, minXP float64, limit int) ([]models.User, error) {
	return nil, nil
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id int, profileImageURL string, teamName *string) error {
	return nil
}

func (s *stubUserRepo) SetOrganization(ctx context.Context, exec repositories.SQLExecutor, userID, organizationID int) error {
	return nil
}

func (s *stubUserRepo) GetNamesByIDs(ctx context.Context, exec repositories.SQLExecutor, ids []int) (map[int]string, error) {
	return map[int]string{}, nil
}

func (s *stubUserRepo) AddXP(ctx context.Context, exec repositories.SQLExecutor, userID int, xp float64) error {
	return nil
}

func (s *stubUserRepo) AddChampionshipParticipation(ctx context.Context, exec repositories.SQLExecutor, userID, championshipID int) error {
	return nil
}

func (s *stubUserRepo) HasCompletedMission(ctx context.Context, exec repositories.SQLExecutor, userID, missionID int) (bool, error) {
	return false, nil
}

func (s *stubUserRepo) AddCompletedMission(ctx context.Context, exec repositories.SQLExecutor, userID, missionID int) error {
	return nil
}

func (s *stubUserRepo) ResetAllXP(ctx context.Context) (int64, error) {
	return 0, nil
}

type stubConfigRepo struct {
	cfg models.RankingConfig
}

func (s *stubConfigRepo) Get(ctx context.Context) (*models.RankingConfig, error) {
	copied := s.cfg
	return &copied, nil
}

func (s *stubConfigRepo) Upsert(ctx context.Context, cfg *models.RankingConfig) error {
	s.cfg = *cfg
	return nil
}

type routerFixture struct {
	router *chi.Mux

	adminID     int
	organizerID int
	fanID       int
}

// newRouterFixture собирает полное дерево маршрутов. Сервисы за
// обработчиками не нужны: проверяется только, кого пропускают gate-ы.
func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	orgID := 10
	repo := &stubUserRepo{users: map[int]*models.User{
		1: {ID: 1, Name: "Admin", Role: models.RoleAdmin},
		2: {ID: 2, Name: "Dono", Role: models.RoleOrganizer, OrganizationID: &orgID},
		3: {ID: 3, Name: "Fan", Role: models.RoleFan},
	}}

	auth := middleware.NewAuthenticator(testJWTSecret, repo)
	rankingService := services.NewRankingService(repo, &stubConfigRepo{cfg: models.RankingConfig{MinXPPlayers: 500, MinXPFans: 100}}, nil)

	router := chi.NewRouter()
	SetupRoutes(
		router,
		auth,
		handlers.NewAuthHandler(nil, testJWTSecret),
		handlers.NewUserHandler(nil),
		handlers.NewOrganizationHandler(nil),
		handlers.NewChampionshipHandler(nil, nil),
		handlers.NewRaffleHandler(nil),
		handlers.NewMissionHandler(nil),
		handlers.NewContributionHandler(nil),
		handlers.NewRankingHandler(rankingService),
		handlers.NewSupportHandler(nil),
		handlers.NewWebSocketHandler(live.NewHub()),
	)

	return &routerFixture{router: router, adminID: 1, organizerID: 2, fanID: 3}
}

func (f *routerFixture) tokenFor(t *testing.T, userID int) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func (f *routerFixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// Административные операции рифы закрыты от организаторов: билеты выдает и
// реестр сбрасывает только глобальный администратор.
func TestRaffleAdminRoutesRequireGlobalAdmin(t *testing.T) {
	f := newRouterFixture(t)
	organizerToken := f.tokenFor(t, f.organizerID)
	adminToken := f.tokenFor(t, f.adminID)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/raffle/participants", organizerToken).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/raffle/tickets", organizerToken).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/raffle/participants", "").Code)

	// Админ проходит gate: запрос без тела доходит до обработчика и
	// отклоняется уже валидацией.
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/raffle/participants", adminToken).Code)
}

func TestUserListingGates(t *testing.T) {
	f := newRouterFixture(t)
	organizerToken := f.tokenFor(t, f.organizerID)
	fanToken := f.tokenFor(t, f.fanID)

	// Списки игроков и фанатов — только для staff.
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/users/players", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/users/fans", "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/users/players", fanToken).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/users/fans", fanToken).Code)

	// Полный список пользователей организатору недоступен.
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/users/", organizerToken).Code)
}

func TestRankingConfigGates(t *testing.T) {
	f := newRouterFixture(t)
	organizerToken := f.tokenFor(t, f.organizerID)

	// Чтение порогов публично.
	rec := f.do(http.MethodGet, "/ranking/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "min_xp_players")

	// Запись и сброс — только глобальный администратор.
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPut, "/admin/ranking/config", "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPut, "/admin/ranking/config", organizerToken).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/admin/ranking/reset", organizerToken).Code)
}
