package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fgcbrasil/platform-backend/middleware"
	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFinalizeService возвращает заранее заданный результат; используется для
// проверки маппинга ошибок сервиса в HTTP-коды.
type stubFinalizeService struct {
	xp  float64
	err error

	lastChampionshipID int
	lastCallerID       int
}

func (s *stubFinalizeService) FinalizeStandard(ctx context.Context, championshipID, callerID int, input services.StandardFinalizeInput) (float64, error) {
	s.lastChampionshipID = championshipID
	s.lastCallerID = callerID
	return s.xp, s.err
}

func (s *stubFinalizeService) FinalizeCustom(ctx context.Context, championshipID, callerID int, input services.CustomFinalizeInput) (float64, error) {
	s.lastChampionshipID = championshipID
	s.lastCallerID = callerID
	return s.xp, s.err
}

func finalizeRequest(t *testing.T, handler http.HandlerFunc, championshipID string, caller *models.User) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(services.StandardFinalizeInput{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/championships/"+championshipID+"/finalize", bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", championshipID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if caller != nil {
		ctx = middleware.ContextWithCaller(ctx, caller)
	}

	rec := httptest.NewRecorder()
	handler(rec, req.WithContext(ctx))
	return rec
}

func TestFinalizeStandardResponse(t *testing.T) {
	stub := &stubFinalizeService{xp: 1060}
	h := NewChampionshipHandler(nil, stub)
	caller := &models.User{ID: 7, Role: models.RoleOrganizer}

	rec := finalizeRequest(t, h.FinalizeStandard, "42", caller)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 42, stub.lastChampionshipID)
	assert.Equal(t, 7, stub.lastCallerID)

	var resp struct {
		ChampionshipID int     `json:"championship_id"`
		Status         string  `json:"status"`
		XPDistributed  float64 `json:"xp_distributed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.ChampionshipID)
	assert.Equal(t, "finalized", resp.Status)
	assert.InDelta(t, 1060, resp.XPDistributed, 1e-9)
}

func TestFinalizeErrorMapping(t *testing.T) {
	testCases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "not found", serviceErr: services.ErrChampionshipNotFound, wantStatus: http.StatusNotFound},
		{name: "already finalized", serviceErr: services.ErrChampionshipAlreadyFinalized, wantStatus: http.StatusConflict},
		{name: "forbidden", serviceErr: services.ErrFinalizeForbidden, wantStatus: http.StatusForbidden},
		{name: "invalid placement", serviceErr: services.ErrPlacementInvalid, wantStatus: http.StatusBadRequest},
		{name: "invalid rank", serviceErr: services.ErrPlacementRankInvalid, wantStatus: http.StatusBadRequest},
		{name: "store contention", serviceErr: services.ErrStoreContention, wantStatus: http.StatusServiceUnavailable},
	}

	caller := &models.User{ID: 7, Role: models.RoleOrganizer}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewChampionshipHandler(nil, &stubFinalizeService{err: tc.serviceErr})
			rec := finalizeRequest(t, h.FinalizeStandard, "42", caller)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestFinalizeRejectsBadRequests(t *testing.T) {
	h := NewChampionshipHandler(nil, &stubFinalizeService{})
	caller := &models.User{ID: 7, Role: models.RoleOrganizer}

	rec := finalizeRequest(t, h.FinalizeStandard, "abc", caller)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = finalizeRequest(t, h.FinalizeStandard, "42", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
