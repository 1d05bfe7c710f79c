package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/dynasty-draft/go/internal/auth"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/engine"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/gateway/mocks"
	"github.com/mcdev12/dynasty-draft/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("team x: %w", engine.ErrNotYourTurn), http.StatusConflict, "NOT_YOUR_TURN"},
		{engine.ErrPickAlreadyMade, http.StatusConflict, "PICK_ALREADY_MADE"},
		{engine.ErrPlayerUnavailable, http.StatusConflict, "PLAYER_UNAVAILABLE"},
		{engine.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{engine.ErrDraftNotActive, http.StatusConflict, "DRAFT_NOT_ACTIVE"},
		{engine.ErrDraftNotFound, http.StatusNotFound, "DRAFT_NOT_FOUND"},
		{engine.ErrInvalidOrder, http.StatusBadRequest, "INVALID_ORDER"},
		{ErrBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
		{auth.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{errors.New("disk on fire"), http.StatusInternalServerError, codeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestErrorFromResponse(t *testing.T) {
	err := errorFromResponse(http.StatusConflict, ErrorResponse{Error: "not your turn", Code: "NOT_YOUR_TURN"})
	assert.ErrorIs(t, err, engine.ErrNotYourTurn)

	err = errorFromResponse(http.StatusTeapot, ErrorResponse{Error: "odd", Code: "WHAT"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "418")
}

type routeHarness struct {
	commands *mocks.MockCommands
	players  *mocks.MockPlayerSource
	verifier *auth.Verifier
	server   *httptest.Server
}

func newRouteHarness(t *testing.T, secret string) *routeHarness {
	ctrl := gomock.NewController(t)
	h := &routeHarness{
		commands: mocks.NewMockCommands(ctrl),
		players:  mocks.NewMockPlayerSource(ctrl),
		verifier: auth.NewVerifier(secret),
	}
	cfg := DefaultConfig()
	cfg.Verifier = h.verifier
	svc := NewService(cfg, h.commands, WithCommands(NewCommandHandler(h.commands, h.verifier, h.players, "nfl")))
	h.server = httptest.NewServer(svc.Handler())
	t.Cleanup(h.server.Close)
	return h
}

func (h *routeHarness) do(t *testing.T, method, path, token, body string) (*http.Response, ErrorResponse) {
	t.Helper()
	req, err := http.NewRequest(method, h.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var errBody ErrorResponse
	if resp.StatusCode >= 400 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	}
	return resp, errBody
}

func TestMakePickRoute(t *testing.T) {
	h := newRouteHarness(t, "")
	draftID, team, player := uuid.New(), uuid.New(), uuid.New()
	body := fmt.Sprintf(`{"team_id":%q,"player_id":%q,"expected_overall_pick":3}`, team, player)

	want := engine.PickRequest{DraftID: draftID, TeamID: team, PlayerID: player, Source: engine.SourceUser, ExpectedOverallPick: 3}
	h.commands.EXPECT().MakePick(gomock.Any(), want).
		Return(models.DraftPick{}, fmt.Errorf("pick 3: %w", engine.ErrNotYourTurn))
	resp, e := h.do(t, http.MethodPost, "/api/drafts/"+draftID.String()+"/picks", "", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NOT_YOUR_TURN", e.Code)

	h.commands.EXPECT().MakePick(gomock.Any(), want).
		Return(models.DraftPick{DraftID: draftID, TeamID: team, PlayerID: player, OverallPick: 1}, nil)
	resp, _ = h.do(t, http.MethodPost, "/api/drafts/"+draftID.String()+"/picks", "", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, e = h.do(t, http.MethodPost, "/api/drafts/"+draftID.String()+"/picks", "", `{"team_id":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "BAD_REQUEST", e.Code)
}

func TestMakePickRouteRequiresExpectedPick(t *testing.T) {
	h := newRouteHarness(t, "")
	draftID, team, player := uuid.New(), uuid.New(), uuid.New()

	// MakePick is never reached.
	for _, body := range []string{
		fmt.Sprintf(`{"team_id":%q,"player_id":%q}`, team, player),
		fmt.Sprintf(`{"team_id":%q,"player_id":%q,"expected_overall_pick":0}`, team, player),
		fmt.Sprintf(`{"team_id":%q,"player_id":%q,"expected_overall_pick":-2}`, team, player),
	} {
		resp, e := h.do(t, http.MethodPost, "/api/drafts/"+draftID.String()+"/picks", "", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, "BAD_REQUEST", e.Code, body)
	}
}

func TestStateRoutes(t *testing.T) {
	h := newRouteHarness(t, "")
	draftID := uuid.New()

	h.commands.EXPECT().GetState(gomock.Any(), draftID).Return(engine.Snapshot{}, engine.ErrDraftNotFound)
	resp, e := h.do(t, http.MethodGet, "/api/drafts/"+draftID.String()+"/state", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "DRAFT_NOT_FOUND", e.Code)

	resp, _ = h.do(t, http.MethodGet, "/api/drafts/not-a-uuid/state", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	snap := engine.Snapshot{DraftID: draftID, Status: models.DraftStatusActive, CurrentOverallPick: 4, DraftOrder: []uuid.UUID{uuid.New(), uuid.New()}}
	h.commands.EXPECT().ActiveDrafts(gomock.Any()).Return([]engine.Snapshot{snap}, nil).Times(2)

	resp, err := http.Get(h.server.URL + "/api/drafts/active")
	require.NoError(t, err)
	var summaries []DraftSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	resp.Body.Close()
	require.Len(t, summaries, 1)
	assert.Equal(t, 4, summaries[0].CurrentPick)
	assert.Equal(t, 2, summaries[0].TotalTeams)

	resp, err = http.Get(h.server.URL + "/api/drafts/active?view=full")
	require.NoError(t, err)
	var full []engine.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&full))
	resp.Body.Close()
	require.Len(t, full, 1)
	assert.Equal(t, draftID, full[0].DraftID)
}

func TestLifecycleRoutes(t *testing.T) {
	h := newRouteHarness(t, "")
	draftID := uuid.New()
	base := "/api/drafts/" + draftID.String()

	gomock.InOrder(
		h.commands.EXPECT().Pause(gomock.Any(), draftID, "injury timeout").Return(nil),
		h.commands.EXPECT().GetState(gomock.Any(), draftID).Return(engine.Snapshot{DraftID: draftID, Status: models.DraftStatusPaused}, nil),
	)
	resp, _ := h.do(t, http.MethodPost, base+"/pause", "", `{"reason":"injury timeout"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	h.commands.EXPECT().Resume(gomock.Any(), draftID).Return(fmt.Errorf("draft is ACTIVE: %w", engine.ErrInvalidTransition))
	resp, e := h.do(t, http.MethodPost, base+"/resume", "", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", e.Code)

	h.commands.EXPECT().Cancel(gomock.Any(), draftID, "").Return(nil)
	h.commands.EXPECT().GetState(gomock.Any(), draftID).Return(engine.Snapshot{DraftID: draftID, Status: models.DraftStatusCancelled}, nil)
	resp, _ = h.do(t, http.MethodPost, base+"/cancel", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	order := []uuid.UUID{uuid.New(), uuid.New()}
	h.commands.EXPECT().SetOrder(gomock.Any(), draftID, order).Return(engine.ErrInvalidOrder)
	resp, e = h.do(t, http.MethodPost, base+"/order", "", fmt.Sprintf(`{"draft_order":[%q,%q]}`, order[0], order[1]))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ORDER", e.Code)
}

func TestCreateSeedsPool(t *testing.T) {
	h := newRouteHarness(t, "")
	league := uuid.New()
	pool := []models.PoolPlayer{{PlayerID: uuid.New(), FullName: "Some Back", Position: models.PositionRB, Rank: 1}}

	h.players.EXPECT().ListDraftable(gomock.Any(), "nfl").Return(pool, nil)
	h.commands.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req engine.CreateDraftRequest) (engine.Snapshot, error) {
			if len(req.Players) != 1 {
				return engine.Snapshot{}, engine.ErrInvalidDraft
			}
			return engine.Snapshot{DraftID: uuid.New(), LeagueID: req.LeagueID, AvailablePlayers: len(req.Players)}, nil
		})

	body := fmt.Sprintf(`{"league_id":%q,"type":"SNAKE","total_rounds":2,"time_per_pick_seconds":60}`, league)
	resp, _ := h.do(t, http.MethodPost, "/api/drafts", "", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRoutesWithAuth(t *testing.T) {
	h := newRouteHarness(t, "s3cret")
	draftID, team, other := uuid.New(), uuid.New(), uuid.New()
	base := "/api/drafts/" + draftID.String()

	manager, err := h.verifier.Issue("m", team, "manager", time.Minute)
	require.NoError(t, err)
	commish, err := h.verifier.Issue("c", uuid.Nil, auth.RoleCommissioner, time.Minute)
	require.NoError(t, err)

	resp, _ := h.do(t, http.MethodPost, base+"/start", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = h.do(t, http.MethodPost, base+"/start", manager, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	h.commands.EXPECT().Start(gomock.Any(), draftID).Return(nil)
	h.commands.EXPECT().GetState(gomock.Any(), draftID).Return(engine.Snapshot{DraftID: draftID, Status: models.DraftStatusActive}, nil)
	resp, _ = h.do(t, http.MethodPost, base+"/start", commish, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// A manager can only pick for the team in the token.
	player := uuid.New()
	resp, e := h.do(t, http.MethodPost, base+"/picks", manager, fmt.Sprintf(`{"team_id":%q,"player_id":%q,"expected_overall_pick":1}`, other, player))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", e.Code)

	// team_id defaults to the token's team.
	h.commands.EXPECT().MakePick(gomock.Any(), engine.PickRequest{
		DraftID: draftID, TeamID: team, PlayerID: player, Source: engine.SourceUser, ExpectedOverallPick: 1,
	}).Return(models.DraftPick{DraftID: draftID, TeamID: team, PlayerID: player}, nil)
	resp, _ = h.do(t, http.MethodPost, base+"/picks", manager, fmt.Sprintf(`{"player_id":%q,"expected_overall_pick":1}`, player))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = h.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
