package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defendnet/backend/flagsrvc"
	"github.com/defendnet/backend/roundsrvc"
	"github.com/defendnet/backend/scoresrvc"
	"github.com/defendnet/backend/settings"
	"github.com/defendnet/backend/teamsrvc"
)

type serverTestEnv struct {
	server   *httptest.Server
	flagRepo *flagsrvc.InMemRepo
}

func newServerTestEnv(t *testing.T) *serverTestEnv {
	t.Helper()
	teams := teamsrvc.NewInMemRepo()
	teams.AddTeam(teamsrvc.Team{ID: 1, Name: "Blue One", Color: teamsrvc.ColorBlue})
	teams.AddTeam(teamsrvc.Team{ID: 2, Name: "Blue Two", Color: teamsrvc.ColorBlue})
	teams.AddTeam(teamsrvc.Team{ID: 10, Name: "Red Cell", Color: teamsrvc.ColorRed})
	teams.AddTeam(teamsrvc.Team{ID: 20, Name: "White Cell", Color: teamsrvc.ColorWhite})

	flagRepo := flagsrvc.NewInMemRepo()
	rounds := roundsrvc.NewInMemRepo(teams)
	scoreSrvc := scoresrvc.NewSrvc(teams, rounds, flagRepo, scoresrvc.NewInMemAdjustmentRepo(), nil)
	flagSrvc := flagsrvc.NewSrvc(flagRepo, teams, settings.NewInMemRepo(), scoreSrvc, nil)

	server := httptest.NewServer(NewHttpServer(flagSrvc, scoreSrvc).Handler())
	t.Cleanup(server.Close)
	return &serverTestEnv{server: server, flagRepo: flagRepo}
}

func (e *serverTestEnv) request(t *testing.T, method, path string, body any, teamID string, role teamsrvc.Color) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if teamID != "" {
		req.Header.Set("X-Team-Id", teamID)
		req.Header.Set("X-User-Id", "100")
		req.Header.Set("X-Team-Role", string(role))
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func (e *serverTestEnv) plantFlag(t *testing.T, token string) flagsrvc.Flag {
	t.Helper()
	now := time.Now().UTC()
	flag := flagsrvc.Flag{
		ID:        uuid.New(),
		Platform:  flagsrvc.PlatformNix,
		Perm:      flagsrvc.PermUser,
		Data:      flagsrvc.FlagData{Token: token},
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
	}
	require.NoError(t, e.flagRepo.StoreFlag(context.Background(), flag))
	return flag
}

func TestSubmitFlagEndpoint(t *testing.T) {
	env := newServerTestEnv(t)
	env.plantFlag(t, "FLAG123")

	body := map[string]any{"team_id": 1, "flag": "FLAG123"}

	resp, envelope := env.request(t, http.MethodPost, "/api/flags/submit", body, "10", teamsrvc.ColorRed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", envelope["status"])
	data := envelope["data"].(map[string]any)
	assert.Equal(t, float64(1), data["team_id"])
	assert.Equal(t, float64(settings.DefaultRedFlagSubmissionPenalty), data["points_deducted"])

	// duplicate submission for the same blue team
	resp, envelope = env.request(t, http.MethodPost, "/api/flags/submit", body, "10", teamsrvc.ColorRed)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "error", envelope["status"])
	assert.Equal(t, flagsrvc.ErrCodeFlagAlreadySubmitted, envelope["code"])
}

func TestSubmitFlagRequiresCaller(t *testing.T) {
	env := newServerTestEnv(t)
	resp, envelope := env.request(t, http.MethodPost, "/api/flags/submit",
		map[string]any{"team_id": 1, "flag": "x"}, "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "error", envelope["status"])
}

func TestSubmitFlagUnknownToken(t *testing.T) {
	env := newServerTestEnv(t)
	resp, envelope := env.request(t, http.MethodPost, "/api/flags/submit",
		map[string]any{"team_id": 1, "flag": "NOPE"}, "10", teamsrvc.ColorRed)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, flagsrvc.ErrCodeFlagNotFound, envelope["code"])
}

func TestCreateFlagEndpoint(t *testing.T) {
	env := newServerTestEnv(t)
	body := map[string]any{"content": "FLAG456", "platform": "windows", "perm": "root"}

	resp, envelope := env.request(t, http.MethodPost, "/api/flags", body, "20", teamsrvc.ColorWhite)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "FLAG456", data["flag"])
	assert.Equal(t, "windows", data["platform"])
	assert.Equal(t, "root", data["perm"])

	// red team cannot plant flags
	resp, _ = env.request(t, http.MethodPost, "/api/flags", body, "10", teamsrvc.ColorRed)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListFlagsEndpoint(t *testing.T) {
	env := newServerTestEnv(t)
	env.plantFlag(t, "FLAG123")

	resp, envelope := env.request(t, http.MethodGet, "/api/flags", nil, "20", teamsrvc.ColorWhite)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := envelope["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "FLAG123", data[0].(map[string]any)["flag"])

	// blue teams have no business browsing flags
	resp, _ = env.request(t, http.MethodGet, "/api/flags", nil, "1", teamsrvc.ColorBlue)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMalformedBodyAnswersWithJsonEnvelope(t *testing.T) {
	env := newServerTestEnv(t)

	for _, path := range []string{"/api/flags", "/api/flags/submit", "/api/flags/adjust-score"} {
		req, err := http.NewRequest(http.MethodPost, env.server.URL+path, bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		req.Header.Set("X-Team-Id", "20")
		req.Header.Set("X-User-Id", "100")
		req.Header.Set("X-Team-Role", string(teamsrvc.ColorWhite))

		resp, err := env.server.Client().Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var envelope map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope), "path %s", path)
		resp.Body.Close()
		assert.Equal(t, "error", envelope["status"])
		assert.Equal(t, "invalid_request_body", envelope["code"])
	}
}

func TestScoreboardEndpoint(t *testing.T) {
	env := newServerTestEnv(t)
	env.plantFlag(t, "FLAG123")
	_, _ = env.request(t, http.MethodPost, "/api/flags/submit",
		map[string]any{"team_id": 1, "flag": "FLAG123"}, "10", teamsrvc.ColorRed)

	resp, envelope := env.request(t, http.MethodGet, "/api/scoreboard", nil, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows := envelope["data"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "Blue One", first["team_name"])
	assert.Equal(t, float64(settings.DefaultRedFlagSubmissionPenalty), first["red_penalty"])
	assert.Equal(t, float64(-settings.DefaultRedFlagSubmissionPenalty), first["total"])
}
