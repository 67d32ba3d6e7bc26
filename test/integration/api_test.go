package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"arrow-be/internal/bootstrap"
	"arrow-be/internal/config"
	"arrow-be/internal/dto"
	"arrow-be/internal/pkg/serverutils"
	"arrow-be/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			Mode:               config.ModeDemo,
			LogFilePath:        filepath.Join(dir, "app.log"),
			CorsAllowedOrigins: "*",
		},
		Auth: config.AuthConfig{
			JWTSecret:     "integration-secret",
			TokenTTL:      time.Hour,
			ResetTokenTTL: time.Hour,
		},
		Realtime: config.RealtimeConfig{
			LogFilePath: filepath.Join(dir, "realtime.log"),
		},
	}
}

func newDemoApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := demoConfig(t)
	container, err := bootstrap.NewContainer(cfg)
	require.NoError(t, err)
	t.Cleanup(container.Close)
	return server.New(cfg, container).GetApp()
}

type apiClient struct {
	t   *testing.T
	app *fiber.App
}

// call sends body as JSON and decodes the envelope data into out when out is non-nil.
func (c apiClient) call(method, path, token string, body interface{}, out interface{}) int {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil {
		envelope := serverutils.Response[json.RawMessage]{}
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&envelope))
		require.NoError(c.t, json.Unmarshal(envelope.Data, out))
	}
	return resp.StatusCode
}

func (c apiClient) signUp(email string) dto.AuthResponse {
	c.t.Helper()
	var res dto.AuthResponse
	status := c.call(http.MethodPost, "/api/auth/signup", "", dto.SignUpRequest{Email: email, Password: "secret123"}, &res)
	require.Equal(c.t, http.StatusCreated, status)
	return res
}

func TestDemoPairingFlow(t *testing.T) {
	api := apiClient{t: t, app: newDemoApp(t)}
	founder := api.signUp("founder@example.com")
	investor := api.signUp("investor@example.com")

	var seeded []dto.PitchResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/pitches/v1", investor.Token, nil, &seeded))
	assert.Len(t, seeded, 2)

	var pitch dto.PitchResponse
	status := api.call(http.MethodPost, "/api/pitches/v1", founder.Token, map[string]interface{}{
		"title": "AI Tutor Pro", "sector": "EdTech", "location": "NY", "equity": 8,
	}, &pitch)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "8", pitch.Equity)
	require.NotNil(t, pitch.OwnerId)
	assert.Equal(t, founder.User.Id, *pitch.OwnerId)

	var first dto.InterestResponse
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/api/pitches/v1/"+pitch.Id.String()+"/interest", investor.Token, nil, &first))
	assert.True(t, first.Created)

	var second dto.InterestResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodPost, "/api/pitches/v1/"+pitch.Id.String()+"/interest", investor.Token, nil, &second))
	assert.False(t, second.Created)
	assert.Equal(t, first.Conversation.Id, second.Conversation.Id)

	var shown dto.PitchResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/pitches/v1/"+pitch.Id.String(), investor.Token, nil, &shown))
	assert.Equal(t, 2, shown.InterestCount)

	convPath := "/api/conversations/v1/" + first.Conversation.Id.String() + "/messages"
	var msg dto.MessageResponse
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, convPath, founder.Token, dto.SendMessageRequest{Text: "Hi, thanks for the interest"}, &msg))
	assert.True(t, msg.Mine)

	var log []dto.MessageResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, convPath, investor.Token, nil, &log))
	require.Len(t, log, 1)
	assert.False(t, log[0].Mine)
	assert.Equal(t, "founder@example.com", log[0].SenderEmail)

	var convs []dto.ConversationResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/conversations/v1", investor.Token, nil, &convs))
	require.Len(t, convs, 1)
	assert.Equal(t, "Hi, thanks for the interest", convs[0].LastMessage)
	assert.Equal(t, "investor", convs[0].Role)
}

func TestDemoErrorMapping(t *testing.T) {
	api := apiClient{t: t, app: newDemoApp(t)}
	founder := api.signUp("founder@example.com")
	stranger := api.signUp("stranger@example.com")
	investor := api.signUp("investor@example.com")

	var pitch dto.PitchResponse
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/api/pitches/v1", founder.Token, dto.CreatePitchRequest{Title: "Mine"}, &pitch))
	var interest dto.InterestResponse
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/api/pitches/v1/"+pitch.Id.String()+"/interest", investor.Token, nil, &interest))

	convPath := "/api/conversations/v1/" + interest.Conversation.Id.String() + "/messages"

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{name: "no token", method: http.MethodGet, path: "/api/pitches/v1", want: http.StatusUnauthorized},
		{name: "bad token", method: http.MethodGet, path: "/api/pitches/v1", token: "garbage", want: http.StatusUnauthorized},
		{name: "wrong password", method: http.MethodPost, path: "/api/auth/signin", body: dto.SignInRequest{Email: "founder@example.com", Password: "nope"}, want: http.StatusUnauthorized},
		{name: "duplicate email", method: http.MethodPost, path: "/api/auth/signup", body: dto.SignUpRequest{Email: "Founder@Example.com", Password: "secret123"}, want: http.StatusBadRequest},
		{name: "self interest", method: http.MethodPost, path: "/api/pitches/v1/" + pitch.Id.String() + "/interest", token: founder.Token, want: http.StatusBadRequest},
		{name: "unknown pitch", method: http.MethodPost, path: "/api/pitches/v1/" + uuid.NewString() + "/interest", token: investor.Token, want: http.StatusNotFound},
		{name: "bad pitch id", method: http.MethodGet, path: "/api/pitches/v1/not-a-uuid", token: investor.Token, want: http.StatusBadRequest},
		{name: "empty message", method: http.MethodPost, path: convPath, token: investor.Token, body: dto.SendMessageRequest{Text: "   "}, want: http.StatusBadRequest},
		{name: "outsider reads log", method: http.MethodGet, path: convPath, token: stranger.Token, want: http.StatusForbidden},
		{name: "outsider sends", method: http.MethodPost, path: convPath, token: stranger.Token, body: dto.SendMessageRequest{Text: "hi"}, want: http.StatusForbidden},
		{name: "unknown conversation", method: http.MethodGet, path: "/api/conversations/v1/" + uuid.NewString() + "/messages", token: investor.Token, want: http.StatusNotFound},
		{name: "socket without upgrade", method: http.MethodGet, path: "/api/ws?page=feed", want: http.StatusUpgradeRequired},
		{name: "socket unknown page", method: http.MethodGet, path: "/api/ws?page=admin", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := apiClient{t: t, app: api.app}
			assert.Equal(t, tt.want, api.call(tt.method, tt.path, tt.token, tt.body, nil))
		})
	}
}

func TestDemoWipeAndSeed(t *testing.T) {
	api := apiClient{t: t, app: newDemoApp(t)}
	user := api.signUp("alice@example.com")

	require.Equal(t, http.StatusOK, api.call(http.MethodPost, "/api/demo/wipe", "", nil, nil))
	var pitches []dto.PitchResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/pitches/v1", user.Token, nil, &pitches))
	assert.Empty(t, pitches)

	require.Equal(t, http.StatusOK, api.call(http.MethodPost, "/api/demo/seed", "", nil, nil))
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/pitches/v1", user.Token, nil, &pitches))
	assert.Len(t, pitches, 2)

	var stats dto.PitchStatsResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/api/pitches/v1/stats", user.Token, nil, &stats))
	assert.Equal(t, int64(2), stats.PitchCount)
}
