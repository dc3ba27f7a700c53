package admind

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/presbrey/ircserv/irc"
	"github.com/presbrey/ircserv/irc/config"
)

func newTestAdmin(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Password = "pw"
	if mutate != nil {
		mutate(cfg)
	}
	return New(irc.NewServer(cfg), cfg)
}

func TestStatusEndpoint(t *testing.T) {
	admin := newTestAdmin(t, nil)

	rec := httptest.NewRecorder()
	admin.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap irc.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "ircserv", snap.ServerName)
	assert.NotEmpty(t, snap.StartTime)
	assert.Empty(t, snap.Clients)
	assert.Empty(t, snap.Channels)
}

func TestClientsAndChannelsEndpoints(t *testing.T) {
	admin := newTestAdmin(t, nil)

	for _, path := range []string{"/api/clients", "/api/channels"} {
		rec := httptest.NewRecorder()
		admin.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	admin := newTestAdmin(t, nil)

	rec := httptest.NewRecorder()
	admin.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ircserv_connected_clients"),
		"metrics output should carry the IRC gauges")
}

func TestBasicAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("opensesame"), bcrypt.MinCost)
	require.NoError(t, err)

	admin := newTestAdmin(t, func(cfg *config.Config) {
		cfg.Admin.Username = "admin"
		cfg.Admin.PasswordHash = string(hash)
	})

	rec := httptest.NewRecorder()
	admin.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.SetBasicAuth("admin", "opensesame")
	rec = httptest.NewRecorder()
	admin.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.SetBasicAuth("admin", "wrong")
	rec = httptest.NewRecorder()
	admin.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
