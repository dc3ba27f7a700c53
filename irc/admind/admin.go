// Package admind exposes a read-only HTTP surface over a running IRC
// server: a JSON status API and Prometheus metrics. It only ever reads the
// immutable snapshots the server loop publishes, never the live state.
package admind

import (
	"context"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/presbrey/ircserv/irc"
	"github.com/presbrey/ircserv/irc/config"
)

type Server struct {
	IRC    *irc.Server
	Config *config.Config

	echoServer *echo.Echo
	onceSetup  sync.Once
}

func New(ircServer *irc.Server, cfg *config.Config) *Server {
	return &Server{IRC: ircServer, Config: cfg}
}

func (s *Server) setup() {
	s.onceSetup.Do(func() {
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true

		e.Use(metricsMiddleware())
		if s.Config.Admin.Username != "" {
			e.Use(middleware.BasicAuth(s.checkCredentials))
		}

		s.route(e)
		s.echoServer = e
	})
}

func (s *Server) route(e *echo.Echo) {
	e.GET("/api/status", s.handleStatus)
	e.GET("/api/clients", s.handleClients)
	e.GET("/api/channels", s.handleChannels)
	e.GET("/metrics", echo.WrapHandler(metricsHandler()))
}

// checkCredentials validates basic-auth credentials against the configured
// username and bcrypt password hash.
func (s *Server) checkCredentials(username, password string, _ echo.Context) (bool, error) {
	if username != s.Config.Admin.Username {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(s.Config.Admin.PasswordHash), []byte(password))
	return err == nil, nil
}

// Start runs the admin HTTP server; it blocks until Shutdown.
func (s *Server) Start() error {
	s.setup()
	return s.echoServer.Start(s.Config.AdminListenAddress())
}

// Shutdown stops the admin HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.echoServer == nil {
		return nil
	}
	return s.echoServer.Shutdown(ctx)
}

// Handler returns the underlying HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	s.setup()
	return s.echoServer
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.IRC.Snapshot())
}

func (s *Server) handleClients(c echo.Context) error {
	return c.JSON(http.StatusOK, s.IRC.Snapshot().Clients)
}

func (s *Server) handleChannels(c echo.Context) error {
	return c.JSON(http.StatusOK, s.IRC.Snapshot().Channels)
}
