package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ok(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func TestReady(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(s *Service)
		wantReady bool
		want      Status
	}{
		{"no checks", func(s *Service) {}, true, StatusHealthy},
		{"all healthy", func(s *Service) {
			s.Register("database", ok)
			s.Register("cache", ok)
		}, true, StatusHealthy},
		{"optional down", func(s *Service) {
			s.Register("database", ok)
			s.RegisterOptional("speech", down)
		}, true, StatusDegraded},
		{"required down", func(s *Service) {
			s.Register("database", down)
			s.RegisterOptional("speech", down)
		}, false, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService("test", zap.NewNop())
			tt.setup(s)

			resp := s.Ready(context.Background())

			assert.Equal(t, tt.wantReady, resp.Ready)
			assert.Equal(t, tt.want, resp.Status)
		})
	}
}

func TestReady_ChecksAreSortedByName(t *testing.T) {
	s := NewService("test", zap.NewNop())
	s.Register("redis", ok)
	s.Register("database", down)

	resp := s.Ready(context.Background())

	require.Len(t, resp.Checks, 2)
	assert.Equal(t, "database", resp.Checks[0].Name)
	assert.Equal(t, "connection refused", resp.Checks[0].Message)
	assert.Equal(t, "redis", resp.Checks[1].Name)
}

func TestHandler(t *testing.T) {
	s := NewService("1.2.3", zap.NewNop())
	s.Register("database", down)
	app := fiber.New()
	NewHandler(s).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/live", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var live LiveResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&live))
	assert.Equal(t, "1.2.3", live.Version)

	resp, err = app.Test(httptest.NewRequest("GET", "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
