package health_test

import (
	"context"
	"errors"
	"testing"

	"timesheet-backend/internal/health"
)

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

type cacheState struct{ enabled, healthy bool }

func (p cacheState) Enabled() bool                      { return p.enabled }
func (p cacheState) IsHealthy(ctx context.Context) bool { return p.healthy }

func TestCheckBasic(t *testing.T) {
	tests := []struct {
		name  string
		db    error
		cache health.CacheProbe
		want  string
		cs    string
	}{
		{"all up", nil, cacheState{true, true}, "healthy", "healthy"},
		{"no cache", nil, nil, "healthy", "disabled"},
		{"cache disabled", nil, cacheState{false, false}, "healthy", "disabled"},
		{"cache down", nil, cacheState{true, false}, "degraded", "unhealthy"},
		{"database down", errors.New("refused"), cacheState{true, true}, "unhealthy", "healthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := health.NewHealthChecker(pinger{tt.db}, tt.cache).CheckBasic(context.Background())
			if got.Status != tt.want || got.Cache.Status != tt.cs {
				t.Errorf("status = %s, cache = %s", got.Status, got.Cache.Status)
			}
		})
	}
}

func TestCheckDetailed(t *testing.T) {
	got := health.NewHealthChecker(pinger{}, nil).CheckDetailed(context.Background())
	if got.Host == nil || got.Uptime == "" {
		t.Errorf("detailed = %+v", got)
	}
}
