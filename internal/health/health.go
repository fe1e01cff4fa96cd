package health

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheProbe is satisfied by *cache.Cache
type CacheProbe interface {
	Enabled() bool
	IsHealthy(ctx context.Context) bool
}

type HealthChecker struct {
	db      Pinger
	cache   CacheProbe
	started time.Time
}

type HealthStatus struct {
	Status   string          `json:"status"`
	Database ComponentHealth `json:"database"`
	Cache    ComponentHealth `json:"cache"`
	Host     *HostStats      `json:"host,omitempty"`
	Uptime   string          `json:"uptime,omitempty"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	DiskPercent   float64 `json:"disk_percent"`
}

func NewHealthChecker(db Pinger, cache CacheProbe) *HealthChecker {
	return &HealthChecker{db: db, cache: cache, started: time.Now()}
}

// CheckBasic reports unhealthy only when the database is down; a missing
// or failing cache degrades the service but does not take it out of rotation.
func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)
	cacheHealth := h.checkCache(ctx)

	status := "healthy"
	switch {
	case dbHealth.Status != "healthy":
		status = "unhealthy"
	case cacheHealth.Status == "unhealthy":
		status = "degraded"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Cache:    cacheHealth,
	}
}

// CheckDetailed adds host resource usage
func (h *HealthChecker) CheckDetailed(ctx context.Context) HealthStatus {
	status := h.CheckBasic(ctx)
	status.Host = collectHostStats(ctx)
	status.Uptime = time.Since(h.started).Round(time.Second).String()
	return status
}

func (h *HealthChecker) checkDatabase(ctx context.Context) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{Status: "unhealthy", ResponseTime: responseTime}
	}
	return ComponentHealth{Status: "healthy", ResponseTime: responseTime}
}

func (h *HealthChecker) checkCache(ctx context.Context) ComponentHealth {
	if h.cache == nil || !h.cache.Enabled() {
		return ComponentHealth{Status: "disabled"}
	}
	start := time.Now()
	ok := h.cache.IsHealthy(ctx)
	responseTime := time.Since(start).Milliseconds()
	if !ok {
		return ComponentHealth{Status: "unhealthy", ResponseTime: responseTime}
	}
	return ComponentHealth{Status: "healthy", ResponseTime: responseTime}
}

func collectHostStats(ctx context.Context) *HostStats {
	stats := &HostStats{}
	if percents, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats.MemoryPercent = vm.UsedPercent
		stats.MemoryUsedMB = vm.Used / 1024 / 1024
	}
	if usage, err := disk.UsageWithContext(ctx, "/"); err == nil {
		stats.DiskPercent = usage.UsedPercent
	}
	return stats
}
