package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/qubitlab/qubitlab/internal/modules/evolution"
)

// SystemHandlers serves process-level status for the UI's diagnostics panel.
type SystemHandlers struct {
	log            zerolog.Logger
	startupTime    time.Time
	sessionManager *evolution.Manager
}

// NewSystemHandlers creates system monitoring handlers.
func NewSystemHandlers(log zerolog.Logger, sessionManager *evolution.Manager) *SystemHandlers {
	return &SystemHandlers{
		log:            log.With().Str("handler", "system").Logger(),
		startupTime:    time.Now(),
		sessionManager: sessionManager,
	}
}

// HandleStatus handles GET /api/system/status
func (h *SystemHandlers) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	status := map[string]any{
		"uptime_seconds": int64(time.Since(h.startupTime).Seconds()),
		"goroutines":     runtime.NumGoroutine(),
		"sessions":       h.sessionManager.Count(),
	}

	if cpuPercent, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(cpuPercent) > 0 {
		status["cpu_percent"] = cpuPercent[0]
	} else if err != nil {
		h.log.Debug().Err(err).Msg("CPU stats unavailable")
	}

	if memStat, err := mem.VirtualMemory(); err == nil {
		status["memory_percent"] = memStat.UsedPercent
	} else {
		h.log.Debug().Err(err).Msg("Memory stats unavailable")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode status response")
	}
}
