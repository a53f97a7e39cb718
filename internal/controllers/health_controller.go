package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"pricewatch/internal/refresh/interfaces"
)

type HealthController struct {
	scheduler interfaces.SchedulerInterface
	startTime time.Time
}

type healthResponse struct {
	Status         string  `json:"status"`
	Uptime         string  `json:"uptime"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	RefreshRunning bool    `json:"refresh_running"`
	LastRefresh    string  `json:"last_refresh,omitempty"`
	NextRefresh    string  `json:"next_refresh"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:         "ok",
		Uptime:         formatDuration(uptime),
		UptimeSeconds:  uptime.Seconds(),
		RefreshRunning: hc.scheduler.IsRunning(),
		NextRefresh:    hc.scheduler.NextRefresh().Format(time.RFC3339),
	}
	if last := hc.scheduler.LastRefresh(); !last.IsZero() {
		resp.LastRefresh = last.Format(time.RFC3339)
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(scheduler interfaces.SchedulerInterface) *HealthController {
	return &HealthController{
		scheduler: scheduler,
		startTime: time.Now(),
	}
}
