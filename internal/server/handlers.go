package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/haskel/sysbar/internal/alert"
	"github.com/haskel/sysbar/internal/config"
	"github.com/haskel/sysbar/internal/diskscan"
	"github.com/haskel/sysbar/internal/format"
	"github.com/haskel/sysbar/internal/monitor"
	"github.com/haskel/sysbar/internal/trend"
)

type InfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	UptimeSec int64  `json:"uptime_sec"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ReadyResponse struct {
	Ready   bool   `json:"ready"`
	Message string `json:"message,omitempty"`
}

// SummaryResponse is the snapshot rendered for display.
type SummaryResponse struct {
	Health    string `json:"health"`
	CPU       string `json:"cpu"`
	CPULevel  string `json:"cpu_level"`
	RAM       string `json:"ram"`
	RAMLevel  string `json:"ram_level"`
	Disk      string `json:"disk"`
	NetUp     string `json:"net_up"`
	NetDown   string `json:"net_down"`
	Battery   string `json:"battery,omitempty"`
	GPU       string `json:"gpu,omitempty"`
	Thermal   string `json:"thermal"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

type HistoryResponse struct {
	Metric     monitor.Metric `json:"metric"`
	IntervalMS int64          `json:"interval_ms"`
	Capacity   int            `json:"capacity"`
	Values     []float64      `json:"values"`
	Trend      trend.Summary  `json:"trend"`
}

type IntervalRequest struct {
	IntervalMS int64 `json:"interval_ms"`
}

type IntervalResponse struct {
	IntervalMS int64 `json:"interval_ms"`
}

type DiskResponse struct {
	Entries    []diskscan.Entry `json:"entries"`
	Total      uint64           `json:"total_bytes"`
	DurationMS int64            `json:"duration_ms"`
}

type AlertsResponse struct {
	Enabled bool          `json:"enabled"`
	Alerts  []alert.Alert `json:"alerts"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

const notReadyMessage = "no snapshot published yet"

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, InfoResponse{
		Name:      "sysbar",
		Version:   s.version,
		UptimeSec: int64(time.Since(s.startedAt).Seconds()),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.sampler.CurrentSnapshot() == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{Message: notReadyMessage})
		return
	}
	s.writeJSON(w, http.StatusOK, ReadyResponse{Ready: true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.sampler.CurrentSnapshot()
	if snap == nil {
		s.writeError(w, http.StatusServiceUnavailable, notReadyMessage)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap := s.sampler.CurrentSnapshot()
	if snap == nil {
		s.writeError(w, http.StatusServiceUnavailable, notReadyMessage)
		return
	}
	s.writeJSON(w, http.StatusOK, Summarize(snap))
}

// Summarize renders a snapshot with human-readable values.
func Summarize(snap *monitor.SystemSnapshot) SummaryResponse {
	ram := snap.RAM.UsagePercent()
	resp := SummaryResponse{
		Health:    format.Health(snap.CPU.TotalUsage, ram).String(),
		CPU:       format.Percent(snap.CPU.TotalUsage),
		CPULevel:  format.UsageLevel(snap.CPU.TotalUsage).String(),
		RAM:       format.Bytes(snap.RAM.Used) + " / " + format.Bytes(snap.RAM.Total),
		RAMLevel:  format.UsageLevel(ram).String(),
		Disk:      format.Bytes(snap.Disk.Used) + " / " + format.Bytes(snap.Disk.Total),
		NetUp:     format.Speed(snap.Network.UpSpeed),
		NetDown:   format.Speed(snap.Network.DownSpeed),
		Thermal:   snap.Info.ThermalState,
		Uptime:    format.Uptime(snap.Info.Uptime),
		Timestamp: snap.Timestamp.Format(time.RFC3339),
	}
	if snap.Battery.HasBattery {
		resp.Battery = format.Percent(float64(snap.Battery.Level) / 100)
		if snap.Battery.IsCharging {
			resp.Battery += " (charging)"
		}
	}
	if snap.GPU.Available {
		resp.GPU = format.Percent(snap.GPU.Usage)
	}
	return resp
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	metric := monitor.Metric(r.PathValue("metric"))

	values, ok := s.sampler.History(metric)
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown metric: "+string(metric))
		return
	}

	interval := s.sampler.Interval()
	s.writeJSON(w, http.StatusOK, HistoryResponse{
		Metric:     metric,
		IntervalMS: interval.Milliseconds(),
		Capacity:   s.sampler.HistoryCapacity(),
		Values:     values,
		Trend:      trend.Analyze(values, interval, trend.Options{}),
	})
}

func (s *Server) handleGetInterval(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, IntervalResponse{IntervalMS: s.sampler.Interval().Milliseconds()})
}

func (s *Server) handleSetInterval(w http.ResponseWriter, r *http.Request) {
	var req IntervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.IntervalMS < config.MinIntervalMS || req.IntervalMS > config.MaxIntervalMS {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("interval_ms must be in [%d, %d], got %d", config.MinIntervalMS, config.MaxIntervalMS, req.IntervalMS))
		return
	}

	if err := s.sampler.SetInterval(time.Duration(req.IntervalMS) * time.Millisecond); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, IntervalResponse{IntervalMS: s.sampler.Interval().Milliseconds()})
}

func (s *Server) handleDisk(w http.ResponseWriter, r *http.Request) {
	if s.scanner == nil {
		s.writeError(w, http.StatusNotImplemented, "disk scanning is not configured")
		return
	}

	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	start := time.Now()
	entries, err := s.scanner.Scan(r.Context())
	if err != nil {
		if errors.Is(err, r.Context().Err()) {
			return
		}
		s.logger.Error("disk scan failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "disk scan failed")
		return
	}

	var total uint64
	for _, e := range entries {
		total += e.Size
	}

	s.writeJSON(w, http.StatusOK, DiskResponse{
		Entries:    entries,
		Total:      total,
		DurationMS: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	resp := AlertsResponse{Alerts: []alert.Alert{}}
	if s.alerts != nil {
		resp.Enabled = s.alerts.Enabled()
		if recent := s.alerts.Recent(); recent != nil {
			resp.Alerts = recent
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response",
			"error", err,
			"status", status,
		)
	}
}
