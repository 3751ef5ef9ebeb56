package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"markestedt/prokeys/timing"
	"markestedt/prokeys/trigger"
)

// handleConfig handles GET and PUT requests for configuration
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetConfig(w, r)
	case http.MethodPut:
		s.handlePutConfig(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetConfig returns the current configuration
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.GetConfig()

	response := struct {
		SpeedWPM         int     `json:"speedWpm"`
		SpeedCategory    string  `json:"speedCategory"`
		DelaySeconds     float64 `json:"delaySeconds"`
		WindowsMode      bool    `json:"windowsMode"`
		TriggerKey       string  `json:"triggerKey"`
		Rearm            string  `json:"rearm"`
		IndentCompensate bool    `json:"indentCompensate"`
		IndentUnit       int     `json:"indentUnit"`
		DeveloperMode    bool    `json:"developerMode"`
	}{
		SpeedWPM:         cfg.Typing.SpeedWPM,
		SpeedCategory:    timing.SpeedCategory(cfg.Typing.SpeedWPM),
		DelaySeconds:     cfg.Typing.Delay,
		WindowsMode:      cfg.Typing.WindowsMode,
		TriggerKey:       cfg.Trigger.Combo,
		Rearm:            cfg.Trigger.Rearm,
		IndentCompensate: cfg.Indent.Compensate,
		IndentUnit:       cfg.Indent.Unit,
		DeveloperMode:    cfg.DeveloperMode,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handlePutConfig updates the configuration. Trigger and speed changes
// take effect on the next agent restart.
func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SpeedWPM         *int    `json:"speedWpm"`
		WindowsMode      *bool   `json:"windowsMode"`
		TriggerKey       *string `json:"triggerKey"`
		Rearm            *string `json:"rearm"`
		IndentCompensate *bool   `json:"indentCompensate"`
		IndentUnit       *int    `json:"indentUnit"`
		DeveloperMode    *bool   `json:"developerMode"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cfg := s.GetConfig()

	if req.SpeedWPM != nil {
		// Validation rejects out-of-range speeds before anything is
		// persisted; they are never clamped.
		if err := cfg.SetTypingSpeed(*req.SpeedWPM); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.TriggerKey != nil {
		if _, err := trigger.ParseCombo(*req.TriggerKey); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cfg.Trigger.Combo = *req.TriggerKey
	}
	if req.Rearm != nil {
		cfg.Trigger.Rearm = *req.Rearm
		if _, err := cfg.RearmPolicy(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.WindowsMode != nil {
		cfg.Typing.WindowsMode = *req.WindowsMode
	}
	if req.IndentCompensate != nil {
		cfg.Indent.Compensate = *req.IndentCompensate
	}
	if req.IndentUnit != nil {
		cfg.Indent.Unit = *req.IndentUnit
	}
	if req.DeveloperMode != nil {
		cfg.DeveloperMode = *req.DeveloperMode
	}

	if err := cfg.Save(); err != nil {
		slog.Error("Failed to save config", "error", err)
		http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
		return
	}

	s.UpdateConfig(cfg)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// handleStats returns statistics for the specified time range
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days := 7
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil && d > 0 {
			days = d
		}
	}

	overall, err := s.db.GetOverallStats(days)
	if err != nil {
		slog.Error("Failed to get overall stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	daily, err := s.db.GetDailyStats(days)
	if err != nil {
		slog.Error("Failed to get daily stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	strategy, err := s.db.GetStrategyStats(days)
	if err != nil {
		slog.Error("Failed to get strategy stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	response := map[string]any{
		"overall":  overall,
		"daily":    daily,
		"strategy": strategy,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleHistory handles GET and DELETE requests for session history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetHistory(w, r)
	case http.MethodDelete:
		s.handleDeleteHistory(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetHistory returns paginated session history
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	sessions, err := s.db.GetSessions(limit, offset)
	if err != nil {
		slog.Error("Failed to get sessions", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	total, err := s.db.GetSessionCount()
	if err != nil {
		slog.Error("Failed to get session count", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	response := map[string]any{
		"sessions": sessions,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleDeleteHistory deletes a session by ID
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	// Extract ID from path (e.g., /api/history/123)
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 4 {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := s.db.DeleteSession(id); err != nil {
		slog.Error("Failed to delete session", "error", err, "id", id)
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// handleStatus returns the current agent status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	status := s.status
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
