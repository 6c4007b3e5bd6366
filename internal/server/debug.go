package server

import (
	"net/http"

	"github.com/RoboSupreme/my-hex-game/internal/engine"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/stats", h.handleStats)
	mux.HandleFunc("/debug/export", h.handleExport)
}

// /debug/stats - размер сгенерированного мира
func (h *DebugHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.WorldStats()
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, stats)
}

// /debug/export - скачать gzip-снимок всех чанков мира
func (h *DebugHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/gzip")
	w.Header().Set("Content-Disposition", `attachment; filename="world_snapshot.json.gz"`)
	if err := h.Service.ExportWorld(w); err != nil {
		internalError(w, err)
	}
}
