package server

import (
	"encoding/json"
	"errors"
	"net/http"
	_ "net/http/pprof" // Profiling

	"github.com/RoboSupreme/my-hex-game/internal/engine"
	"github.com/RoboSupreme/my-hex-game/internal/network"
	"github.com/RoboSupreme/my-hex-game/internal/version"
	"github.com/RoboSupreme/my-hex-game/pkg/api"
	"github.com/RoboSupreme/my-hex-game/pkg/logger"
)

type Server struct {
	Engine *engine.GameService
	Hub    *network.Broadcaster
	Port   string
}

func New(engine *engine.GameService, port string) *Server {
	return &Server{
		Engine: engine,
		Hub:    network.NewBroadcaster(),
		Port:   port,
	}
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	mux := http.DefaultServeMux

	// Регистрируем роуты
	mux.HandleFunc("/api/state", enableCORS(s.handleState))
	mux.HandleFunc("/api/actions", enableCORS(s.handleActions))
	mux.HandleFunc("/api/action", enableCORS(s.handleAction))
	mux.HandleFunc("/api/ask", enableCORS(s.handleAsk))
	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))

	// Debug Routes
	debugHandler := NewDebugHandler(s.Engine)
	debugHandler.RegisterRoutes(mux)

	logger.Log.Infof("🌍 Hex World Server running on :%s", s.Port)
	return http.ListenAndServe(":"+s.Port, mux)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// handleState - GET /api/state, полный снимок игрока и окружения.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.Engine.State(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, state)
}

// handleActions - GET /api/actions, доступные сейчас текстовые команды.
func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	actions, err := s.Engine.PossibleActions(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, api.ActionsResponse{Actions: actions})
}

// handleAction - POST /api/action, применить одну команду.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	var req api.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Action == "" {
		http.Error(w, "action is required", http.StatusBadRequest)
		return
	}

	result, err := s.Engine.ApplyAction(r.Context(), req.Action)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, result)
}

// handleAsk - POST /api/ask, вопрос духу мира (RAG по лору).
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	var req api.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	answer, err := s.Engine.AnswerQuestion(r.Context(), req.Question)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, api.AskResponse{Answer: answer})
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("Upgrade error:", err)
		return
	}

	client := NewClient(s.Engine, s.Hub, conn)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, version.Info())
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Warn("write response failed")
	}
}

func internalError(w http.ResponseWriter, err error) {
	// Отмену запроса клиентом не считаем ошибкой сервера.
	if errors.Is(err, http.ErrHandlerTimeout) {
		http.Error(w, "timeout", http.StatusGatewayTimeout)
		return
	}
	logger.Log.WithError(err).Error("Ошибка обработки запроса")
	http.Error(w, "internal error", http.StatusInternalServerError)
}
