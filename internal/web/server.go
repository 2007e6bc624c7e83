package web

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/peterkuimelis/orderflag/internal/log"
	"github.com/peterkuimelis/orderflag/internal/net"
	"github.com/peterkuimelis/orderflag/internal/store"
)

//go:embed static
var staticFiles embed.FS

// Config holds configuration for the web server.
type Config struct {
	PartiesFile string
	Notes       *store.Store // optional; note routes answer 503 without it
	Logger      *zap.Logger  // optional
}

// Server is the order flag web UI server.
type Server struct {
	partiesFile string
	notes       *store.Store
	logger      *zap.Logger
	mux         *http.ServeMux

	mu       sync.Mutex
	sessions map[string]*net.Session
}

// NewServer creates a new web server.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		partiesFile: cfg.PartiesFile,
		notes:       cfg.Notes,
		logger:      logger,
		mux:         http.NewServeMux(),
		sessions:    make(map[string]*net.Session),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.mux.HandleFunc("GET /api/parties", s.handleParties)
	s.mux.HandleFunc("POST /api/battles", s.handleNewBattle)
	s.mux.HandleFunc("DELETE /api/battles/{id}", s.handleDeleteBattle)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)

	s.mux.HandleFunc("GET /api/today", s.handleToday)
	s.notesRoute("/api/days/{day}/memo", s.dayMemo())
	s.notesRoute("/api/days/{day}/turns/{turn}/memo", s.turnMemo())
	s.notesRoute("/api/days/{day}/flags", s.dayFlags())
	s.notesRoute("/api/days/{day}/flower", s.whiteFlower())
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("web server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.mux)
}

// BattleCreated is the reply to POST /api/battles.
type BattleCreated struct {
	ID    string            `json:"id"`
	Reply net.ServerMessage `json:"reply"`
}

// handleNewBattle registers a session under a fresh ULID. A JSON body, if
// present, is applied as the "start" message.
func (s *Server) handleNewBattle(w http.ResponseWriter, r *http.Request) {
	var start net.ClientMessage
	if err := json.NewDecoder(r.Body).Decode(&start); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad start message: "+err.Error())
		return
	}
	start.Type = net.MsgStart

	id := ulid.Make().String()
	battleLog := s.logger.With(zap.String("battle", id))
	sess := net.NewSession(net.SessionConfig{
		PartiesFile: s.partiesFile,
		NewLogger:   func() log.EventLogger { return log.NewZapLogger(battleLog) },
	})

	reply, err := sess.Handle(start)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, BattleCreated{Reply: reply})
		return
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	battleLog.Info("battle created")
	writeJSON(w, http.StatusCreated, BattleCreated{ID: id, Reply: reply})
}

func (s *Server) handleDeleteBattle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "unknown battle")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(id string) *net.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// handleWebSocket speaks the session protocol for one battle: each text
// message is a ClientMessage and is answered with one ServerMessage.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("battle")
	sess := s.session(id)
	if sess == nil {
		http.Error(w, "unknown battle", http.StatusNotFound)
		return
	}

	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()
	connLog := s.logger.With(zap.String("battle", id))
	for {
		_, data, err := wsConn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				connLog.Debug("websocket read", zap.Error(err))
			}
			return
		}

		var reply net.ServerMessage
		var msg net.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			reply = net.ServerMessage{Type: net.MsgError, Error: "bad message: " + err.Error()}
		} else {
			reply, _ = sess.Handle(msg)
		}

		out, err := json.Marshal(reply)
		if err != nil {
			connLog.Error("encode reply", zap.Error(err))
			return
		}
		if err := wsConn.Write(ctx, websocket.MessageText, out); err != nil {
			connLog.Debug("websocket write", zap.Error(err))
			return
		}
	}
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	day := store.DayIndex(time.Now())
	writeJSON(w, http.StatusOK, map[string]any{"day": day, "label": store.DayLabels[day]})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func pathInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(r.PathValue(name))
}
