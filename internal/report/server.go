package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/export"
	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/loader"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Server exposes the analytics over HTTP: JSON reports, PNG charts, CSV
// export, and a websocket stream of refreshed reports.
type Server struct {
	svc      *Service
	upgrader websocket.Upgrader
}

// NewServer creates a Server over a Service.
func NewServer(svc *Service) *Server {
	return &Server{
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Handler returns the HTTP routing for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/strategies", s.handleStrategies)
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/charts/cumulative.png", s.handleCumulativeChart)
	mux.HandleFunc("/charts/weekday.png", s.handleWeekdayChart)
	mux.HandleFunc("/export.csv", s.handleExport)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe runs the HTTP server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("report server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"strategies": len(s.svc.Strategies()),
		"ts":         time.Now().UTC(),
	})
}

func (s *Server) handleStrategies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": s.svc.Strategies(),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name, f, err := requestParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rep, err := s.svc.Report(name, f)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleCumulativeChart(w http.ResponseWriter, r *http.Request) {
	name, f, err := requestParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rep, err := s.svc.Report(name, f)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	png, err := CumulativeProfitChart(name, rep.CumulativeProfit)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writePNG(w, png)
}

func (s *Server) handleWeekdayChart(w http.ResponseWriter, r *http.Request) {
	name, f, err := requestParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rep, err := s.svc.Report(name, f)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	png, err := WeekdayProfitChart(name, rep.Summary.ProfitByWeekday)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writePNG(w, png)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	name, f, err := requestParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	series, err := s.svc.Series(name, f)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"_filtered.csv"))
	if err := export.WriteCSV(w, s.svc.Schema(), series); err != nil {
		log.Error().Err(err).Str("strategy", name).Msg("csv export failed")
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("ws: upgrade failed")
		return
	}

	hub := s.svc.Hub()
	hub.Add(conn)
	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("ws: client connected")

	// Read loop exists only to detect disconnects; clients send nothing.
	go func() {
		defer hub.Remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// --- Helpers ---

// requestParams extracts the strategy name and filter from query params:
// strategy (required), from/to (2006-01-02, inclusive), weekday (name).
func requestParams(r *http.Request) (string, Filter, error) {
	q := r.URL.Query()

	name := q.Get("strategy")
	if name == "" {
		return "", Filter{}, fmt.Errorf("missing strategy parameter")
	}

	f := Filter{Weekday: q.Get("weekday")}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(loader.DateLayout, raw)
		if err != nil {
			return "", Filter{}, fmt.Errorf("invalid from date %q", raw)
		}
		f.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(loader.DateLayout, raw)
		if err != nil {
			return "", Filter{}, fmt.Errorf("invalid to date %q", raw)
		}
		f.To = t
	}
	return name, f, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write json response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		log.Debug().Err(err).Msg("write png response")
	}
}
