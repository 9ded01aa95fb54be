package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"stock_watch/internal/models"
	view "stock_watch/internal/modules/view/service"
	"stock_watch/pkg/logger"

	"github.com/bytedance/sonic"
)

// Watchlist то, что HTTP-слою нужно от движка
type Watchlist interface {
	Synchronize(ctx context.Context) (models.Dataset, error)
	RequestAdd(ctx context.Context, code string) (models.Dataset, error)
	RequestRemove(ctx context.Context, code string) (models.Dataset, error)
	Snapshot() models.Snapshot
	Subscribe() (<-chan models.Snapshot, func())
}

type Handlers struct {
	wl    Watchlist
	state *State
}

func NewHandlers(wl Watchlist, state *State) *Handlers {
	return &Handlers{wl: wl, state: state}
}

type addRequest struct {
	Code string `json:"code"`
}

type watchlistResponse struct {
	Loading     bool                   `json:"loading"`
	Version     uint64                 `json:"version"`
	CommittedAt time.Time              `json:"committed_at"`
	Columns     []string               `json:"columns"`
	Rows        [][]string             `json:"rows"`
	Data        []models.MetricsRecord `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /livez", h.livez)
	mux.HandleFunc("GET /readyz", h.readyz)
	mux.HandleFunc("GET /healthz", h.healthz)

	mux.HandleFunc("GET /watchlist", h.list)
	mux.HandleFunc("POST /watchlist", h.add)
	mux.HandleFunc("DELETE /watchlist/{code}", h.remove)
	mux.HandleFunc("POST /watchlist/sync", h.sync)
	mux.HandleFunc("GET /watchlist/stream", h.stream)
}

func (h *Handlers) livez(w http.ResponseWriter, r *http.Request) {
	// liveness: процесс жив
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) readyz(w http.ResponseWriter, r *http.Request) {
	// readiness: была хотя бы одна успешная синхронизация
	if !h.state.Ready() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	snap := h.wl.Snapshot()
	resp := map[string]any{
		"ready":     h.state.Ready(),
		"loading":   snap.Loading,
		"version":   snap.Version,
		"rows":      len(snap.Dataset),
		"syncs":     h.state.Syncs(),
		"uptimeSec": int64(h.state.Uptime().Seconds()),
		"lastSyncUnix": func() int64 {
			t := h.state.LastSync()
			if t.IsZero() {
				return 0
			}
			return t.Unix()
		}(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toResponse(h.wl.Snapshot()))
}

func (h *Handlers) add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid body: " + err.Error()})
		return
	}
	if _, err := h.wl.RequestAdd(r.Context(), req.Code); err != nil {
		h.fail(w, "add", err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(h.wl.Snapshot()))
}

func (h *Handlers) remove(w http.ResponseWriter, r *http.Request) {
	if _, err := h.wl.RequestRemove(r.Context(), r.PathValue("code")); err != nil {
		h.fail(w, "remove", err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(h.wl.Snapshot()))
}

func (h *Handlers) sync(w http.ResponseWriter, r *http.Request) {
	if _, err := h.wl.Synchronize(r.Context()); err != nil {
		h.fail(w, "sync", err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(h.wl.Snapshot()))
}

func (h *Handlers) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrEmptyCode):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUnknownSymbol):
		status = http.StatusUnprocessableEntity
	case models.IsPersistence(err):
		status = http.StatusServiceUnavailable
	}
	logger.Error("[HTTP] %s: %v", op, err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func toResponse(snap models.Snapshot) watchlistResponse {
	table := view.Project(snap.Dataset)
	data := []models.MetricsRecord(snap.Dataset)
	if data == nil {
		data = []models.MetricsRecord{}
	}
	return watchlistResponse{
		Loading:     snap.Loading,
		Version:     snap.Version,
		CommittedAt: snap.CommittedAt,
		Columns:     table.Header,
		Rows:        table.Rows,
		Data:        data,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(v)
}
