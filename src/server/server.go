package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mxshs/betledger/src/audit"
	"mxshs/betledger/src/core"
	"mxshs/betledger/src/domain"
	"mxshs/betledger/src/parser"
)

const maxPageBytes = 16 << 20

type Handler struct {
	parser core.BetParser
	store  parser.Store
	logger *zap.Logger
}

// NewHandler wires the extractor and an optional store into HTTP handlers.
func NewHandler(p core.BetParser, store parser.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{parser: p, store: store, logger: logger}
}

type ParseResponse struct {
	Bets   []domain.Bet  `json:"bets"`
	Issues []audit.Issue `json:"issues"`
}

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Post("/api/v1/parse", h.Parse)

	return r
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "betledger",
	})
}

// Parse takes a raw settled-bets page as the request body and answers with
// the extracted bets and their audit findings.
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPageBytes))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("invalid request: %v", err))
		return
	}

	bets, err := h.parser.ParseBets(string(body))
	switch {
	case errors.Is(err, core.ErrEmptyDocument):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("failed to parse page", zap.Error(err))
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if h.store != nil && len(bets) > 0 {
		if err := h.store.InsertBets(r.Context(), bets); err != nil {
			h.logger.Error("failed to store bets", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to store bets")
			return
		}
	}

	if bets == nil {
		bets = []domain.Bet{}
	}
	issues := audit.Check(bets)
	if issues == nil {
		issues = []audit.Issue{}
	}

	h.logger.Info("parsed page",
		zap.String("requestId", middleware.GetReqID(r.Context())),
		zap.Int("bets", len(bets)),
		zap.Int("issues", len(issues)),
	)
	respondJSON(w, http.StatusOK, ParseResponse{Bets: bets, Issues: issues})
}

// Run serves handler on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 40 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
