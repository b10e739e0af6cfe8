package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/balance-ledger/internal/api/httpx"
	"github.com/baharkarakas/balance-ledger/internal/api/validate"
	"github.com/baharkarakas/balance-ledger/internal/config"
	"github.com/baharkarakas/balance-ledger/internal/metrics"
	"github.com/baharkarakas/balance-ledger/internal/middleware"
	"github.com/baharkarakas/balance-ledger/internal/models"
	"github.com/baharkarakas/balance-ledger/internal/repository"
	"github.com/baharkarakas/balance-ledger/internal/services"
)

func NewRouter(cfg config.Config, us *services.UserService, bs *services.BalanceService, ts repository.Transactions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- users ----------
		r.Post("/users", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Balance float64 `json:"balance"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json body", nil)
				return
			}
			u, err := us.Create(r.Context(), req.Balance)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			httpx.WriteJSON(w, http.StatusCreated, u)
		})

		r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(w, r, "id")
			if !ok {
				return
			}
			u, err := us.FindByID(r.Context(), id)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, u)
		})

		// ---------- balance ----------
		r.Post("/balance/debit", func(w http.ResponseWriter, r *http.Request) {
			op, ok := decodeOperation(w, r)
			if !ok {
				return
			}
			info, err := bs.Debit(r.Context(), op.UserID, op.Amount, op.Description)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, info)
		})

		r.Post("/balance/credit", func(w http.ResponseWriter, r *http.Request) {
			op, ok := decodeOperation(w, r)
			if !ok {
				return
			}
			info, err := bs.Credit(r.Context(), op.UserID, op.Amount, op.Description)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, info)
		})

		r.Get("/balance/{userId}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(w, r, "userId")
			if !ok {
				return
			}
			info, err := bs.GetBalance(r.Context(), id)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, info)
		})

		r.Get("/balance/{userId}/recalculate", func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(w, r, "userId")
			if !ok {
				return
			}
			u, err := bs.Recalculate(r.Context(), id)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, u)
		})

		// ---------- transactions ----------
		r.Get("/transactions", func(w http.ResponseWriter, r *http.Request) {
			uid, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
			if err != nil || uid <= 0 {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "user_id required", nil)
				return
			}

			limit := 50
			offset := 0
			if v := r.URL.Query().Get("limit"); v != "" {
				if n, err := strconv.Atoi(v); err == nil && n > 0 { limit = n }
			}
			if v := r.URL.Query().Get("offset"); v != "" {
				if n, err := strconv.Atoi(v); err == nil && n >= 0 { offset = n }
			}

			txs, err := ts.History(r.Context(), uid, limit, offset)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			if txs == nil {
				txs = []models.Transaction{}
			}
			httpx.WriteJSON(w, http.StatusOK, txs)
		})

		r.Get("/transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(w, r, "id")
			if !ok {
				return
			}
			tx, err := ts.GetByID(r.Context(), id)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, tx)
		})
	})

	return r
}

type balanceOperation struct {
	UserID      int64   `json:"user_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

func decodeOperation(w http.ResponseWriter, r *http.Request) (balanceOperation, bool) {
	var op balanceOperation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json body", nil)
		return op, false
	}

	var errs validate.Errs
	if e := validate.PositiveID("user_id", op.UserID); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.Amount("amount", op.Amount); e != nil {
		errs = append(errs, *e)
	}
	if len(errs) > 0 {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", errs.Error(), errs)
		return op, false
	}
	return op, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", name+" must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

// writeServiceError maps service and storage failures to caller-facing
// categories. Unexpected storage errors are logged with their full context but
// never leak past a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
	case errors.Is(err, repository.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, "conflict", "conflict", nil)
	case errors.Is(err, services.ErrInsufficientFunds):
		httpx.WriteError(w, http.StatusBadRequest, "insufficient_funds", err.Error(), nil)
	case errors.Is(err, services.ErrInvalidAmount), errors.Is(err, repository.ErrInvalidTransaction):
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		slog.Error("request failed", "err", err, "request_id", middleware.RequestIDFrom(r.Context()))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
