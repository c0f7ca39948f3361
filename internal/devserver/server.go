package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blackpearl/shipyard-console/internal/token"
	"github.com/blackpearl/shipyard-console/models"
)

// Config holds the dev server's settings.
type Config struct {
	SigningKey []byte
	TokenTTL   time.Duration
	Logger     *zap.Logger
}

// Server exposes the shipyard API surface over a Store.
type Server struct {
	store    Store
	verifier *token.Verifier
	signKey  []byte
	tokenTTL time.Duration
	validate *validator.Validate
	logger   *zap.Logger
}

// New creates a Server over the given store.
func New(store Store, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Server{
		store:    store,
		verifier: token.NewVerifier(cfg.SigningKey),
		signKey:  cfg.SigningKey,
		tokenTTL: ttl,
		validate: validator.New(),
		logger:   logger,
	}
}

type ctxClaimsKey struct{}

func claimsFrom(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(ctxClaimsKey{}).(*token.Claims)
	return claims
}

// Handler builds the full route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		// Tenders published for outside bidders; no credential needed.
		r.Get("/public/tenders", func(w http.ResponseWriter, r *http.Request) {
			tenders, err := s.store.ListTenders(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, "Could not load records")
				return
			}
			open := tenders[:0]
			for _, t := range tenders {
				if t.Status == "OPEN" {
					open = append(open, t)
				}
			}
			writeJSON(w, http.StatusOK, open)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.handleMe)
			r.Get("/dashboard/summary", s.handleSummary)

			r.Get("/users", s.listJSON(func(ctx context.Context) (any, error) {
				users, err := s.store.ListUsers(ctx)
				return users, err
			}))
			r.With(s.requireAdmin).Patch("/users/{id}/activate", s.byID(func(ctx context.Context, id int64) error {
				return s.store.SetUserActive(ctx, id, true)
			}))
			r.With(s.requireAdmin).Patch("/users/{id}/deactivate", s.byID(func(ctx context.Context, id int64) error {
				return s.store.SetUserActive(ctx, id, false)
			}))

			r.Get("/ship-orders", s.listJSON(func(ctx context.Context) (any, error) {
				orders, err := s.store.ListShipOrders(ctx)
				return orders, err
			}))
			r.Post("/ship-orders", s.handleCreateShipOrder)
			r.With(s.requireAdmin).Patch("/ship-orders/{id}/approve", s.byID(func(ctx context.Context, id int64) error {
				return s.store.SetShipOrderStatus(ctx, id, "APPROVED")
			}))
			r.With(s.requireAdmin).Patch("/ship-orders/{id}/reject", s.byID(func(ctx context.Context, id int64) error {
				return s.store.SetShipOrderStatus(ctx, id, "REJECTED")
			}))

			r.Get("/ship-repairs", s.listJSON(func(ctx context.Context) (any, error) {
				repairs, err := s.store.ListShipRepairs(ctx)
				return repairs, err
			}))
			r.Patch("/ship-repairs/{id}/status", s.handleRepairStatus)

			r.Get("/tenders", s.listJSON(func(ctx context.Context) (any, error) {
				tenders, err := s.store.ListTenders(ctx)
				return tenders, err
			}))
			r.With(s.requireAdmin).Patch("/tenders/{id}/close", s.byID(func(ctx context.Context, id int64) error {
				return s.store.SetTenderStatus(ctx, id, "CLOSED")
			}))

			r.Get("/inventory", s.listJSON(func(ctx context.Context) (any, error) {
				items, err := s.store.ListInventory(ctx)
				return items, err
			}))
			r.Patch("/inventory/{id}/restock", s.handleRestock)

			r.Get("/stock-exports", s.listJSON(func(ctx context.Context) (any, error) {
				exports, err := s.store.ListStockExports(ctx)
				return exports, err
			}))
			r.Post("/stock-exports", s.handleCreateExport)
			r.With(s.requireAdmin).Patch("/stock-exports/{id}/approve", s.byID(func(ctx context.Context, id int64) error {
				return s.store.SetStockExportStatus(ctx, id, "APPROVED")
			}))
			r.With(s.requireAdmin).Patch("/stock-exports/{id}/dispatch", s.byID(func(ctx context.Context, id int64) error {
				return s.store.SetStockExportStatus(ctx, id, "DISPATCHED")
			}))
			r.With(s.requireAdmin).Patch("/stock-exports/{id}/reject", s.byID(func(ctx context.Context, id int64) error {
				return s.store.SetStockExportStatus(ctx, id, "REJECTED")
			}))

			r.Get("/payments", s.listJSON(func(ctx context.Context) (any, error) {
				payments, err := s.store.ListPayments(ctx)
				return payments, err
			}))
			r.Patch("/payments/{id}/status", s.handlePaymentStatus)

			r.Get("/notifications", s.listJSON(func(ctx context.Context) (any, error) {
				notices, err := s.store.ListNotifications(ctx)
				return notices, err
			}))
			r.Patch("/notifications/{id}/read", s.byID(func(ctx context.Context, id int64) error {
				return s.store.MarkNotificationRead(ctx, id)
			}))
		})
	})
	return r
}

// requestID tags every request with a correlation id.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		s.logger.Debug("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

// requireAuth verifies the bearer credential and stashes its claims.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		credential := bearerToken(r)
		if credential == "" {
			writeError(w, http.StatusUnauthorized, "Missing or invalid authorization")
			return
		}
		claims, err := s.verifier.Verify(credential)
		if err != nil {
			s.logger.Warn("credential verification failed", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxClaimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin gates admin-only mutations.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r.Context())
		if claims == nil || claims.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "Admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.store.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	credential, err := token.Sign(s.signKey, user.Email, user.Role, user.Department, user.ID, s.tokenTTL)
	if err != nil {
		s.logger.Error("credential signing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Could not issue credential")
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: credential, User: user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid registration details")
		return
	}

	user, err := s.store.CreateUser(r.Context(), req)
	if errors.Is(err, ErrDuplicateEmail) {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not create user")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	user, err := s.store.UserByEmail(r.Context(), claims.Email())
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.Summary(r.Context())
	if err != nil {
		s.logger.Error("summary aggregation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Could not build summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCreateShipOrder(w http.ResponseWriter, r *http.Request) {
	var order models.ShipOrder
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	claims := claimsFrom(r.Context())
	order.UserID = claims.UserID
	order.UserEmail = claims.Email()

	created, err := s.store.CreateShipOrder(r.Context(), order)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not create order")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleCreateExport(w http.ResponseWriter, r *http.Request) {
	var export models.StockExport
	if err := json.NewDecoder(r.Body).Decode(&export); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	claims := claimsFrom(r.Context())
	export.UserID = claims.UserID
	export.UserEmail = claims.Email()

	created, err := s.store.CreateStockExport(r.Context(), export)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not create export")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleRepairStatus(w http.ResponseWriter, r *http.Request) {
	s.statusUpdate(w, r, s.store.SetShipRepairStatus)
}

func (s *Server) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	s.statusUpdate(w, r, s.store.SetPaymentStatus)
}

func (s *Server) handleRestock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}
	s.finish(w, s.store.Restock(r.Context(), id, body.Quantity))
}

// statusUpdate handles the PATCH {"status": ...} shape shared by repairs and
// payments.
func (s *Server) statusUpdate(w http.ResponseWriter, r *http.Request, update func(context.Context, int64, string) error) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}
	s.finish(w, update(r.Context(), id, body.Status))
}

// listJSON wraps a collection fetch into a GET handler.
func (s *Server) listJSON(fetch func(context.Context) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fetch(r.Context())
		if err != nil {
			s.logger.Error("collection fetch failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Could not load records")
			return
		}
		writeJSON(w, http.StatusOK, data)
	}
}

// byID wraps an id-keyed mutation into a PATCH handler.
func (s *Server) byID(mutate func(context.Context, int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		s.finish(w, mutate(r.Context(), id))
	}
}

func (s *Server) finish(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Resource not found")
	case err != nil:
		s.logger.Error("mutation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Request failed")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
