// Package stubserver is a local stand-in for the price prediction service. It
// honours the POST /predict contract so the client can be exercised without
// the trained model.
package stubserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/goliatone/go-rentcast/pkg/logging"
	"github.com/goliatone/go-rentcast/pkg/predict"
)

// DefaultAddr matches the endpoint the client targets by default.
const DefaultAddr = "127.0.0.1:5000"

// Server serves predictions from a PriceTable.
type Server struct {
	table  *PriceTable
	logger logging.Logger
	router *mux.Router
}

// Option configures the Server.
type Option func(*Server)

// WithPriceTable sets the table. A nil table makes every prediction fail with
// "Model not loaded".
func WithPriceTable(table *PriceTable) Option {
	return func(s *Server) { s.table = table }
}

// WithLogger sets the request logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds the server. CORS is open to every origin, as the page calling
// it is usually opened from the filesystem or another port.
func New(opts ...Option) *Server {
	s := &Server{
		logger: logging.Nop(),
		router: mux.NewRouter(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", predict.RequestIDHeader},
	})
	s.router.Use(c.Handler)
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/predict", s.handlePredict).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	preflight := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	s.router.HandleFunc("/predict", preflight).Methods(http.MethodOptions)
}

type failure struct {
	Error string `json:"error"`
}

type prediction struct {
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	Confidence float64 `json:"confidence"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(predict.RequestIDHeader)
	if s.table == nil {
		s.writeJSON(w, http.StatusInternalServerError, failure{Error: "Model not loaded"})
		return
	}

	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.logger.Warnw("prediction error", "request_id", requestID, "error", err)
		s.writeJSON(w, http.StatusBadRequest, failure{Error: fmt.Sprintf("invalid JSON body: %v", err)})
		return
	}
	s.logger.Infow("received data", "request_id", requestID, "data", data)

	if _, err := accommodates(data); err != nil {
		s.logger.Warnw("prediction error", "request_id", requestID, "error", err)
		s.writeJSON(w, http.StatusBadRequest, failure{Error: err.Error()})
		return
	}

	price := s.table.Price(stringField(data, "neighborhood"), stringField(data, "room_type"))
	s.writeJSON(w, http.StatusOK, prediction{
		Price:      price,
		Currency:   s.table.Currency,
		Confidence: s.table.Confidence,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"model_loaded": s.table != nil,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Errorw("write json response", "error", err)
	}
}

// accommodates reads the guest count the way the trained model's service
// did: missing means 1, numbers truncate toward zero, booleans count as 0 or
// 1, strings must hold an integer and an explicit null is rejected.
func accommodates(data map[string]any) (int, error) {
	raw, ok := data["accommodates"]
	if !ok {
		return 1, nil
	}
	switch v := raw.(type) {
	case nil:
		return 0, errors.New("accommodates must be a string or a number, not null")
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case float64:
		return int(math.Trunc(v)), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("invalid literal for accommodates: %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("invalid type for accommodates: %T", raw)
	}
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
