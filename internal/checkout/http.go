package checkout

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/internal/session"
	"Storefront/pkg/kit"
)

type Server struct {
	Service  *Service
	Sessions *cart.Sessions
	Log      *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

func (s *Server) Register(r chi.Router) {
	r.Get("/checkout/summary", s.summary)
	r.Post("/checkout", s.place)
	r.Get("/orders/{id}", s.get)
}

func (s *Server) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, Summarize(s.Sessions.Get(r.Context(), sid).Lines()))
}

type placeReq struct {
	Customer
	PaymentMethod string `json:"payment_method"`
}

func (s *Server) place(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	var req placeReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	o, err := s.Service.Place(r.Context(), sid, s.Sessions.Get(r.Context(), sid), req.Customer, req.PaymentMethod)
	if ve, isVE := IsValidation(err); isVE {
		kit.WriteError(w, r, http.StatusBadRequest, "validation failed", ve.Fields())
		return
	}
	switch {
	case err == nil:
		kit.WriteJSON(w, http.StatusCreated, o)
	case errors.Is(err, ErrEmptyCart):
		kit.WriteError(w, r, http.StatusBadRequest, "cart is empty", nil)
	case errors.Is(err, ErrUnknownPayment):
		kit.WriteError(w, r, http.StatusBadRequest, "unknown payment method", map[string]any{
			"payment_method": req.PaymentMethod,
		})
	case errors.Is(err, ErrPaymentUnavailable):
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "payment method unavailable", map[string]any{
			"payment_method": req.PaymentMethod,
		})
	default:
		s.log().Error("place order failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	id := chi.URLParam(r, "id")
	o, found, err := s.Service.OrderFor(r.Context(), sid, id)
	if err != nil {
		s.log().Error("get order failed", zap.Error(err), zap.String("order_id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, o)
}
