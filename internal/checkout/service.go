package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/pkg/kit"
)

// Recorder counts placed orders. kit.StateMetrics implements it.
type Recorder interface {
	OrderPlaced()
}

type Service struct {
	Orders    OrderStore
	Publisher Publisher
	Recorder  Recorder
	Log       *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewService(orders OrderStore, pub Publisher, rec Recorder, log *zap.Logger) *Service {
	if pub == nil {
		pub = NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		Orders:    orders,
		Publisher: pub,
		Recorder:  rec,
		Log:       log,
		now:       time.Now,
		newID:     func() string { return "o_" + uuid.NewString() },
	}
}

// Place turns the session's cart into an order. The ordered lines leave the
// cart only after the order is stored; the event is best-effort.
func (s *Service) Place(ctx context.Context, sessionID string, c *cart.Container, cust Customer, method string) (Order, error) {
	pm, err := ParsePaymentMethod(method)
	if err != nil {
		return Order{}, err
	}

	cust.normalize()
	if err := kit.Validate(cust); err != nil {
		return Order{}, err
	}

	lines := c.Lines()
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	o := Order{
		ID:            s.newID(),
		SessionID:     sessionID,
		Customer:      cust,
		PaymentMethod: pm,
		Lines:         orderLines(lines),
		Summary:       Summarize(lines),
		Status:        StatusPlaced,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.Orders.Create(ctx, o); err != nil {
		return Order{}, fmt.Errorf("store order: %w", err)
	}

	c.RemoveOrdered(ctx, lines)
	if s.Recorder != nil {
		s.Recorder.OrderPlaced()
	}

	if err := s.Publisher.Publish(ctx, newOrderPlaced(o)); err != nil {
		s.Log.Warn("publish order placed failed", zap.String("order_id", o.ID), zap.Error(err))
	}

	s.Log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.Int("items", o.Summary.ItemCount),
		zap.Int64("total_cents", o.Summary.TotalCents),
	)
	return o, nil
}

// OrderFor returns the order only when it belongs to sessionID.
func (s *Service) OrderFor(ctx context.Context, sessionID, id string) (Order, bool, error) {
	o, ok, err := s.Orders.Get(ctx, id)
	if err != nil || !ok {
		return Order{}, false, err
	}
	if o.SessionID != sessionID {
		return Order{}, false, nil
	}
	return o, true, nil
}

func IsValidation(err error) (*kit.ValidationError, bool) {
	var ve *kit.ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
