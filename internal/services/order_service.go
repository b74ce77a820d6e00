package services

import (
	"errors"

	"farmstand/internal/authz"
	"farmstand/internal/domain"
	"farmstand/internal/repos"
)

var (
	ErrEmptyOrder    = errors.New("order has no items")
	ErrBadStatus     = errors.New("unknown status value")
	ErrBuyerRequired = errors.New("buyer role required")
)

type OrderService struct {
	Orders *repos.OrderRepo
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	return &OrderService{Orders: orders}
}

// Place creates an order owned by the caller. The buyer identity always
// comes from the session, never from the payload.
func (s *OrderService) Place(caller authz.Caller, in repos.PlaceInput) (string, float64, error) {
	if caller.Anonymous() {
		return "", 0, authz.ErrDenied
	}
	if !caller.IsBuyer() {
		return "", 0, ErrBuyerRequired
	}
	if len(in.Items) == 0 {
		return "", 0, ErrEmptyOrder
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return "", 0, ErrEmptyOrder
		}
	}
	if in.DeliveryMethod == "" {
		in.DeliveryMethod = domain.DeliveryMethodPickup
	}
	return s.Orders.Place(caller, in)
}

// Transition validates the requested status value; edge legality and
// party checks happen inside the repo transaction.
func (s *OrderService) Transition(caller authz.Caller, orderID, next string) error {
	switch next {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusReady,
		domain.StatusCompleted, domain.StatusCancelled:
	default:
		return ErrBadStatus
	}
	return s.Orders.Transition(caller, orderID, next)
}

func (s *OrderService) AddNote(caller authz.Caller, orderID, note string) error {
	return s.Orders.AppendNote(caller, orderID, note)
}

func (s *OrderService) AddLocation(caller authz.Caller, orderID string, lat, lng float64) error {
	return s.Orders.AppendLocation(caller, orderID, lat, lng)
}

func (s *OrderService) Get(caller authz.Caller, orderID string) (*domain.Order, []repos.ItemDetail, error) {
	return s.Orders.Get(caller, orderID)
}

func (s *OrderService) History(caller authz.Caller) ([]domain.Order, error) {
	return s.Orders.ListForCaller(caller)
}

func (s *OrderService) Events(caller authz.Caller, orderID string) ([]domain.OrderEvent, error) {
	return s.Orders.Events(caller, orderID)
}
