package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
)

type OrderService struct {
	DB     *sqlx.DB
	Carts  *repos.CartRepo
	Inv    *repos.InventoryRepo
	Orders *repos.OrderRepo
}

func NewOrderService(db *sqlx.DB, carts *repos.CartRepo, inv *repos.InventoryRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{DB: db, Carts: carts, Inv: inv, Orders: orders}
}

type CheckoutInput struct {
	ShippingAddress string
	ShippingPhone   string
	ShippingCost    float64
	TaxAmount       float64
	Notes           string
}

// newOrderNumber builds a globally unique order number with no store round
// trip that could race.
func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// Checkout converts the user's cart into a PENDING order inside a single
// transaction: every line is reserved against the ledger, prices are
// snapshotted into the order, and the cart is cleared. If any reservation
// fails the rollback undoes everything, so there are never partial orders or
// partial reservations.
func (s *OrderService) Checkout(userID string, in CheckoutInput) (*domain.Order, error) {
	tx, err := s.DB.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	cartID, err := s.Carts.ID(tx, userID)
	if err != nil {
		return nil, err
	}
	lines, err := s.Carts.Lines(tx, cartID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	for _, l := range lines {
		if err := s.Inv.Reserve(tx, l.ProductID, l.Qty); err != nil {
			return nil, err
		}
	}

	subtotal := 0.0
	for _, l := range lines {
		subtotal += float64(l.Qty) * l.Price
	}

	o := &domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     newOrderNumber(),
		UserID:          userID,
		Status:          domain.StatusPending,
		Subtotal:        subtotal,
		ShippingCost:    in.ShippingCost,
		TaxAmount:       in.TaxAmount,
		TotalAmount:     subtotal + in.ShippingCost + in.TaxAmount,
		ShippingAddress: in.ShippingAddress,
		ShippingPhone:   in.ShippingPhone,
		Notes:           in.Notes,
	}
	if err := s.Orders.Insert(tx, o); err != nil {
		return nil, err
	}
	for _, l := range lines {
		// unit_price frozen here; later catalog price changes do not touch it
		if err := s.Orders.InsertItem(tx, o.ID, l.ProductID, l.Qty, l.Price); err != nil {
			return nil, err
		}
	}
	if err := s.Carts.Clear(tx, cartID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	// Read back the committed row so the caller gets the store-stamped
	// order_date, never a header missing its creation timestamp.
	placed, err := s.Orders.Get(s.DB, o.ID)
	if err != nil {
		return nil, fmt.Errorf("order %s placed but unreadable: %w", o.ID, err)
	}
	return &placed, nil
}

// UpdateStatus drives the order state machine. Re-setting the current status
// is a no-op; terminal orders reject every transition; side effects fire once
// per distinct transition:
//
//	SHIPPED    stamps shipped_date the first time
//	DELIVERED  stamps delivered_date and commits each item's reservation
//	CANCELLED  releases each item's reservation
//	RETURNED   releases like CANCELLED (reachable only before delivery,
//	           so the reserved units are still on the ledger)
func (s *OrderService) UpdateStatus(orderID, next string) (*domain.Order, error) {
	if !domain.ValidStatus(next) {
		return nil, ErrInvalidStatus
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	o, err := s.Orders.Get(tx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == next {
		return &o, nil // no-op, side effects do not repeat
	}
	if domain.TerminalStatus(o.Status) {
		return nil, ErrIllegalTransition
	}

	switch next {
	case domain.StatusShipped:
		if err := s.Orders.StampShipped(tx, orderID); err != nil {
			return nil, err
		}
	case domain.StatusDelivered:
		if err := s.Orders.StampDelivered(tx, orderID); err != nil {
			return nil, err
		}
		items, err := s.Orders.Items(tx, orderID)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if err := s.Inv.Commit(tx, it.ProductID, it.Qty); err != nil {
				return nil, err
			}
		}
	case domain.StatusCancelled, domain.StatusReturned:
		items, err := s.Orders.Items(tx, orderID)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if err := s.Inv.Release(tx, it.ProductID, it.Qty); err != nil {
				return nil, err
			}
		}
	}

	if err := s.Orders.SetStatus(tx, orderID, next); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	updated, err := s.Orders.Get(s.DB, orderID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *OrderService) Get(orderID string) (domain.Order, []domain.OrderItem, error) {
	o, err := s.Orders.Get(s.DB, orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	items, err := s.Orders.Items(s.DB, orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

func (s *OrderService) ListForUser(userID string) ([]domain.Order, error) {
	return s.Orders.ListByUser(userID)
}
