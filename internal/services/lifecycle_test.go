package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
	"stockroom/internal/services"
)

func placeOrder(t *testing.T, db *sqlx.DB, productID string, qty int) (*services.OrderService, *repos.InventoryRepo, *domain.Order) {
	t.Helper()
	cartSvc, _ := newCartService(db)
	orderSvc, inv := newOrderService(db)

	_, err := cartSvc.Add("u-dana", productID, qty)
	require.NoError(t, err)
	o, err := orderSvc.Checkout("u-dana", services.CheckoutInput{
		ShippingAddress: "8125 Paint Branch Dr",
		ShippingPhone:   "301-555-0142",
	})
	require.NoError(t, err)
	return orderSvc, inv, o
}

func TestLifecycleDeliveryCommitsStock(t *testing.T) {
	db := memdb(t)
	orderSvc, inv, o := placeOrder(t, db, "kb-mech-87", 2)

	o2, err := orderSvc.UpdateStatus(o.ID, domain.StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, o2.Status)

	o2, err = orderSvc.UpdateStatus(o.ID, domain.StatusShipped)
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, o2.Status)
	require.NotEmpty(t, o2.ShippedDate)

	o2, err = orderSvc.UpdateStatus(o.ID, domain.StatusDelivered)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, o2.Status)
	require.NotEmpty(t, o2.DeliveredDate)

	// delivery consumed the reservation: 25 - 2 on hand, nothing reserved
	onHand, reserved, _, err := inv.Counts("kb-mech-87")
	require.NoError(t, err)
	require.Equal(t, 23, onHand)
	require.Equal(t, 0, reserved)

	// re-delivering is a no-op, not a second commit
	o3, err := orderSvc.UpdateStatus(o.ID, domain.StatusDelivered)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, o3.Status)
	onHand, reserved, _, err = inv.Counts("kb-mech-87")
	require.NoError(t, err)
	require.Equal(t, 23, onHand)
	require.Equal(t, 0, reserved)

	// delivered is terminal
	_, err = orderSvc.UpdateStatus(o.ID, domain.StatusConfirmed)
	require.ErrorIs(t, err, services.ErrIllegalTransition)
}

func TestLifecycleCancelReleasesStock(t *testing.T) {
	db := memdb(t)
	orderSvc, inv, o := placeOrder(t, db, "paper-a4", 5)

	o2, err := orderSvc.UpdateStatus(o.ID, domain.StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, o2.Status)

	// cancellation returns the units to the pool without consuming any
	onHand, reserved, _, err := inv.Counts("paper-a4")
	require.NoError(t, err)
	require.Equal(t, 200, onHand)
	require.Equal(t, 0, reserved)

	_, err = orderSvc.UpdateStatus(o.ID, domain.StatusProcessing)
	require.ErrorIs(t, err, services.ErrIllegalTransition)
}

func TestLifecycleReturnReleasesStock(t *testing.T) {
	db := memdb(t)
	orderSvc, inv, o := placeOrder(t, db, "mon-27-qhd", 1)

	_, err := orderSvc.UpdateStatus(o.ID, domain.StatusShipped)
	require.NoError(t, err)

	o2, err := orderSvc.UpdateStatus(o.ID, domain.StatusReturned)
	require.NoError(t, err)
	require.Equal(t, domain.StatusReturned, o2.Status)

	onHand, reserved, _, err := inv.Counts("mon-27-qhd")
	require.NoError(t, err)
	require.Equal(t, 10, onHand)
	require.Equal(t, 0, reserved)
}

func TestLifecycleRejectsUnknownStatus(t *testing.T) {
	db := memdb(t)
	orderSvc, _, o := placeOrder(t, db, "paper-a4", 1)

	_, err := orderSvc.UpdateStatus(o.ID, "MISPLACED")
	require.ErrorIs(t, err, services.ErrInvalidStatus)

	// the order is untouched
	o2, _, err := orderSvc.Get(o.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, o2.Status)
}
