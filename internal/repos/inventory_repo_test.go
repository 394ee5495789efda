package repos_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"stockroom/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// :memory: gives each connection its own database
	db.SetMaxOpenConns(1)
	return db
}

func counts(t *testing.T, inv *repos.InventoryRepo, productID string) (onHand, reserved int) {
	t.Helper()
	onHand, reserved, _, err := inv.Counts(productID)
	if err != nil {
		t.Fatalf("counts %s: %v", productID, err)
	}
	return onHand, reserved
}

func TestReserveGuard(t *testing.T) {
	db := memdb(t)
	inv := repos.NewInventoryRepo(db)

	// seeded: mon-27-qhd has 10 on hand, 0 reserved
	if err := inv.Reserve(db, "mon-27-qhd", 5); err != nil {
		t.Fatalf("reserve 5: %v", err)
	}
	err := inv.Reserve(db, "mon-27-qhd", 6)
	if !errors.Is(err, repos.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}

	// the failed reserve must not have touched the counters
	onHand, reserved := counts(t, inv, "mon-27-qhd")
	if onHand != 10 || reserved != 5 {
		t.Fatalf("want 10/5, got %d/%d", onHand, reserved)
	}

	// the remaining 5 are still claimable
	if err := inv.Reserve(db, "mon-27-qhd", 5); err != nil {
		t.Fatalf("reserve remaining 5: %v", err)
	}
	avail, err := inv.Available(db, "mon-27-qhd")
	if err != nil {
		t.Fatal(err)
	}
	if avail != 0 {
		t.Fatalf("want 0 available, got %d", avail)
	}
}

func TestReleaseBounds(t *testing.T) {
	db := memdb(t)
	inv := repos.NewInventoryRepo(db)

	if err := inv.Reserve(db, "kb-mech-87", 3); err != nil {
		t.Fatal(err)
	}
	// releasing more than reserved is a caller bug, not a user condition
	if err := inv.Release(db, "kb-mech-87", 4); !errors.Is(err, repos.ErrInvariant) {
		t.Fatalf("want ErrInvariant, got %v", err)
	}
	if err := inv.Release(db, "kb-mech-87", 3); err != nil {
		t.Fatalf("release 3: %v", err)
	}
	onHand, reserved := counts(t, inv, "kb-mech-87")
	if onHand != 25 || reserved != 0 {
		t.Fatalf("release should restore 25/0, got %d/%d", onHand, reserved)
	}
}

func TestCommitConsumesStock(t *testing.T) {
	db := memdb(t)
	inv := repos.NewInventoryRepo(db)

	// a commit with nothing reserved can never be valid
	if err := inv.Commit(db, "kb-mech-87", 1); !errors.Is(err, repos.ErrInvariant) {
		t.Fatalf("want ErrInvariant, got %v", err)
	}

	if err := inv.Reserve(db, "kb-mech-87", 2); err != nil {
		t.Fatal(err)
	}
	if err := inv.Commit(db, "kb-mech-87", 2); err != nil {
		t.Fatalf("commit: %v", err)
	}
	onHand, reserved := counts(t, inv, "kb-mech-87")
	if onHand != 23 || reserved != 0 {
		t.Fatalf("commit should leave 23/0, got %d/%d", onHand, reserved)
	}
}

func TestSetStockCannotUndercutReservations(t *testing.T) {
	db := memdb(t)
	inv := repos.NewInventoryRepo(db)

	// chair-ergo: 4 on hand; reserve 3 of them
	if err := inv.Reserve(db, "chair-ergo", 3); err != nil {
		t.Fatal(err)
	}
	// dropping on_hand below reserved trips the table CHECK
	if err := inv.SetStock("chair-ergo", 2, 1); err == nil {
		t.Fatal("want constraint error setting on_hand below reserved")
	}
	onHand, reserved := counts(t, inv, "chair-ergo")
	if onHand != 4 || reserved != 3 {
		t.Fatalf("counters changed after rejected save: %d/%d", onHand, reserved)
	}

	// raising stock is fine and leaves reservations alone
	if err := inv.SetStock("chair-ergo", 12, 2); err != nil {
		t.Fatalf("raise stock: %v", err)
	}
	onHand, reserved = counts(t, inv, "chair-ergo")
	if onHand != 12 || reserved != 3 {
		t.Fatalf("want 12/3, got %d/%d", onHand, reserved)
	}
}

func TestAvailableMissingRowIsZero(t *testing.T) {
	db := memdb(t)
	inv := repos.NewInventoryRepo(db)

	avail, err := inv.Available(db, "no-such-product")
	if err != nil {
		t.Fatalf("missing row should not error: %v", err)
	}
	if avail != 0 {
		t.Fatalf("want 0, got %d", avail)
	}
}

func TestLowStockCount(t *testing.T) {
	db := memdb(t)
	inv := repos.NewInventoryRepo(db)

	n, err := inv.LowStockCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("seed data should have no low stock, got %d", n)
	}

	// chair-ergo: 4 on hand, reorder level 2; reserving 3 leaves 1 available
	if err := inv.Reserve(db, "chair-ergo", 3); err != nil {
		t.Fatal(err)
	}
	n, err = inv.LowStockCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1 low-stock product, got %d", n)
	}
}
