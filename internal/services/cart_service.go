package services

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"stockroom/internal/repos"
)

type CartService struct {
	DB    *sqlx.DB
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
	Inv   *repos.InventoryRepo
}

func NewCartService(db *sqlx.DB, carts *repos.CartRepo, prods *repos.ProductRepo, inv *repos.InventoryRepo) *CartService {
	return &CartService{DB: db, Carts: carts, Prods: prods, Inv: inv}
}

// AddResult reports what actually landed on the line. Capped means the
// requested quantity exceeded available stock and was trimmed rather than
// silently dropped.
type AddResult struct {
	Qty    int
	Capped bool
}

// Add puts qty more units of a product into the user's cart, merging with an
// existing line. The line total is capped at the product's available
// quantity; a product with nothing available is rejected outright.
func (s *CartService) Add(userID, productID string, qty int) (AddResult, error) {
	if qty < 1 {
		qty = 1
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return AddResult{}, err
	}
	if !p.Active {
		return AddResult{}, fmt.Errorf("product %s is not for sale", productID)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return AddResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cartID, err := s.Carts.ID(tx, userID)
	if err != nil {
		return AddResult{}, err
	}
	avail, err := s.Inv.Available(tx, productID)
	if err != nil {
		return AddResult{}, err
	}
	if avail == 0 {
		return AddResult{}, fmt.Errorf("%w: %s", ErrOutOfStock, productID)
	}
	have, err := s.Carts.LineQty(tx, cartID, productID)
	if err != nil {
		return AddResult{}, err
	}

	want := have + qty
	newQty := want
	if newQty > avail {
		newQty = avail
	}
	if err := s.Carts.SetLine(tx, cartID, productID, newQty); err != nil {
		return AddResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return AddResult{}, err
	}
	return AddResult{Qty: newQty, Capped: newQty < want}, nil
}

// Update replaces the quantity of an existing line, with the same
// availability cap as Add. A non-positive quantity removes the line. Only Add
// creates lines; updating a product that is not in the cart is sql.ErrNoRows,
// so a delisted product cannot sneak in through this path.
func (s *CartService) Update(userID, productID string, qty int) (AddResult, error) {
	tx, err := s.DB.Beginx()
	if err != nil {
		return AddResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cartID, err := s.Carts.ID(tx, userID)
	if err != nil {
		return AddResult{}, err
	}
	if qty <= 0 {
		if err := s.Carts.RemoveLine(tx, cartID, productID); err != nil {
			return AddResult{}, err
		}
		return AddResult{}, tx.Commit()
	}

	have, err := s.Carts.LineQty(tx, cartID, productID)
	if err != nil {
		return AddResult{}, err
	}
	if have == 0 {
		return AddResult{}, sql.ErrNoRows
	}

	avail, err := s.Inv.Available(tx, productID)
	if err != nil {
		return AddResult{}, err
	}
	if avail == 0 {
		return AddResult{}, fmt.Errorf("%w: %s", ErrOutOfStock, productID)
	}
	newQty := qty
	if newQty > avail {
		newQty = avail
	}
	if err := s.Carts.SetLine(tx, cartID, productID, newQty); err != nil {
		return AddResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return AddResult{}, err
	}
	return AddResult{Qty: newQty, Capped: newQty < qty}, nil
}

func (s *CartService) Remove(userID, productID string) error {
	cartID, err := s.Carts.ID(s.DB, userID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveLine(s.DB, cartID, productID)
}

func (s *CartService) Clear(userID string) error {
	cartID, err := s.Carts.ID(s.DB, userID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(s.DB, cartID)
}

type CartView struct {
	Items []repos.CartLine
	Total float64
}

// View returns the cart lines with totals computed from current product
// prices at read time.
func (s *CartService) View(userID string) (CartView, error) {
	cartID, err := s.Carts.ID(s.DB, userID)
	if err != nil {
		return CartView{}, err
	}
	lines, err := s.Carts.Lines(s.DB, cartID)
	if err != nil {
		return CartView{}, err
	}
	total := 0.0
	for _, l := range lines {
		total += l.Subtotal
	}
	return CartView{Items: lines, Total: total}, nil
}
