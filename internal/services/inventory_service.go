package services

import (
	"database/sql"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
)

type InventoryService struct {
	Inv *repos.InventoryRepo
}

func NewInventoryService(inv *repos.InventoryRepo) *InventoryService {
	return &InventoryService{Inv: inv}
}

// CheckAvailability maps the ledger counts to IN_STOCK / LOW_STOCK /
// OUT_OF_STOCK. LOW_STOCK means the available quantity fell to or below the
// product's reorder level.
func (s *InventoryService) CheckAvailability(productID string) (domain.Availability, error) {
	onHand, reserved, reorder, err := s.Inv.Counts(productID)
	if err != nil {
		// No ledger row means nothing to sell.
		if err == sql.ErrNoRows {
			return domain.Availability{Status: "OUT_OF_STOCK", Available: 0}, nil
		}
		return domain.Availability{}, err
	}

	avail := onHand - reserved
	status := "OUT_OF_STOCK"
	switch {
	case avail > reorder:
		status = "IN_STOCK"
	case avail > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Available: avail}, nil
}
