package services

import (
	"stockroom/internal/repos"
)

type StatsService struct {
	Orders *repos.OrderRepo
	Inv    *repos.InventoryRepo
}

func NewStatsService(orders *repos.OrderRepo, inv *repos.InventoryRepo) *StatsService {
	return &StatsService{Orders: orders, Inv: inv}
}

func (s *StatsService) ForUser(userID string) (repos.UserOrderStats, error) {
	return s.Orders.StatsForUser(userID)
}

func (s *StatsService) ForAdmin() (repos.AdminStats, error) {
	stats, err := s.Orders.StatsForAdmin()
	if err != nil {
		return repos.AdminStats{}, err
	}
	low, err := s.Inv.LowStockCount()
	if err != nil {
		return repos.AdminStats{}, err
	}
	stats.LowStock = low
	return stats, nil
}
