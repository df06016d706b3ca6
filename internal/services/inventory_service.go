package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"
)

type InventoryService struct {
	store    repository.Store
	auditSvc *AuditService
}

func NewInventoryService(store repository.Store, auditSvc *AuditService) *InventoryService {
	return &InventoryService{store: store, auditSvc: auditSvc}
}

func (s *InventoryService) Get(ctx context.Context, productID uint) (*models.Inventory, error) {
	inv, err := s.store.Repos().Inventory.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound("inventory for product", productID)
		}
		return nil, fail("get inventory", err)
	}
	return inv, nil
}

// SetQuantity overwrites the stock on hand for a product
func (s *InventoryService) SetQuantity(ctx context.Context, actorID, productID uint, qty int) (*models.Inventory, error) {
	if qty < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}

	var inv *models.Inventory
	err := s.store.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Inventory.SetQuantity(ctx, productID, qty); err != nil {
			if errors.Is(err, ErrNotFound) {
				return notFound("inventory for product", productID)
			}
			return err
		}
		var err error
		inv, err = tx.Inventory.FindByProductID(ctx, productID)
		return err
	})
	if err != nil {
		return nil, fail("set inventory", err)
	}

	s.auditSvc.Record(actorID, models.AuditActionUpdate, EntityInventory, inv.ID, fmt.Sprintf("product %d set to %d", productID, qty))
	return inv, nil
}
