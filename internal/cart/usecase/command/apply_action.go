package command

import (
	"errors"
	"fmt"

	"github.com/tair/digital-market/internal/cart/domain"
	catalog "github.com/tair/digital-market/internal/catalog/domain"
)

// ApplyActionCommand mutates one cart line, or the whole cart when the
// action is clear and no slug is given
type ApplyActionCommand struct {
	CustomerID  uint
	ProductSlug string
	Action      string
}

// ApplyActionHandler handles cart line mutations
type ApplyActionHandler struct {
	carts   domain.CartRepository
	catalog catalog.CatalogRepository
}

// NewApplyActionHandler creates a new apply action handler
func NewApplyActionHandler(carts domain.CartRepository, catalogRepo catalog.CatalogRepository) *ApplyActionHandler {
	return &ApplyActionHandler{carts: carts, catalog: catalogRepo}
}

// Handle executes one cart mutation as a single transaction.
// add increments the line while it stays under the product's stock;
// an add beyond stock returns ErrInsufficientStock. delete decrements,
// clear zeroes the line. A line at quantity zero or below is removed.
func (h *ApplyActionHandler) Handle(cmd ApplyActionCommand) error {
	switch cmd.Action {
	case domain.ActionAdd, domain.ActionDelete, domain.ActionClear:
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidAction, cmd.Action)
	}

	cart, err := h.carts.FindByCustomerID(cmd.CustomerID)
	if err != nil {
		return err
	}

	if cmd.Action == domain.ActionClear && cmd.ProductSlug == "" {
		return h.carts.InTx(func(tx domain.CartRepository) error {
			return tx.ClearItems(cart.ID)
		})
	}

	product, err := h.catalog.FindProductBySlug(cmd.ProductSlug)
	if err != nil {
		return err
	}

	return h.carts.InTx(func(tx domain.CartRepository) error {
		item, err := tx.FindItem(cart.ID, product.ID)
		if errors.Is(err, domain.ErrItemNotFound) {
			item = &domain.CartItem{CartID: cart.ID, ProductID: product.ID}
		} else if err != nil {
			return err
		}

		switch cmd.Action {
		case domain.ActionAdd:
			if product.Quantity <= 0 || item.Quantity >= product.Quantity {
				return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, product.Slug)
			}
			item.Quantity++
		case domain.ActionDelete:
			item.Quantity--
		case domain.ActionClear:
			item.Quantity = 0
		}

		if item.Quantity <= 0 {
			if item.ID == 0 {
				// Nothing was persisted for this line yet
				return nil
			}
			return tx.DeleteItem(item)
		}
		return tx.SaveItem(item)
	})
}
