package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.OrdersStorage = (*OrdersRepository)(nil)

const orderNumberConstraint = "orders_number_key"

type OrdersRepository struct {
	sqldb sqldb
}

func NewOrdersRepository(sqldb sqldb) OrdersRepository {
	return OrdersRepository{sqldb}
}

// StoreOrder persists the order with its items and takes
// the ordered quantities out of stock in one transaction.
func (r OrdersRepository) StoreOrder(ctx context.Context, o domain.Order) error {
	const op = "OrdersRepository.StoreOrder"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := inTx(ctx, r.sqldb, op, func(tx *sql.Tx) error {
		orderID, err := r.insertOrder(ctx, tx, o)
		if err != nil {
			return err
		}
		for _, it := range o.Items {
			if err := r.takeStock(ctx, tx, it); err != nil {
				return err
			}
			if err := r.insertItem(ctx, tx, orderID, it); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r OrdersRepository) insertOrder(
	ctx context.Context, tx *sql.Tx, o domain.Order,
) (int64, error) {
	query := `
		INSERT INTO orders (
			number, email, country, shipping_method_id,
			subtotal, shipping_cost, total, currency, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;`

	var id int64
	err := tx.QueryRowContext(ctx, query,
		o.Number, o.Email, o.Country, o.ShippingMethodID,
		o.Subtotal, o.ShippingCost, o.Total, o.Currency, o.CreatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, orderNumberConstraint) {
			return 0, fmt.Errorf("%w: %s", domain.ErrDuplicateOrderNumber, o.Number)
		}
		return 0, err
	}
	return id, nil
}

func (r OrdersRepository) takeStock(
	ctx context.Context, tx *sql.Tx, it domain.OrderItem,
) error {
	query := `
		UPDATE products SET stock = stock - $1
		WHERE id = $2 AND stock >= $1;`

	res, err := tx.ExecContext(ctx, query, it.Quantity, it.ProductID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: product %d", domain.ErrOutOfStock, it.ProductID)
	}
	return nil
}

func (r OrdersRepository) insertItem(
	ctx context.Context, tx *sql.Tx, orderID int64, it domain.OrderItem,
) error {
	query := `
		INSERT INTO order_items (order_id, product_id, name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5);`

	_, err := tx.ExecContext(ctx, query,
		orderID, it.ProductID, it.Name, it.UnitPrice, it.Quantity,
	)
	return err
}
