package queries

import (
	"context"
	"database/sql"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrdersQueryHandler retrieves order listings from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
//
// Example:
//
//	handler := NewGetOrdersQueryHandler(db)
//	query, err := NewGetOrdersQuery(actor)
//	if err != nil {
//	    return err
//	}
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get orders: %v", err)
//	    return err
//	}
//
//	fmt.Printf("Found %d orders\n", len(orders))
type GetOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersQueryHandler creates a handler for order listing queries.
// Requires a GORM database connection for query execution.
func NewGetOrdersQueryHandler(db *gorm.DB) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve the caller's visible orders.
// Administrators receive every order; customers receive only their own.
// Orders are returned newest first, each with its lines attached.
func (h GetOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersQuery,
) ([]GetOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		rows *sql.Rows
		err  error
	)
	if query.Actor().IsAdmin() {
		rows, err = h.db.WithContext(ctx).Raw(`
			SELECT
				o.id,
				o.user_id,
				u.name,
				o.status,
				o.total_amount,
				o.created_at
			FROM orders o
			JOIN users u ON u.id = o.user_id
			ORDER BY o.created_at DESC, o.id
		`).Rows()
	} else {
		rows, err = h.db.WithContext(ctx).Raw(`
			SELECT
				o.id,
				o.user_id,
				u.name,
				o.status,
				o.total_amount,
				o.created_at
			FROM orders o
			JOIN users u ON u.id = o.user_id
			WHERE o.user_id = ?
			ORDER BY o.created_at DESC, o.id
		`, query.Actor().UserID().Bytes()).Rows()
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetOrdersQueryResponse, 0)
	orderIndex := make(map[uuid.UUID]int)

	for rows.Next() {
		var orderResp GetOrdersQueryResponse
		var id, customerID uuid.UUID
		var status int
		var totalAmount decimal.Decimal

		err = rows.Scan(
			&id,
			&customerID,
			&orderResp.CustomerName,
			&status,
			&totalAmount,
			&orderResp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ID = orderID

		userID, idErr := kernel.UUIDFromBytes(customerID[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.CustomerID = userID

		orderStatus := order.Status(status)
		if statusErr := orderStatus.Validate(); statusErr != nil {
			return nil, statusErr
		}
		orderResp.Status = orderStatus

		total, totalErr := kernel.NewMoneyFromDecimal(totalAmount)
		if totalErr != nil {
			return nil, totalErr
		}
		orderResp.TotalAmount = total

		orderIndex[id] = len(orders)
		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return orders, nil
	}

	if err = h.attachLines(ctx, orders, orderIndex); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachLines loads the lines for all listed orders in a single query
// and assigns them to their parent responses.
func (h GetOrdersQueryHandler) attachLines(
	ctx context.Context,
	orders []GetOrdersQueryResponse,
	orderIndex map[uuid.UUID]int,
) error {
	orderIDs := make([]uuid.UUID, 0, len(orderIndex))
	for id := range orderIndex {
		orderIDs = append(orderIDs, id)
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			l.order_id,
			l.item_id,
			l.quantity,
			l.unit_price
		FROM order_lines l
		WHERE l.order_id IN ?
		ORDER BY l.id
	`, orderIDs).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var lineResp OrderLineResponse
		var orderID, itemID uuid.UUID
		var unitPrice decimal.Decimal

		err = rows.Scan(
			&orderID,
			&itemID,
			&lineResp.Quantity,
			&unitPrice,
		)
		if err != nil {
			return err
		}

		id, idErr := kernel.UUIDFromBytes(itemID[:])
		if idErr != nil {
			return idErr
		}
		lineResp.ItemID = id

		price, priceErr := kernel.NewMoneyFromDecimal(unitPrice)
		if priceErr != nil {
			return priceErr
		}
		lineResp.UnitPrice = price

		idx, ok := orderIndex[orderID]
		if !ok {
			continue
		}
		orders[idx].Lines = append(orders[idx].Lines, lineResp)
	}

	return rows.Err()
}
