package queries

import (
	"context"
	"database/sql"
	"errors"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/order"
	"shop/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTrackingQueryHandler retrieves the status history of an order.
// The existence check and the authorization check are deliberately
// separate so that callers can distinguish a missing order from a
// forbidden one.
type GetTrackingQueryHandler struct {
	db *gorm.DB
}

// NewGetTrackingQueryHandler creates a handler for order tracking queries.
// Requires a GORM database connection for query execution.
func NewGetTrackingQueryHandler(db *gorm.DB) GetTrackingQueryHandler {
	return GetTrackingQueryHandler{db: db}
}

// Handle executes the query to retrieve an order's status history.
// Returns errs.ErrObjectNotFound when the order does not exist and
// errs.ErrAccessDenied when the caller is neither the order's owner
// nor an administrator. History entries are returned oldest first.
func (h GetTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetTrackingQuery,
) (GetTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTrackingQueryResponse{}, err
	}

	var ownerID uuid.UUID
	var status int

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			user_id,
			status
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(&ownerID, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return GetTrackingQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return GetTrackingQueryResponse{}, err
	}

	owner, err := kernel.UUIDFromBytes(ownerID[:])
	if err != nil {
		return GetTrackingQueryResponse{}, err
	}

	if !query.Actor().IsAdmin() && !query.Actor().UserID().IsEqual(owner) {
		return GetTrackingQueryResponse{}, errs.NewAccessDeniedError(
			"order tracking is visible only to the order's owner or an administrator")
	}

	currentStatus := order.Status(status)
	if err = currentStatus.Validate(); err != nil {
		return GetTrackingQueryResponse{}, err
	}

	history, err := h.loadHistory(ctx, query.OrderID())
	if err != nil {
		return GetTrackingQueryResponse{}, err
	}

	return GetTrackingQueryResponse{
		OrderID: query.OrderID(),
		Status:  currentStatus,
		History: history,
	}, nil
}

// loadHistory reads the order's status changes oldest first, each
// attributed to the user who made it.
func (h GetTrackingQueryHandler) loadHistory(
	ctx context.Context,
	orderID kernel.UUID,
) ([]TrackingEventResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.from_status,
			s.to_status,
			s.changed_by,
			u.name,
			s.created_at
		FROM order_status_history s
		JOIN users u ON u.id = s.changed_by
		WHERE s.order_id = ?
		ORDER BY s.created_at, s.id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]TrackingEventResponse, 0)

	for rows.Next() {
		var event TrackingEventResponse
		var fromStatus *int
		var toStatus int
		var changedBy uuid.UUID

		err = rows.Scan(
			&fromStatus,
			&toStatus,
			&changedBy,
			&event.ChangedByName,
			&event.OccurredAt,
		)
		if err != nil {
			return nil, err
		}

		if fromStatus != nil {
			from := order.Status(*fromStatus)
			if statusErr := from.Validate(); statusErr != nil {
				return nil, statusErr
			}
			event.FromStatus = &from
		}

		to := order.Status(toStatus)
		if statusErr := to.Validate(); statusErr != nil {
			return nil, statusErr
		}
		event.ToStatus = to

		changedByID, idErr := kernel.UUIDFromBytes(changedBy[:])
		if idErr != nil {
			return nil, idErr
		}
		event.ChangedByID = changedByID

		history = append(history, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}
