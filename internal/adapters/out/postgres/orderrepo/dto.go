// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. The order aggregate spans three tables: the order row,
// its lines, and its status history, always written together.
package orderrepo

import (
	"time"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID         `gorm:"type:uuid;index"`
	Status      int               `gorm:"index"`
	TotalAmount decimal.Decimal   `gorm:"type:numeric(12,2)"`
	CreatedAt   time.Time         `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime:false"`
	Lines       []OrderLineDTO    `gorm:"foreignKey:OrderID;references:ID"`
	History     []HistoryEntryDTO `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderLineDTO represents one line of an order with its price snapshot.
// The unit price is copied from the catalog at order creation and never
// changes afterwards.
type OrderLineDTO struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index"`
	ItemID    uuid.UUID       `gorm:"type:uuid;index"`
	Quantity  int             `gorm:""`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2)"`
}

// TableName specifies the database table name for order lines.
func (OrderLineDTO) TableName() string {
	return "order_lines"
}

// HistoryEntryDTO represents one audit record of a status change.
// FromStatus is NULL for the creation record.
type HistoryEntryDTO struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	FromStatus *int      `gorm:""`
	ToStatus   int       `gorm:""`
	ChangedBy  uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time `gorm:"autoCreateTime:false"`
}

// TableName specifies the database table name for status history records.
func (HistoryEntryDTO) TableName() string {
	return "order_status_history"
}

// fromDomain converts an order domain aggregate to its database representation.
// Only unpersisted history entries are included so that persisted audit
// records are never rewritten.
func fromDomain(aggregate *order.Order) OrderDTO {
	history := aggregate.History()

	dto := OrderDTO{
		ID:          aggregate.ID().Bytes(),
		UserID:      aggregate.CustomerID().Bytes(),
		Status:      int(aggregate.Status()),
		TotalAmount: aggregate.TotalAmount().Amount(),
		CreatedAt:   history[0].OccurredAt(),
		UpdatedAt:   history[len(history)-1].OccurredAt(),
	}

	for _, line := range aggregate.Lines() {
		dto.Lines = append(dto.Lines, OrderLineDTO{
			OrderID:   dto.ID,
			ItemID:    line.ItemID().Bytes(),
			Quantity:  line.Quantity(),
			UnitPrice: line.UnitPrice().Amount(),
		})
	}

	for _, entry := range history {
		if entry.IsPersisted() {
			continue
		}
		dto.History = append(dto.History, historyEntryFromDomain(dto.ID, entry))
	}

	return dto
}

func historyEntryFromDomain(orderID uuid.UUID, entry order.HistoryEntry) HistoryEntryDTO {
	var fromStatus *int
	if from := entry.FromStatus(); from != nil {
		raw := int(*from)
		fromStatus = &raw
	}

	return HistoryEntryDTO{
		OrderID:    orderID,
		FromStatus: fromStatus,
		ToStatus:   int(entry.ToStatus()),
		ChangedBy:  entry.ChangedBy().Bytes(),
		CreatedAt:  entry.OccurredAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including lines and the audit chain
// using RestoreOrder, which re-validates the chain's integrity.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(dto.Lines))
	for _, lineDTO := range dto.Lines {
		itemID, itemErr := kernel.UUIDFromBytes(lineDTO.ItemID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		unitPrice, priceErr := kernel.NewMoneyFromDecimal(lineDTO.UnitPrice)
		if priceErr != nil {
			return nil, priceErr
		}

		line, lineErr := order.NewLine(itemID, lineDTO.Quantity, unitPrice)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	history := make([]order.HistoryEntry, 0, len(dto.History))
	for _, entryDTO := range dto.History {
		entry, entryErr := historyEntryToDomain(entryDTO)
		if entryErr != nil {
			return nil, entryErr
		}
		history = append(history, entry)
	}

	totalAmount, err := kernel.NewMoneyFromDecimal(dto.TotalAmount)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		customerID,
		lines,
		order.Status(dto.Status),
		totalAmount,
		history,
	)
}

func historyEntryToDomain(dto HistoryEntryDTO) (order.HistoryEntry, error) {
	var fromStatus *order.Status
	if dto.FromStatus != nil {
		from := order.Status(*dto.FromStatus)
		fromStatus = &from
	}

	changedBy, err := kernel.UUIDFromBytes(dto.ChangedBy[:])
	if err != nil {
		return order.HistoryEntry{}, err
	}

	return order.RestoreHistoryEntry(
		dto.ID,
		fromStatus,
		order.Status(dto.ToStatus),
		changedBy,
		dto.CreatedAt,
	)
}
