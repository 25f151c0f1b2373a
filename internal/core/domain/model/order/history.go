package order

import (
	"errors"
	"time"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/pkg/guard"
)

var ErrHistoryEntryIsNotConstructed = errors.New(
	"HistoryEntry must be created via NewHistoryEntry or RestoreHistoryEntry",
)

// HistoryEntry is one append-only audit record of a status change.
// FromStatus is nil only for the entry produced at order creation.
//
// recordID is the persistence identifier; it is zero for entries appended in
// the current unit of work and set when the entry is restored from storage.
// Repositories use it to tell which entries still need to be written.
type HistoryEntry struct {
	recordID   uint
	fromStatus *Status
	toStatus   Status
	changedBy  kernel.UUID
	occurredAt time.Time

	guard guard.ConstructorGuard
}

// NewHistoryEntry creates an unpersisted audit record for a status change.
func NewHistoryEntry(fromStatus *Status, toStatus Status, changedBy kernel.UUID, occurredAt time.Time) (HistoryEntry, error) {
	if fromStatus != nil {
		if err := fromStatus.Validate(); err != nil {
			return HistoryEntry{}, err
		}
	}
	if err := toStatus.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if err := changedBy.Validate(); err != nil {
		return HistoryEntry{}, err
	}

	return HistoryEntry{
		fromStatus: fromStatus,
		toStatus:   toStatus,
		changedBy:  changedBy,
		occurredAt: occurredAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// RestoreHistoryEntry reconstructs a persisted audit record, keeping its
// storage identifier so it is not written again.
func RestoreHistoryEntry(recordID uint, fromStatus *Status, toStatus Status, changedBy kernel.UUID, occurredAt time.Time) (HistoryEntry, error) {
	entry, err := NewHistoryEntry(fromStatus, toStatus, changedBy, occurredAt)
	if err != nil {
		return HistoryEntry{}, err
	}

	entry.recordID = recordID
	return entry, nil
}

// RecordID returns the persistence identifier, zero for unpersisted entries.
func (e HistoryEntry) RecordID() uint {
	return e.recordID
}

// IsPersisted reports whether the entry has already been stored.
func (e HistoryEntry) IsPersisted() bool {
	return e.recordID != 0
}

// FromStatus returns the status before the change, nil for the creation entry.
func (e HistoryEntry) FromStatus() *Status {
	if e.fromStatus == nil {
		return nil
	}
	from := *e.fromStatus
	return &from
}

// ToStatus returns the status after the change.
func (e HistoryEntry) ToStatus() Status {
	return e.toStatus
}

// ChangedBy returns the user who performed the change.
func (e HistoryEntry) ChangedBy() kernel.UUID {
	return e.changedBy
}

// OccurredAt returns when the change happened.
func (e HistoryEntry) OccurredAt() time.Time {
	return e.occurredAt
}

// Validate ensures the entry was created through a constructor.
func (e HistoryEntry) Validate() error {
	return e.guard.Validate(ErrHistoryEntryIsNotConstructed)
}
