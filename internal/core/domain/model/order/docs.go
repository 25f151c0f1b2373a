// Package order implements the order aggregate and its lifecycle.
//
// An Order is created from one or more Lines, each snapshotting the catalog
// unit price at creation time. The total amount is computed exactly once from
// those captured prices and is never recomputed, so later catalog price
// changes cannot alter historical orders.
//
// After creation the only permitted mutation is a status transition along the
// fixed forward-only chain pending -> processing -> shipped -> delivered.
// Every transition, including the implicit one at creation, appends a
// HistoryEntry to the aggregate's audit chain. The chain is append-only and
// gap-free: each entry's from-status equals the previous entry's to-status,
// and the order's current status equals the last entry's to-status.
package order
