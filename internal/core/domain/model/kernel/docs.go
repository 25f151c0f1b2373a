// Package kernel contains shared value objects used across the domain model.
//
// The kernel provides:
//   - UUID: entity identifiers wrapping github.com/google/uuid
//   - Money: non-negative monetary amounts with exact decimal arithmetic
//
// All kernel types are immutable value objects. Their zero values are invalid
// and must be created through the provided constructor functions, which enforce
// validation at construction time.
package kernel
