// Package repository defines the ranking store interface and errors.
package repository

import (
	"context"

	types "github.com/okian/talentmatch/internal/domain/types"
)

// Store provides access to the ranking state of the latest scoring run.
type Store interface {
	// Replace atomically swaps the full ranking contents with entries.
	// Entries may arrive in any order; the store establishes the ranking
	// order (final score desc, employee ID asc) and assigns ranks with
	// tied scores sharing a rank.
	Replace(ctx context.Context, entries []types.Entry) error

	// Rank returns the ranking row for one employee.
	// Returns ErrNotFound if the employee is not ranked.
	Rank(ctx context.Context, employeeID string) (types.Entry, error)

	// TopN returns the best n entries in rank order.
	TopN(ctx context.Context, n int) ([]types.Entry, error)

	// Count returns the number of employees ranked.
	Count(ctx context.Context) int
}
