package table

import "context"

// Repository defines data access for the tables collection. The collection is
// always read and written as a whole value: the single-threaded invocation
// model makes whole-value read-modify-write safe, and it matches the one
// durable record per entity class layout.
type Repository interface {
	// List returns every table currently in the collection.
	List(ctx context.Context) ([]Table, error)

	// Save replaces the whole collection.
	Save(ctx context.Context, tables []Table) error
}
