package repository

import (
	"context"

	"github.com/mansij47/Optiven-Backend/pkg/sequence"

	"gorm.io/gorm"
)

// SequenceRepository finds the greatest existing business identifier matching
// a prefix, optionally scoped by store. Callers derive the next identifier
// with sequence.Next.
//
// This is the read side of a read-then-write pattern: two concurrent creators
// can observe the same maximum and mint duplicate identifiers. Generation is
// always run inside the creating transaction to narrow the window, and the
// unique (store_id, id) indexes turn a lost race into a Conflict instead of a
// silent duplicate.
type SequenceRepository interface {
	LastID(ctx context.Context, table, field, prefix, storeID string) (string, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// LastID returns the current maximum identifier for the prefix, or "" when no
// document matches. The table and field names come from internal constants,
// never from request input.
func (r *sequenceRepository) LastID(ctx context.Context, table, field, prefix, storeID string) (string, error) {
	query := GetDB(ctx, r.db).Table(table).
		Select(field).
		Where(field+" ~ ?", sequence.Pattern(prefix))
	if storeID != "" {
		query = query.Where("store_id = ?", storeID)
	}

	var last string
	err := query.Order("length(" + field + ") DESC, " + field + " DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}
	return last, nil
}
