// Package store holds owner-scoped persistence for every resource. Each
// by-id access first resolves the row's owner (absent -> not found, other
// owner -> forbidden) and then runs with both id and user_id in the WHERE
// clause, so no call path reaches another account's data.
package store

import (
	"context"
	"fmt"

	"moneybook/internal/util"

	"gorm.io/gorm"
)

// checkOwner resolves the owner of row id in T's table.
func checkOwner[T any](ctx context.Context, db *gorm.DB, id, owner uint, what string) error {
	var owners []uint
	if err := db.WithContext(ctx).Model(new(T)).
		Where("id = ?", id).
		Limit(1).
		Pluck("user_id", &owners).Error; err != nil {
		return fmt.Errorf("load %s owner: %w", what, err)
	}
	if len(owners) == 0 {
		return util.NotFound(what + " not found")
	}
	if owners[0] != owner {
		return util.Forbidden("Forbidden: You don't have permission to access this " + what)
	}
	return nil
}

// scoped narrows a query to one row of one owner.
func scoped(db *gorm.DB, id, owner uint) *gorm.DB {
	return db.Where("id = ? AND user_id = ?", id, owner)
}
