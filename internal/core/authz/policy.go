// Package authz holds the pure authorization decisions. Nothing here touches
// storage: callers fetch current rows first and repos additionally enforce
// ownership in their query predicates.
package authz

import "wego/internal/domain"

// CanManageUsers reports whether op may create, list or delete accounts.
func CanManageUsers(op *domain.User) bool {
	return op != nil && op.Live() && op.IsAdmin
}

// CanDeleteUser forbids self-deletion regardless of admin status, then
// falls back to CanManageUsers.
func CanDeleteUser(op *domain.User, targetID int64) bool {
	if op == nil || op.ID == targetID {
		return false
	}
	return CanManageUsers(op)
}

// Owns reports whether op is the owner identified by ownerID.
func Owns(op *domain.User, ownerID int64) bool {
	return op != nil && op.ID == ownerID
}
