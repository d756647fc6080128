package access

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope is the immutable per-request capability value. It is resolved once
// from the authenticated principal and threaded through the resource
// services instead of re-deriving admin status in each handler.
type Scope struct {
	UserID uuid.UUID
	Email  string
	Admin  bool
}

// Scoped returns a GORM scope limiting queries to records visible to s.
// Administrators see every row; everyone else only their own. Out-of-scope
// lookups therefore yield empty results rather than an authorization error.
func Scoped(s Scope) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.Admin {
			return db
		}
		return db.Where("user_id = ?", s.UserID)
	}
}

// ResolveOwner applies the write-owner rule: an administrator may target an
// arbitrary owner (defaulting to themself when none is supplied); any
// caller-supplied owner on a non-admin request is silently overridden.
func ResolveOwner(s Scope, requested uuid.UUID) uuid.UUID {
	if s.Admin && requested != uuid.Nil {
		return requested
	}
	return s.UserID
}
