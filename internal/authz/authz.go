// Package authz decides, per entity and operation, whether the calling
// identity may touch the target rows. Write paths embed the predicate in
// the statement's WHERE clause so the check and the write are one atomic
// unit; the join-backed checks here cover reads and multi-statement
// transactions. A denial is indistinguishable from a missing row so that
// callers cannot probe for the existence of data they may not see.
package authz

import (
	"database/sql"
	"errors"

	"farmstand/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ErrDenied is returned for any operation the caller may not perform.
// Handlers map it to 404.
var ErrDenied = errors.New("access denied")

// Caller is the authenticated identity asserted by the session layer.
// A zero Caller is anonymous.
type Caller struct {
	ID   string
	Role string
}

func (c Caller) Anonymous() bool { return c.ID == "" }
func (c Caller) IsFarmer() bool  { return c.Role == domain.RoleFarmer }
func (c Caller) IsBuyer() bool   { return c.Role == domain.RoleBuyer }

// CanAccessOrder allows the order's buyer or the user owning the target
// farmer profile. Runnable against the live handle or an open tx.
func CanAccessOrder(q sqlx.Queryer, caller Caller, orderID string) error {
	if caller.Anonymous() {
		return ErrDenied
	}
	var one int
	err := sqlx.Get(q, &one, `
	  SELECT 1 FROM orders o
	  JOIN farmer_profiles fp ON fp.id = o.farmer_id
	  WHERE o.id=? AND (o.buyer_id=? OR fp.user_id=?)
	`, orderID, caller.ID, caller.ID)
	if err == sql.ErrNoRows {
		return ErrDenied
	}
	return err
}

// OwnsFarmerProfile allows only the user behind the profile.
func OwnsFarmerProfile(q sqlx.Queryer, caller Caller, farmerID string) error {
	if caller.Anonymous() {
		return ErrDenied
	}
	var one int
	err := sqlx.Get(q, &one,
		`SELECT 1 FROM farmer_profiles WHERE id=? AND user_id=?`, farmerID, caller.ID)
	if err == sql.ErrNoRows {
		return ErrDenied
	}
	return err
}

// OwnsProduct allows only the user whose farmer profile owns the product.
func OwnsProduct(q sqlx.Queryer, caller Caller, productID string) error {
	if caller.Anonymous() {
		return ErrDenied
	}
	var one int
	err := sqlx.Get(q, &one, `
	  SELECT 1 FROM products p
	  JOIN farmer_profiles fp ON fp.id = p.farmer_id
	  WHERE p.id=? AND fp.user_id=?
	`, productID, caller.ID)
	if err == sql.ErrNoRows {
		return ErrDenied
	}
	return err
}
