package repos

import (
	"database/sql"

	"farmstand/internal/authz"
	"farmstand/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review by the caller. When the review cites an order,
// that order must exist, belong to the caller, target the reviewed farmer
// and be completed; all of that is verified inside the insert transaction.
// The UNIQUE(buyer_id, order_id) index rejects a second review of the same
// order.
func (r *ReviewRepo) Create(caller authz.Caller, rv *domain.Review) error {
	if caller.Anonymous() {
		return authz.ErrDenied
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if rv.OrderID != nil {
		var o struct {
			Status   string `db:"status"`
			BuyerID  string `db:"buyer_id"`
			FarmerID string `db:"farmer_id"`
		}
		err := tx.Get(&o, `SELECT status, buyer_id, farmer_id FROM orders WHERE id=?`, *rv.OrderID)
		if err == sql.ErrNoRows {
			return authz.ErrDenied
		}
		if err != nil {
			return err
		}
		if o.BuyerID != caller.ID {
			return authz.ErrDenied
		}
		if o.FarmerID != rv.FarmerID {
			return ErrFarmerMismatch
		}
		if o.Status != domain.StatusCompleted {
			return ErrOrderNotCompleted
		}
	}

	res, err := tx.Exec(`
	  INSERT INTO reviews(id,farmer_id,buyer_id,order_id,rating,comment)
	  VALUES(?,?,?,?,?,?)
	  ON CONFLICT(buyer_id,order_id) DO NOTHING
	`, rv.ID, rv.FarmerID, caller.ID, rv.OrderID, rv.Rating, rv.Comment)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDuplicate
	}
	return tx.Commit()
}

// Update is scoped to the owning buyer; rating/comment only.
func (r *ReviewRepo) Update(callerID, reviewID string, rating int, comment string) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE reviews SET rating=?, comment=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=? AND buyer_id=?
	`, rating, comment, reviewID, callerID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *ReviewRepo) ListByFarmer(farmerID string) ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.db.Select(&out, `
	  SELECT id, farmer_id, buyer_id, order_id, rating,
	         COALESCE(comment,'') AS comment,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM reviews
	  WHERE farmer_id=?
	  ORDER BY datetime(created_at) DESC
	`, farmerID)
	return out, err
}
