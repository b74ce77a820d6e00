package repos

import (
	"encoding/json"

	"farmstand/internal/authz"
	"farmstand/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type FavoriteRepo struct{ db *sqlx.DB }

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Add favorites a farm for the caller and notifies the farm owner, in one
// transaction. UNIQUE(buyer_id, farmer_id) makes a repeat add report
// ErrDuplicate and leave exactly one row.
func (r *FavoriteRepo) Add(caller authz.Caller, farmerID string) error {
	if caller.Anonymous() {
		return authz.ErrDenied
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var farm struct {
		UserID   string `db:"user_id"`
		FarmName string `db:"farm_name"`
	}
	if err := tx.Get(&farm, `SELECT user_id, farm_name FROM farmer_profiles WHERE id=?`, farmerID); err != nil {
		return err // sql.ErrNoRows: unknown farmer
	}

	res, err := tx.Exec(`
	  INSERT INTO favorites(id,buyer_id,farmer_id)
	  VALUES(?,?,?)
	  ON CONFLICT(buyer_id,farmer_id) DO NOTHING
	`, uuid.NewString(), caller.ID, farmerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDuplicate
	}

	meta, _ := json.Marshal(map[string]string{"farmerId": farmerID, "buyerId": caller.ID})
	if err := insertNotification(tx, farm.UserID, domain.NotifFavorited,
		"New favorite", "Someone favorited "+farm.FarmName, string(meta)); err != nil {
		return err
	}
	return tx.Commit()
}

// Remove is scoped to the caller's own favorites.
func (r *FavoriteRepo) Remove(callerID, farmerID string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM favorites WHERE buyer_id=? AND farmer_id=?`, callerID, farmerID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type FavoriteRow struct {
	domain.Favorite
	FarmName string `db:"farm_name" json:"farmName"`
}

func (r *FavoriteRepo) List(callerID string) ([]FavoriteRow, error) {
	out := []FavoriteRow{}
	err := r.db.Select(&out, `
	  SELECT f.id, f.buyer_id, f.farmer_id, f.created_at, fp.farm_name
	  FROM favorites f
	  JOIN farmer_profiles fp ON fp.id = f.farmer_id
	  WHERE f.buyer_id=?
	  ORDER BY fp.farm_name
	`, callerID)
	return out, err
}
