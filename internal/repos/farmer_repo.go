package repos

import (
	"farmstand/internal/domain"

	"github.com/jmoiron/sqlx"
)

type FarmerRepo struct{ db *sqlx.DB }

func NewFarmerRepo(db *sqlx.DB) *FarmerRepo { return &FarmerRepo{db: db} }

const farmerCols = `id,user_id,farm_name,COALESCE(description,'') AS description,
  COALESCE(address,'') AS address,lat,lng,delivery_radius_km,offers_pickup,offers_delivery,
  COALESCE(practices,'') AS practices,COALESCE(certifications,'') AS certifications,
  created_at,COALESCE(updated_at,'') AS updated_at`

// Create inserts a profile for userID. The UNIQUE(user_id) constraint keeps
// it to one profile per user; a second attempt reports ErrDuplicate.
func (r *FarmerRepo) Create(p *domain.FarmerProfile) error {
	res, err := r.db.Exec(`
	  INSERT INTO farmer_profiles
	    (id,user_id,farm_name,description,address,lat,lng,delivery_radius_km,
	     offers_pickup,offers_delivery,practices,certifications)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?)
	  ON CONFLICT(user_id) DO NOTHING
	`, p.ID, p.UserID, p.FarmName, p.Description, p.Address, p.Lat, p.Lng,
		p.DeliveryRadiusKm, p.OffersPickup, p.OffersDelivery, p.Practices, p.Certifications)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrDuplicate
	}
	return nil
}

// Update is scoped to the owning user: the WHERE clause is the policy.
func (r *FarmerRepo) Update(callerUserID string, p *domain.FarmerProfile) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE farmer_profiles SET
	    farm_name=?, description=?, address=?, lat=?, lng=?, delivery_radius_km=?,
	    offers_pickup=?, offers_delivery=?, practices=?, certifications=?,
	    updated_at=CURRENT_TIMESTAMP
	  WHERE id=? AND user_id=?
	`, p.FarmName, p.Description, p.Address, p.Lat, p.Lng, p.DeliveryRadiusKm,
		p.OffersPickup, p.OffersDelivery, p.Practices, p.Certifications,
		p.ID, callerUserID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *FarmerRepo) Get(id string) (*domain.FarmerProfile, error) {
	var p domain.FarmerProfile
	if err := r.db.Get(&p, `SELECT `+farmerCols+` FROM farmer_profiles WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *FarmerRepo) ByUserID(userID string) (*domain.FarmerProfile, error) {
	var p domain.FarmerProfile
	if err := r.db.Get(&p, `SELECT `+farmerCols+` FROM farmer_profiles WHERE user_id=?`, userID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *FarmerRepo) List() ([]domain.FarmerProfile, error) {
	out := []domain.FarmerProfile{}
	err := r.db.Select(&out, `SELECT `+farmerCols+` FROM farmer_profiles ORDER BY farm_name`)
	return out, err
}
