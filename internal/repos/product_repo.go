package repos

import (
	"farmstand/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id,farmer_id,name,COALESCE(category,'') AS category,unit,price,
  available_qty,min_order_qty,is_available,created_at,COALESCE(updated_at,'') AS updated_at`

// Create inserts a product owned by the caller's farmer profile. The
// subselect resolves ownership; no matching profile means nothing happens.
func (r *ProductRepo) Create(callerUserID string, p *domain.Product) (bool, error) {
	res, err := r.db.Exec(`
	  INSERT INTO products(id,farmer_id,name,category,unit,price,available_qty,min_order_qty,is_available)
	  SELECT ?, fp.id, ?, ?, ?, ?, ?, ?, ?
	  FROM farmer_profiles fp
	  WHERE fp.id=? AND fp.user_id=?
	`, p.ID, p.Name, p.Category, p.Unit, p.Price, p.AvailableQty, p.MinOrderQty, p.IsAvailable,
		p.FarmerID, callerUserID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Update is scoped to the owning farmer via the subselect predicate.
func (r *ProductRepo) Update(callerUserID string, p *domain.Product) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE products SET
	    name=?, category=?, unit=?, price=?, available_qty=?, min_order_qty=?,
	    is_available=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=? AND farmer_id IN (SELECT id FROM farmer_profiles WHERE user_id=?)
	`, p.Name, p.Category, p.Unit, p.Price, p.AvailableQty, p.MinOrderQty, p.IsAvailable,
		p.ID, callerUserID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *ProductRepo) Delete(callerUserID, productID string) (bool, error) {
	res, err := r.db.Exec(`
	  DELETE FROM products
	  WHERE id=? AND farmer_id IN (SELECT id FROM farmer_profiles WHERE user_id=?)
	`, productID, callerUserID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *ProductRepo) Get(id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) ListByFarmer(farmerID string) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products WHERE farmer_id=? ORDER BY name`, farmerID)
	return out, err
}

// Search filters the public catalog by name substring and/or category.
func (r *ProductRepo) Search(q, category string) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `
	  SELECT `+productCols+` FROM products
	  WHERE is_available=1
	    AND (? = '' OR LOWER(name) LIKE '%' || LOWER(?) || '%')
	    AND (? = '' OR category = ?)
	  ORDER BY name
	`, q, q, category, category)
	return out, err
}
