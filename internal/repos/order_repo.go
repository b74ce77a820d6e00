package repos

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"farmstand/internal/authz"
	"farmstand/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type LineInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type PlaceInput struct {
	FarmerID        string
	DeliveryMethod  string
	DeliveryAddress string
	RequestedDate   string
	Notes           string
	Items           []LineInput
}

// ItemDetail joins a line item with catalog naming for display.
type ItemDetail struct {
	domain.OrderItem
	ProductName string `db:"product_name" json:"productName"`
	Unit        string `db:"unit" json:"unit"`
}

// Place creates the order aggregate in one transaction: stock is
// decremented conditionally, unit prices are snapshotted from the catalog
// (client amounts are never trusted), the initial status_change event is
// appended and the farm owner is notified.
func (r *OrderRepo) Place(buyer authz.Caller, in PlaceInput) (string, float64, error) {
	if buyer.Anonymous() {
		return "", 0, authz.ErrDenied
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var farm struct {
		UserID   string `db:"user_id"`
		FarmName string `db:"farm_name"`
	}
	if err := tx.Get(&farm, `SELECT user_id, farm_name FROM farmer_profiles WHERE id=?`, in.FarmerID); err != nil {
		return "", 0, err // sql.ErrNoRows: unknown farmer
	}

	type prodRow struct {
		Price        float64 `db:"price"`
		AvailableQty int     `db:"available_qty"`
		MinOrderQty  int     `db:"min_order_qty"`
		IsAvailable  bool    `db:"is_available"`
		FarmerID     string  `db:"farmer_id"`
	}

	orderID := uuid.NewString()
	total := 0.0
	type line struct {
		id        string
		productID string
		qty       int
		unitPrice float64
		subtotal  float64
	}
	lines := make([]line, 0, len(in.Items))

	for _, it := range in.Items {
		var p prodRow
		if err := tx.Get(&p, `SELECT price, available_qty, min_order_qty, is_available, farmer_id
		                      FROM products WHERE id=?`, it.ProductID); err != nil {
			return "", 0, err
		}
		if p.FarmerID != in.FarmerID {
			return "", 0, ErrFarmerMismatch
		}
		if !p.IsAvailable {
			return "", 0, ErrUnavailable
		}
		if it.Quantity < p.MinOrderQty {
			return "", 0, ErrBelowMinQty
		}

		// Conditional decrement doubles as the stock check.
		res, err := tx.Exec(`UPDATE products SET available_qty = available_qty - ?
		                     WHERE id=? AND available_qty >= ?`, it.Quantity, it.ProductID, it.Quantity)
		if err != nil {
			return "", 0, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return "", 0, ErrInsufficientStock
		}

		sub := p.Price * float64(it.Quantity)
		total += sub
		lines = append(lines, line{
			id: uuid.NewString(), productID: it.ProductID,
			qty: it.Quantity, unitPrice: p.Price, subtotal: sub,
		})
	}

	if _, err := tx.Exec(`
	  INSERT INTO orders(id,buyer_id,farmer_id,status,total_amount,delivery_method,
	                     delivery_address,requested_date,notes)
	  VALUES(?,?,?,'pending',?,?,?,?,?)
	`, orderID, buyer.ID, in.FarmerID, total, in.DeliveryMethod,
		in.DeliveryAddress, in.RequestedDate, in.Notes); err != nil {
		return "", 0, err
	}

	for _, l := range lines {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(id,order_id,product_id,quantity,unit_price,subtotal)
		  VALUES(?,?,?,?,?,?)
		`, l.id, orderID, l.productID, l.qty, l.unitPrice, l.subtotal); err != nil {
			return "", 0, err
		}
	}

	if _, err := tx.Exec(`
	  INSERT INTO order_events(id,order_id,actor_id,event_type,status)
	  VALUES(?,?,?,'status_change','pending')
	`, uuid.NewString(), orderID, buyer.ID); err != nil {
		return "", 0, err
	}

	meta, _ := json.Marshal(map[string]string{"orderId": orderID, "status": domain.StatusPending})
	if err := insertNotification(tx, farm.UserID, domain.NotifOrderCreated,
		"New order received",
		fmt.Sprintf("You have a new order totaling $%.2f", total),
		string(meta)); err != nil {
		return "", 0, err
	}

	return orderID, total, tx.Commit()
}

// Transition moves an order along the lifecycle. The status update, the
// status_change event and the counterparty notification commit together
// or not at all.
func (r *OrderRepo) Transition(caller authz.Caller, orderID, next string) error {
	if caller.Anonymous() {
		return authz.ErrDenied
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var o struct {
		Status     string `db:"status"`
		BuyerID    string `db:"buyer_id"`
		FarmerUser string `db:"farmer_user"`
		FarmName   string `db:"farm_name"`
	}
	err = tx.Get(&o, `
	  SELECT o.status, o.buyer_id, fp.user_id AS farmer_user, fp.farm_name
	  FROM orders o
	  JOIN farmer_profiles fp ON fp.id = o.farmer_id
	  WHERE o.id=?
	`, orderID)
	if err == sql.ErrNoRows {
		return authz.ErrDenied
	}
	if err != nil {
		return err
	}
	if caller.ID != o.BuyerID && caller.ID != o.FarmerUser {
		return authz.ErrDenied
	}
	if domain.TerminalStatus(o.Status) {
		return ErrOrderClosed
	}
	if !domain.CanTransition(o.Status, next) {
		return ErrBadTransition
	}

	// Status guard in the WHERE clause protects against a concurrent move.
	res, err := tx.Exec(`UPDATE orders SET status=?, updated_at=CURRENT_TIMESTAMP
	                     WHERE id=? AND status=?`, next, orderID, o.Status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBadTransition
	}

	if _, err := tx.Exec(`
	  INSERT INTO order_events(id,order_id,actor_id,event_type,status)
	  VALUES(?,?,?,'status_change',?)
	`, uuid.NewString(), orderID, caller.ID, next); err != nil {
		return err
	}

	// Notify the counterparty of whoever drove the change.
	recipient := o.BuyerID
	if caller.ID == o.BuyerID {
		recipient = o.FarmerUser
	}
	meta, _ := json.Marshal(map[string]string{"orderId": orderID, "status": next})
	if err := insertNotification(tx, recipient, domain.NotifOrderStatusChanged,
		"Order "+next,
		fmt.Sprintf("Order with %s is now %s", o.FarmName, next),
		string(meta)); err != nil {
		return err
	}

	return tx.Commit()
}

// AppendNote adds a note event visible to both order parties.
func (r *OrderRepo) AppendNote(caller authz.Caller, orderID, note string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := authz.CanAccessOrder(tx, caller, orderID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
	  INSERT INTO order_events(id,order_id,actor_id,event_type,note)
	  VALUES(?,?,?,'note',?)
	`, uuid.NewString(), orderID, caller.ID, note); err != nil {
		return err
	}
	return tx.Commit()
}

// AppendLocation records a delivery location update.
func (r *OrderRepo) AppendLocation(caller authz.Caller, orderID string, lat, lng float64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := authz.CanAccessOrder(tx, caller, orderID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
	  INSERT INTO order_events(id,order_id,actor_id,event_type,lat,lng)
	  VALUES(?,?,?,'location_update',?,?)
	`, uuid.NewString(), orderID, caller.ID, lat, lng); err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns the order and its items, but only to the buyer or the
// owning farmer; anyone else sees the same result as a missing order.
func (r *OrderRepo) Get(caller authz.Caller, orderID string) (*domain.Order, []ItemDetail, error) {
	if caller.Anonymous() {
		return nil, nil, authz.ErrDenied
	}
	var o domain.Order
	err := r.db.Get(&o, `
	  SELECT o.id, o.buyer_id, o.farmer_id, o.status, o.total_amount, o.delivery_method,
	         COALESCE(o.delivery_address,'') AS delivery_address,
	         COALESCE(o.requested_date,'') AS requested_date,
	         COALESCE(o.notes,'') AS notes,
	         o.created_at, COALESCE(o.updated_at,'') AS updated_at
	  FROM orders o
	  JOIN farmer_profiles fp ON fp.id = o.farmer_id
	  WHERE o.id=? AND (o.buyer_id=? OR fp.user_id=?)
	`, orderID, caller.ID, caller.ID)
	if err == sql.ErrNoRows {
		return nil, nil, authz.ErrDenied
	}
	if err != nil {
		return nil, nil, err
	}

	items := []ItemDetail{}
	if err := r.db.Select(&items, `
	  SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, oi.subtotal,
	         p.name AS product_name, p.unit
	  FROM order_items oi
	  JOIN products p ON p.id = oi.product_id
	  WHERE oi.order_id=?
	  ORDER BY p.name
	`, orderID); err != nil {
		return nil, nil, err
	}
	return &o, items, nil
}

// ListForCaller returns the caller's orders: placed ones for buyers,
// received ones for farm owners.
func (r *OrderRepo) ListForCaller(caller authz.Caller) ([]domain.Order, error) {
	if caller.Anonymous() {
		return nil, authz.ErrDenied
	}
	out := []domain.Order{}
	err := r.db.Select(&out, `
	  SELECT o.id, o.buyer_id, o.farmer_id, o.status, o.total_amount, o.delivery_method,
	         COALESCE(o.delivery_address,'') AS delivery_address,
	         COALESCE(o.requested_date,'') AS requested_date,
	         COALESCE(o.notes,'') AS notes,
	         o.created_at, COALESCE(o.updated_at,'') AS updated_at
	  FROM orders o
	  JOIN farmer_profiles fp ON fp.id = o.farmer_id
	  WHERE o.buyer_id=? OR fp.user_id=?
	  ORDER BY datetime(o.created_at) DESC
	`, caller.ID, caller.ID)
	return out, err
}

// Events lists the audit trail under the same visibility rule as the order.
func (r *OrderRepo) Events(caller authz.Caller, orderID string) ([]domain.OrderEvent, error) {
	if err := authz.CanAccessOrder(r.db, caller, orderID); err != nil {
		return nil, err
	}
	out := []domain.OrderEvent{}
	err := r.db.Select(&out, `
	  SELECT id, order_id, actor_id, event_type, status, note, lat, lng, created_at
	  FROM order_events
	  WHERE order_id=?
	  ORDER BY datetime(created_at), id
	`, orderID)
	return out, err
}
