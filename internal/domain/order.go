package domain

// Order statuses. completed and cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// legalEdges is the enforced lifecycle: pending -> confirmed -> ready ->
// completed, with cancelled reachable from any non-terminal state.
var legalEdges = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether from -> to is a legal status edge.
func CanTransition(from, to string) bool {
	for _, s := range legalEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TerminalStatus reports whether s admits no further transitions.
func TerminalStatus(s string) bool { return len(legalEdges[s]) == 0 }

const (
	DeliveryMethodPickup   = "pickup"
	DeliveryMethodDelivery = "delivery"
)

type Order struct {
	ID              string  `db:"id" json:"id"`
	BuyerID         string  `db:"buyer_id" json:"buyerId"`
	FarmerID        string  `db:"farmer_id" json:"farmerId"`
	Status          string  `db:"status" json:"status"`
	TotalAmount     float64 `db:"total_amount" json:"totalAmount"`
	DeliveryMethod  string  `db:"delivery_method" json:"deliveryMethod"`
	DeliveryAddress string  `db:"delivery_address" json:"deliveryAddress,omitempty"`
	RequestedDate   string  `db:"requested_date" json:"requestedDate,omitempty"`
	Notes           string  `db:"notes" json:"notes,omitempty"`
	CreatedAt       string  `db:"created_at" json:"createdAt"`
	UpdatedAt       string  `db:"updated_at" json:"updatedAt,omitempty"`
}

// OrderItem lines are immutable once inserted; unit_price is the catalog
// price captured at order time, not the live price.
type OrderItem struct {
	ID        string  `db:"id" json:"id"`
	OrderID   string  `db:"order_id" json:"orderId"`
	ProductID string  `db:"product_id" json:"productId"`
	Quantity  int     `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unitPrice"`
	Subtotal  float64 `db:"subtotal" json:"subtotal"`
}

// Order event types. The audit trail is append-only.
const (
	EventStatusChange   = "status_change"
	EventNote           = "note"
	EventLocationUpdate = "location_update"
)

type OrderEvent struct {
	ID        string   `db:"id" json:"id"`
	OrderID   string   `db:"order_id" json:"orderId"`
	ActorID   string   `db:"actor_id" json:"actorId"`
	EventType string   `db:"event_type" json:"eventType"`
	Status    *string  `db:"status" json:"status,omitempty"`
	Note      *string  `db:"note" json:"note,omitempty"`
	Lat       *float64 `db:"lat" json:"lat,omitempty"`
	Lng       *float64 `db:"lng" json:"lng,omitempty"`
	CreatedAt string   `db:"created_at" json:"createdAt"`
}
