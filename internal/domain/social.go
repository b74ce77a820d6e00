package domain

type Review struct {
	ID        string  `db:"id" json:"id"`
	FarmerID  string  `db:"farmer_id" json:"farmerId"`
	BuyerID   string  `db:"buyer_id" json:"buyerId"`
	OrderID   *string `db:"order_id" json:"orderId,omitempty"`
	Rating    int     `db:"rating" json:"rating"`
	Comment   string  `db:"comment" json:"comment,omitempty"`
	CreatedAt string  `db:"created_at" json:"createdAt"`
	UpdatedAt string  `db:"updated_at" json:"updatedAt,omitempty"`
}

type Favorite struct {
	ID        string `db:"id" json:"id"`
	BuyerID   string `db:"buyer_id" json:"buyerId"`
	FarmerID  string `db:"farmer_id" json:"farmerId"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

type Message struct {
	ID          string `db:"id" json:"id"`
	SenderID    string `db:"sender_id" json:"senderId"`
	RecipientID string `db:"recipient_id" json:"recipientId"`
	Content     string `db:"content" json:"content"`
	IsRead      bool   `db:"is_read" json:"isRead"`
	CreatedAt   string `db:"created_at" json:"createdAt"`
}

// Notification types; rows are produced only by server-side logic inside
// the transaction that caused them.
const (
	NotifOrderCreated       = "order_created"
	NotifOrderStatusChanged = "order_status_changed"
	NotifFavorited          = "favorited"
)

type Notification struct {
	ID          string `db:"id" json:"id"`
	RecipientID string `db:"recipient_id" json:"recipientId"`
	Type        string `db:"type" json:"type"`
	Title       string `db:"title" json:"title"`
	Message     string `db:"message" json:"message,omitempty"`
	Meta        string `db:"meta" json:"meta,omitempty"` // JSON blob (order id, farmer id, ...)
	IsRead      bool   `db:"is_read" json:"isRead"`
	CreatedAt   string `db:"created_at" json:"createdAt"`
}
