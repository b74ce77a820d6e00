package domain

// FarmerProfile is the business face of a FARMER user; at most one per user.
type FarmerProfile struct {
	ID               string  `db:"id" json:"id"`
	UserID           string  `db:"user_id" json:"userId"`
	FarmName         string  `db:"farm_name" json:"farmName"`
	Description      string  `db:"description" json:"description,omitempty"`
	Address          string  `db:"address" json:"address,omitempty"`
	Lat              float64 `db:"lat" json:"lat"`
	Lng              float64 `db:"lng" json:"lng"`
	DeliveryRadiusKm float64 `db:"delivery_radius_km" json:"deliveryRadiusKm"`
	OffersPickup     bool    `db:"offers_pickup" json:"offersPickup"`
	OffersDelivery   bool    `db:"offers_delivery" json:"offersDelivery"`
	Practices        string  `db:"practices" json:"practices,omitempty"`
	Certifications   string  `db:"certifications" json:"certifications,omitempty"`
	CreatedAt        string  `db:"created_at" json:"createdAt"`
	UpdatedAt        string  `db:"updated_at" json:"updatedAt,omitempty"`
}

type Product struct {
	ID           string  `db:"id" json:"id"`
	FarmerID     string  `db:"farmer_id" json:"farmerId"`
	Name         string  `db:"name" json:"name"`
	Category     string  `db:"category" json:"category,omitempty"`
	Unit         string  `db:"unit" json:"unit"` // lb | bunch | dozen | each ...
	Price        float64 `db:"price" json:"price"`
	AvailableQty int     `db:"available_qty" json:"availableQty"`
	MinOrderQty  int     `db:"min_order_qty" json:"minOrderQty"`
	IsAvailable  bool    `db:"is_available" json:"isAvailable"`
	CreatedAt    string  `db:"created_at" json:"createdAt"`
	UpdatedAt    string  `db:"updated_at" json:"updatedAt,omitempty"`
}
