package models

import "time"

// Statuts de commande. Le graphe de transition est volontairement permissif :
// le revendeur peut poser n'importe quel statut connu (voir handlers/order).
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Statuts de paiement (absent = pending)
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// KnownOrderStatus vérifie l'appartenance à l'énumération
func KnownOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID            string      `json:"id"`
	CustomerID    string      `json:"customerId"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	CustomerPhone string      `json:"customerPhone,omitempty"`
	Items         []OrderItem `json:"items"`

	// Snapshot figé à la commande : prix/nom des items + total, jamais mutés
	TotalAmount     float64 `json:"totalAmount"`
	ShippingAddress Address `json:"shippingAddress"`

	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus,omitempty"`

	Barcode        string `json:"barcode,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`

	EstimatedDelivery    *time.Time `json:"estimatedDelivery,omitempty"`
	DeliveryConfirmed    bool       `json:"deliveryConfirmed"`
	DeliveryConfirmedAt  *time.Time `json:"deliveryConfirmedAt,omitempty"`
	BarcodeRegeneratedAt *time.Time `json:"barcodeRegeneratedAt,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// OrderItem est une copie de produit au moment de l'achat, pas une référence
type OrderItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"imageUrl,omitempty"`
}

// Address : les cinq champs sont requis au checkout
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

// Complete indique si l'adresse est entièrement renseignée
func (a Address) Complete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.Pincode != "" && a.Country != ""
}
