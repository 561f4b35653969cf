package models

import "time"

// Statuts d'un paiement UPI auto-déclaré
const (
	TxnPending = "pending"
	TxnSuccess = "success"
	TxnFailed  = "failed"
)

// Payment est l'objet de réconciliation éphémère créé au checkout.
// Il est muté exactement une fois, à la vérification.
type Payment struct {
	TransactionID string     `json:"transactionId"`
	OrderID       string     `json:"orderId"`
	CustomerID    string     `json:"customerId"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	VerifiedAt    *time.Time `json:"verifiedAt,omitempty"`
}
