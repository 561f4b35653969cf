package utils

import (
	"math/rand"
	"strconv"
	"time"
)

// Les ids sont des clés KV : le préfixe sert au scan, le timestamp au tri,
// le suffixe aléatoire à l'unicité (probabiliste — aucune vérification
// d'existence n'est faite, collision jugée négligeable).

const base36 = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewOrderID génère "order:<ms>_<9 car. base36>"
func NewOrderID(now time.Time) string {
	return "order:" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + randBase36(9)
}

// NewProductID génère "product:<ms>_<9 car. base36>"
func NewProductID(now time.Time) string {
	return "product:" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + randBase36(9)
}

// NewTransactionID génère "TXN<ms>" (clé KV : "payment:" + id)
func NewTransactionID(now time.Time) string {
	return "TXN" + strconv.FormatInt(now.UnixMilli(), 10)
}

func randBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}
