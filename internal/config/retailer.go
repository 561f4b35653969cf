package config

// Le revendeur est un principal unique injecté par configuration.
// Son mot de passe vit dans le KV (hash argon2id), jamais ici.

const (
	// Clé KV du hash de mot de passe revendeur
	RetailerPasswordKey = "retailer:password:hash"

	// Identité fixe du revendeur dans les sessions et les commandes
	RetailerID = "retailer:fixed"
)

// RetailerEmail retourne l'email du compte revendeur
func RetailerEmail() string {
	return Getenv("RETAILER_EMAIL", "retailer@vastralaya.in")
}

// ShippingFee retourne les frais de livraison fixes (en roupies)
func ShippingFee() float64 {
	// valeur par défaut alignée sur le front
	return getenvFloat("SHIPPING_FEE", 100)
}

// MerchantVPA retourne l'adresse UPI du marchand
func MerchantVPA() string {
	return Getenv("UPI_MERCHANT_VPA", "vastralaya@phonepe")
}

// MerchantName retourne le nom d'affichage du marchand dans les apps UPI
func MerchantName() string {
	return Getenv("UPI_MERCHANT_NAME", "Vastralaya")
}
