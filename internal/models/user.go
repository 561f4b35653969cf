package models

import "time"

// User est le compte client stocké sous user:email:<email>.
// Password contient un hash argon2id, jamais le mot de passe en clair.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Password   string    `json:"password,omitempty"`
	Provider   string    `json:"provider"` // "local", "google", "facebook"
	ProviderID string    `json:"providerId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserProfile est le profil public, stocké sous user_profile:<userId>
type UserProfile struct {
	UserID    string     `json:"userId"`
	Name      string     `json:"name"`
	UserType  string     `json:"userType"` // "customer" ou "retailer"
	Address   *Address   `json:"address,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Session revendeur, stockée sous session:<token>
type Session struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	UserType  string    `json:"userType"`
	CreatedAt time.Time `json:"createdAt"`
}
