package barcode

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFormat(t *testing.T) {
	now := time.Now()
	code := Generate("order:1700000000000_k3j9x2m1q", now)

	assert.True(t, strings.HasPrefix(code, "VST"))
	assert.True(t, Valid(code), "code généré invalide: %s", code)
	// le fragment d'id de commande doit apparaître après le timestamp
	assert.Contains(t, code, "K3J9")
}

func TestGenerateWithoutOrderSuffix(t *testing.T) {
	// id sans underscore → fragment aléatoire, le format reste valide
	code := Generate("legacy-id", time.Now())
	assert.True(t, Valid(code), "code généré invalide: %s", code)
}

func TestGenerateDivergesAtSameInstant(t *testing.T) {
	now := time.Now()
	a := Generate("order:1700000000000_k3j9x2m1q", now)
	b := Generate("order:1700000000000_k3j9x2m1q", now)
	assert.NotEqual(t, a, b)
}

func TestGenerateTrackingFormat(t *testing.T) {
	code := GenerateTracking(time.Now())
	assert.True(t, ValidTracking(code), "numéro de suivi invalide: %s", code)
	assert.Len(t, code, 16) // VAST + 8 + 4
}

func TestEstimatedDeliveryWindow(t *testing.T) {
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		est := EstimatedDelivery(createdAt)
		days := est.Sub(createdAt).Hours() / 24
		require.GreaterOrEqual(t, days, 5.0)
		require.LessOrEqual(t, days, 7.0)
	}
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "N/A", FormatDisplay(""))
	assert.Equal(t, "SHORT", FormatDisplay("SHORT"))

	code := "VSTABCDE1234WXYZ"
	display := FormatDisplay(code)
	assert.Equal(t, "VST-ABCDE-1234-WXYZ", display)

	// aller-retour : l'affichage normalisé redonne le code stocké
	assert.Equal(t, code, Normalize(display))
}

func TestValidToleratesDashes(t *testing.T) {
	code := Generate("order:1700000000000_k3j9x2m1q", time.Now())
	assert.True(t, Valid(FormatDisplay(code)))
}

func TestValidRejectsGarbage(t *testing.T) {
	assert.False(t, Valid("VAST123456789012")) // numéro de suivi, pas un code-barres
	assert.False(t, Valid("VSTab"))
	assert.False(t, Valid(""))
	assert.False(t, ValidTracking("VST1234567890"))
}
