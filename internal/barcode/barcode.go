// Package barcode porte la génération des identifiants de suivi des
// commandes : code-barres VST, numéro de suivi VAST et date de livraison
// estimée. Les codes sont stockés sans tirets ; les tirets ne servent
// qu'à l'affichage.
package barcode

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	barcodePrefix  = "VST"
	trackingPrefix = "VAST"

	upperAlnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var (
	barcodeRe  = regexp.MustCompile(`^VST[A-Z0-9]{13,20}$`)
	trackingRe = regexp.MustCompile(`^VAST\d{12}$`)
)

// Generate construit un code-barres : VST + timestamp base-36 majuscule
// + 4 caractères tirés de l'id de commande (ou aléatoires à défaut)
// + 4 caractères aléatoires. Deux appels au même instant divergent donc
// quand même.
func Generate(orderID string, now time.Time) string {
	timestamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	random := randUpper(4)
	orderPart := orderFragment(orderID)
	if orderPart == "" {
		orderPart = random
	}
	return barcodePrefix + timestamp + orderPart + random
}

// orderFragment extrait les 4 premiers caractères du suffixe aléatoire
// d'un id "order:<ts>_<rand>"
func orderFragment(orderID string) string {
	_, suffix, ok := strings.Cut(orderID, "_")
	if !ok || suffix == "" {
		return ""
	}
	if len(suffix) > 4 {
		suffix = suffix[:4]
	}
	return strings.ToUpper(suffix)
}

// GenerateTracking construit un numéro de suivi : VAST + les 8 derniers
// chiffres du timestamp milliseconde + 4 chiffres aléatoires
func GenerateTracking(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ts) > 8 {
		ts = ts[len(ts)-8:]
	}
	random := fmt.Sprintf("%04d", rand.Intn(10000))
	return trackingPrefix + ts + random
}

// EstimatedDelivery retourne la date de commande + 5 à 7 jours
func EstimatedDelivery(createdAt time.Time) time.Time {
	return createdAt.AddDate(0, 0, 5+rand.Intn(3))
}

// Normalize retire les tirets d'affichage avant comparaison
func Normalize(code string) string {
	return strings.ReplaceAll(code, "-", "")
}

// FormatDisplay insère des tirets pour la lisibilité : VST-XXXXX-XXXX-XXXX
func FormatDisplay(code string) string {
	if code == "" {
		return "N/A"
	}
	if len(code) < 16 {
		return code
	}
	return code[:3] + "-" + code[3:8] + "-" + code[8:12] + "-" + code[12:]
}

// Valid vérifie le format d'un code-barres (tirets tolérés)
func Valid(code string) bool {
	return barcodeRe.MatchString(Normalize(code))
}

// ValidTracking vérifie le format d'un numéro de suivi
func ValidTracking(code string) bool {
	return trackingRe.MatchString(code)
}

func randUpper(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = upperAlnum[rand.Intn(len(upperAlnum))]
	}
	return string(b)
}
