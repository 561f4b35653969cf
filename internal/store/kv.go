package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Le front et les handlers ne connaissent qu'un KV plat : get/set/delete/scan
// par préfixe. Redis le porte en production, une implémentation mémoire sert
// pour les tests.

var ErrNotFound = errors.New("clé introuvable")

// Client est l'implémentation active. Positionné au démarrage (Redis) ou par
// les tests (mémoire).
var Client KV

type KV interface {
	// Get décode la valeur JSON de key dans dest, ou ErrNotFound
	Get(ctx context.Context, key string, dest any) error

	// Set écrit value (sérialisée JSON) sous key, sans expiration
	Set(ctx context.Context, key string, value any) error

	// SetTTL écrit value avec une durée de vie (sessions revendeur)
	SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete supprime key ; pas d'erreur si absente
	Delete(ctx context.Context, key string) error

	// GetByPrefix retourne les valeurs brutes de toutes les clés du préfixe.
	// Aucun ordre garanti — l'appelant trie.
	GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error)

	// Update applique mutate sur la valeur courante puis réécrit, de façon
	// atomique (WATCH/MULTI côté Redis). Ferme la fenêtre lecture-modification-
	// écriture des handlers. mutate reçoit le JSON courant et retourne la
	// nouvelle valeur à écrire.
	Update(ctx context.Context, key string, mutate func(raw json.RawMessage) (any, error)) error
}

// --- Raccourcis paquet (même style que le cache) ---

func Get(ctx context.Context, key string, dest any) error {
	return Client.Get(ctx, key, dest)
}

func Set(ctx context.Context, key string, value any) error {
	return Client.Set(ctx, key, value)
}

func SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	return Client.SetTTL(ctx, key, value, ttl)
}

func Delete(ctx context.Context, key string) error {
	return Client.Delete(ctx, key)
}

func GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error) {
	return Client.GetByPrefix(ctx, prefix)
}

func Update(ctx context.Context, key string, mutate func(raw json.RawMessage) (any, error)) error {
	return Client.Update(ctx, key, mutate)
}
