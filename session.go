/*
Copyright © 2026 xLevitan
*/

package main

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	sessionKeyPrefix  = "session:"
	sessionHeader     = "X-Session-Id"
	adminTokenHeader  = "X-Admin-Token"
	minSessionIDChars = 8
	maxSessionIDChars = 64
)

// resolvePlayerIdentity maps a request to an opaque identity string.
// A session ID presented in the header is honored only if the store
// still knows it; anything else gets a fresh server-issued ID, echoed
// back in the response header so the client can persist it. Host
// platforms with real accounts would plug in here instead.
func resolvePlayerIdentity(cfg *Config, store Store, w http.ResponseWriter, r *http.Request) string {
	sid := r.Header.Get(sessionHeader)
	if len(sid) >= minSessionIDChars && len(sid) <= maxSessionIDChars {
		if _, ok := store.Get(sessionKeyPrefix + sid); ok {
			return "anon:" + sid
		}
	}

	id := uuid.NewString()
	store.Set(sessionKeyPrefix+id, "1", cfg.sessionTimeout)
	w.Header().Set(sessionHeader, id)

	return "anon:" + id
}

// isTrustedCaller gates the dev/reset endpoints. With no admin token
// configured they are disabled outright.
func isTrustedCaller(cfg *Config, r *http.Request) bool {
	return cfg.adminToken != "" && r.Header.Get(adminTokenHeader) == cfg.adminToken
}
