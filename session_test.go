package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestResolvePlayerIdentityIssuesAndReuses(t *testing.T) {
	cfg := &Config{sessionTimeout: time.Hour}
	store := newMemoryStore(0)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	first := resolvePlayerIdentity(cfg, store, w, r)

	sid := w.Header().Get(sessionHeader)
	if sid == "" {
		t.Fatal("no session ID issued")
	}
	if first != "anon:"+sid {
		t.Fatalf("identity %q does not match issued ID %q", first, sid)
	}

	// Presenting the issued ID yields the same identity, without a
	// fresh ID in the response.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(sessionHeader, sid)
	w = httptest.NewRecorder()
	second := resolvePlayerIdentity(cfg, store, w, r)

	if second != first {
		t.Fatalf("identity changed across requests: %q then %q", first, second)
	}
	if w.Header().Get(sessionHeader) != "" {
		t.Error("known session was re-issued an ID")
	}
}

func TestResolvePlayerIdentityRejectsUnknownIDs(t *testing.T) {
	cfg := &Config{sessionTimeout: time.Hour}
	store := newMemoryStore(0)

	for _, sid := range []string{
		"never-issued-id",              // well-formed but unknown
		"short",                        // under the length floor
		strings.Repeat("x", 65),        // over the ceiling
		"anon:injected-prefix-attempt", // ID is opaque, prefix included
	} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(sessionHeader, sid)
		w := httptest.NewRecorder()

		got := resolvePlayerIdentity(cfg, store, w, r)
		if got == "anon:"+sid {
			t.Errorf("presented ID %q was honored without being issued", sid)
		}
		if w.Header().Get(sessionHeader) == "" {
			t.Errorf("no replacement ID issued for rejected %q", sid)
		}
	}
}

func TestIsTrustedCaller(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(adminTokenHeader, "hunter2")

	if !isTrustedCaller(&Config{adminToken: "hunter2"}, r) {
		t.Error("matching token not trusted")
	}
	if isTrustedCaller(&Config{adminToken: "other"}, r) {
		t.Error("mismatched token trusted")
	}

	// An empty configured token disables the gate even for an empty
	// header.
	bare := httptest.NewRequest(http.MethodGet, "/", nil)
	if isTrustedCaller(&Config{}, bare) {
		t.Error("empty configured token trusted a caller")
	}
}
