// Kinoticon verification codec
//
// The server never sends the answer up front. Clients get a keyed hash
// per canonical title token so guesses can be checked locally, plus an
// obfuscated answer blob decoded only after game over. The XOR blob is
// obfuscation, not cryptography; it exists so the reveal is instant,
// not so it survives a motivated reverse-engineer. The hash uses
// explicit 32-bit wraparound and base-36 rendering because that is the
// wire contract with clients, whatever the host integer width.

package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

// revealKeySuffix is appended to the per-day salt to form the XOR
// keystream, so the blob differs from a bare salted XOR of the title.
const revealKeySuffix = "-kinoticon"

// hashToken computes the keyed token hash: a 32-bit rolling hash
// (h = h*31 + c, i.e. (h<<5) - h + c with wraparound) over the UTF-16
// code units of lowercase(token)+salt, rendered base-36.
func hashToken(token, salt string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(strings.ToLower(token) + salt)) {
		h = (h << 5) - h + int32(c)
	}
	return strconv.FormatInt(int64(h), 36)
}

// titleHashes returns one hash per canonical token, in canonical
// iteration order. Derived fresh per request; must stay consistent
// with the salt it is served next to.
func titleHashes(p Puzzle, salt string) []string {
	tokens := tokenizeTitle(p.Title)
	hashes := make([]string, len(tokens))
	for i, t := range tokens {
		hashes[i] = hashToken(t, salt)
	}
	return hashes
}

// checkTokenHash reports whether a guessed word is an exact canonical
// token of the title, judged by hash membership only.
func checkTokenHash(word string, hashes []string, salt string) bool {
	h := hashToken(word, salt)
	for _, want := range hashes {
		if h == want {
			return true
		}
	}
	return false
}

type revealPayload struct {
	T string `json:"t"`
	Y int    `json:"y"`
}

func revealKeystream(salt string) []uint16 {
	return utf16.Encode([]rune(salt + revealKeySuffix))
}

// encryptReveal serializes {t: title, y: year} and XORs its UTF-16
// code units against the repeating keystream, hex-encoding each unit
// as four digits. Working in code units (not bytes) keeps encrypt and
// decrypt consistent across the whole Unicode range of titles.
func encryptReveal(title string, year int, salt string) string {
	payload, err := json.Marshal(revealPayload{T: title, Y: year})
	if err != nil {
		// Marshal of a string and an int cannot fail.
		panic(err)
	}

	key := revealKeystream(salt)
	var out strings.Builder
	for i, u := range utf16.Encode([]rune(string(payload))) {
		out.WriteString(fmt.Sprintf("%04x", u^key[i%len(key)]))
	}
	return out.String()
}

// decryptReveal reverses encryptReveal.
func decryptReveal(blob, salt string) (string, int, error) {
	if len(blob)%4 != 0 {
		return "", 0, fmt.Errorf("malformed reveal blob: length %d", len(blob))
	}

	key := revealKeystream(salt)
	units := make([]uint16, 0, len(blob)/4)
	for i := 0; i+4 <= len(blob); i += 4 {
		u, err := strconv.ParseUint(blob[i:i+4], 16, 16)
		if err != nil {
			return "", 0, fmt.Errorf("malformed reveal blob: %w", err)
		}
		units = append(units, uint16(u)^key[(i/4)%len(key)])
	}

	var payload revealPayload
	if err := json.Unmarshal([]byte(string(utf16.Decode(units))), &payload); err != nil {
		return "", 0, fmt.Errorf("reveal blob does not decode: %w", err)
	}
	return payload.T, payload.Y, nil
}
