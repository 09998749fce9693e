package main

import "strings"

// winThreshold returns how many canonical tokens must be matched to
// win: ceil(0.7 * total), computed in integers.
func winThreshold(total int) int {
	return (total*7 + 9) / 10
}

// checkWin is the server-authoritative win rule, computed from
// plaintext tokens. Matching is substring-based in either direction
// (guessing "spider" matches the token "spiderman"); each token counts
// at most once. Win iff at least 70% of the tokens are matched. An
// empty token set is never a win.
func checkWin(guessedWords, canonicalTokens []string) bool {
	if len(canonicalTokens) == 0 {
		return false
	}

	matched := 0
	for _, token := range canonicalTokens {
		t := strings.ToLower(token)
		for _, guess := range guessedWords {
			g := strings.ToLower(guess)
			if strings.Contains(t, g) || strings.Contains(g, t) {
				matched++
				break
			}
		}
	}
	return matched >= winThreshold(len(canonicalTokens))
}

// checkWinByHashes is the client-side form of the same threshold rule,
// computed from hashes since the client never sees plaintext tokens.
// Matching is exact hash equality, not substring. The two forms are
// not equivalent: the server is more forgiving than the live feedback
// the client shows. Each hash counts at most once.
func checkWinByHashes(guessedWords, hashes []string, salt string) bool {
	if len(hashes) == 0 {
		return false
	}

	want := make(map[string]bool, len(hashes))
	for _, h := range hashes {
		want[h] = true
	}

	matched := make(map[string]bool, len(hashes))
	for _, guess := range guessedWords {
		h := hashToken(guess, salt)
		if want[h] {
			matched[h] = true
		}
	}
	return len(matched) >= winThreshold(len(hashes))
}
