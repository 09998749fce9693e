package main

// Generic filler vocabulary for the word cloud. Unrelated to any
// catalog title on purpose; collisions with the day's true tokens are
// skipped at build time.
var fillerWords = []string{
	"action", "adventure", "love", "war", "death", "life", "dream", "night", "day",
	"king", "queen", "prince", "princess", "hero", "villain", "monster", "ghost",
	"city", "world", "space", "time", "future", "past", "secret", "mystery",
	"dark", "light", "fire", "water", "earth", "sky", "star", "moon", "sun",
	"man", "woman", "boy", "girl", "child", "family", "friend", "enemy",
	"home", "house", "castle", "island", "mountain", "forest", "ocean", "river",
	"gold", "silver", "diamond", "magic", "power", "force", "spirit", "soul",
	"blood", "heart", "mind", "eye", "hand", "shadow", "storm", "wind",
	"game", "story", "tale", "legend", "myth", "saga", "chronicles", "journey",
	"battle", "fight", "quest", "mission", "escape", "revenge", "return",
	"final", "last", "first", "new", "old", "great", "little", "big", "small",
	"wild", "lost", "hidden", "broken", "fallen", "rising", "coming", "going",
	"american", "iron", "steel", "stone", "wood", "glass", "metal", "robot",
	"alien", "human", "animal", "bird", "fish", "dragon", "wolf", "lion", "bear",
}

const (
	maxDecoyEntries = 15
	fillerCount     = 10
)

// buildWordCloud assembles the selectable words for a puzzle: every
// canonical token of its title, decoy tokens harvested from other
// catalog entries, and generic filler, shuffled deterministically by
// seed. The same (puzzle, seed) always yields the same sequence.
func buildWordCloud(p Puzzle, seed int) []string {
	trueTokens := tokenizeTitle(p.Title)
	trueSet := tokenSet(trueTokens)

	words := make([]string, 0, len(trueTokens)+maxDecoyEntries+fillerCount)
	words = append(words, trueTokens...)
	inCloud := tokenSet(trueTokens)

	// Decoys: walk the catalog at stride 7 from the seed. Entry count is
	// bounded, cross-entry duplicate tokens collapse.
	numDecoys := maxDecoyEntries
	if len(catalog) < numDecoys {
		numDecoys = len(catalog)
	}
	for i := 0; i < numDecoys; i++ {
		decoy := catalog[mod(seed+i*7, len(catalog))]
		if decoy.Title == p.Title {
			continue
		}
		for _, w := range tokenizeTitle(decoy.Title) {
			if trueSet[w] || inCloud[w] {
				continue
			}
			inCloud[w] = true
			words = append(words, w)
		}
	}

	// Filler: stride 13 over the fixed vocabulary.
	for i := 0; i < fillerCount; i++ {
		w := fillerWords[mod(seed+i*13, len(fillerWords))]
		if trueSet[w] || inCloud[w] {
			continue
		}
		inCloud[w] = true
		words = append(words, w)
	}

	shuffleWords(words, seed)
	return words
}

// mod is a floored modulus, non-negative for any x. Day numbers go
// negative for pre-epoch dates and still need valid table indices.
func mod(x, n int) int {
	return ((x % n) + n) % n
}

// shuffleWords is a seeded Fisher-Yates over a linear congruential
// generator. The recurrence and the 31-bit truncation are part of the
// wire contract: clients reproduce the same order from the same seed,
// so neither may change.
func shuffleWords(words []string, seed int) {
	state := int64(seed)
	for i := len(words) - 1; i > 0; i-- {
		state = (state*1103515245 + 12345) & 0x7fffffff
		j := int(state % int64(i+1))
		words[i], words[j] = words[j], words[i]
	}
}
