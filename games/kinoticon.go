package games

// One movie per day, rotating through a fixed catalog from an epoch date
// Players see six emoji clues and a cloud of tappable words
// The cloud mixes the title's real words with decoys from other catalog entries and generic filler
// Tapping a word that belongs to the title marks it green; a miss costs one of six tries
// The round ends on a full title match (70% of its words) or when tries run out

// Anti-cheat model:
// - The answer never travels to the client in the clear before game over
// - Clients verify taps against salted per-word hashes
// - The reveal blob is XOR-obfuscated, enough to keep it out of casual devtools
// - The server re-checks any claimed win from the submitted words before saving it

// Day selection:
// - A post made for day N stays pinned to day N via a stored binding
// - Dev menu can force an explicit day number or calendar date
// - Otherwise the UTC calendar date decides

// Implementation details:
// - All state lives behind a small get/set/del key-value capability
// - Duplicate syncs are last-write-wins; no locking
