package main

import (
	"fmt"
	"time"
)

// Puzzle is one catalog entry: a movie title, its release year, and the
// six emoji shown as clues. The catalog is an ordered rotation: the
// order is published via historical day numbers, so entries must never
// be reordered, only appended.
type Puzzle struct {
	Title  string
	Year   int
	Glyphs []string
}

var catalog = []Puzzle{
	{Title: "Gone Girl", Year: 2014, Glyphs: []string{"🎁", "💍", "📓", "🩸", "📺", "🤰"}},
	{Title: "The Avengers", Year: 2012, Glyphs: []string{"🧊", "👽", "🌀", "🏙️", "☢️", "🌯"}},
	{Title: "Rear Window", Year: 1954, Glyphs: []string{"🪟", "👁️", "📷", "🦽", "💡", "🚔"}},
	{Title: "Everything Everywhere All at Once", Year: 2022, Glyphs: []string{"🧾", "🥋", "🥯", "👁️", "🌭", "🌌"}},
	{Title: "Drive", Year: 2011, Glyphs: []string{"🚗", "🦂", "🧤", "🔨", "⏱️", "👱‍♀️"}},
	{Title: "Rocky", Year: 1976, Glyphs: []string{"🥊", "🥩", "🐢", "🥚", "🏃", "🏛️"}},
	{Title: "Casablanca", Year: 1942, Glyphs: []string{"🍸", "🎹", "📜", "🕵️", "✈️", "💔"}},
	{Title: "Star Wars: Episode III - Revenge of the Sith", Year: 2005, Glyphs: []string{"🌋", "⚔️", "🤰", "🦾", "🏛️", "👿"}},
	{Title: "Groundhog Day", Year: 1993, Glyphs: []string{"⏰", "🔁", "❄️", "🎤", "💘", "🌅"}},
	{Title: "The Princess Bride", Year: 1987, Glyphs: []string{"📖", "🏴‍☠️", "🤺", "🐀", "💊", "👰"}},
	{Title: "Parasite", Year: 2019, Glyphs: []string{"🎓", "🍑", "🕳️", "🍜", "⛺", "🔪"}},
	{Title: "Die Hard", Year: 1988, Glyphs: []string{"🏢", "🔫", "💥", "👮", "🎄", "🚁"}},
	{Title: "It Follows", Year: 2014, Glyphs: []string{"🔞", "🚶", "😱", "👀", "🐚", "🏊"}},
	{Title: "Whiplash", Year: 2014, Glyphs: []string{"🥁", "🎼", "🩸", "🤚", "🧢", "🤬"}},
	{Title: "No Country for Old Men", Year: 2007, Glyphs: []string{"💼", "💰", "🔫", "🤠", "🪙", "🏜️"}},
	{Title: "WALL·E", Year: 2008, Glyphs: []string{"🤖", "🗑️", "🪴", "🚀", "💃", "❤️"}},
	{Title: "The Matrix", Year: 1999, Glyphs: []string{"💊", "🕶️", "💻", "🥋", "🔫", "📞"}},
	{Title: "Midsommar", Year: 2019, Glyphs: []string{"😱", "✈️", "🌼", "👑", "☀️", "🔥"}},
	{Title: "Arrival", Year: 2016, Glyphs: []string{"🛸", "🐙", "🖐️", "⭕", "🗣️", "⏳"}},
	{Title: "Ex Machina", Year: 2014, Glyphs: []string{"🎟️", "🏞️", "🤖", "💃", "🔒", "🔪"}},
	{Title: "The Prestige", Year: 2006, Glyphs: []string{"🎩", "🐦", "⚡", "👯", "🛢️", "⚰️"}},
	{Title: "The Godfather", Year: 1972, Glyphs: []string{"💒", "🤝", "🔫", "🛏️", "🐴", "🍝"}},
	{Title: "Mad Max: Fury Road", Year: 2015, Glyphs: []string{"🏜️", "⛓️", "💉", "🚛", "💧", "💥"}},
	{Title: "Spider-Man: Into the Spider-Verse", Year: 2018, Glyphs: []string{"🏙️", "👟", "🎨", "🐷", "🕸️", "🧪"}},
	{Title: "Nosferatu", Year: 2024, Glyphs: []string{"💍", "🐎", "🏰", "🧛", "🐀", "🌅"}},
	{Title: "One Battle After Another", Year: 2025, Glyphs: []string{"🐍", "👨‍👧", "🎄", "📱", "🧬", "🪧"}},
	{Title: "Top Gun: Maverick", Year: 2022, Glyphs: []string{"✈️", "🏍️", "🎓", "🛩️", "🎖️", "🔥"}},
	{Title: "Inception", Year: 2010, Glyphs: []string{"🛌", "🚐", "🏢", "🏔️", "🌀", "🔫"}},
	{Title: "The Lord of the Rings: The Return of the King", Year: 2003, Glyphs: []string{"💍", "🗻", "🔥", "🕷️", "⚔️", "👑"}},
	{Title: "Get Out", Year: 2017, Glyphs: []string{"🚗", "🏠", "🥄", "🫖", "🧠", "🕳️"}},
	{Title: "Prisoners", Year: 2013, Glyphs: []string{"🏠", "🌹", "📹", "🛌", "💔", "🎭"}},
	{Title: "The Thing", Year: 1982, Glyphs: []string{"❄️", "🛖", "🐕", "🧬", "🔥", "😱"}},
	{Title: "The Silence of the Lambs", Year: 1991, Glyphs: []string{"👩‍🦰", "👮", "🧠", "🕳️", "🦋", "🔪"}},
	{Title: "Back to the Future", Year: 1985, Glyphs: []string{"🚗", "⚡", "⏰", "📅", "🎸", "🏫"}},
	{Title: "Gladiator", Year: 2000, Glyphs: []string{"⚔️", "🛡️", "🏟️", "👑", "🩸", "🗡️"}},
	{Title: "The Dark Knight", Year: 2008, Glyphs: []string{"🃏", "🪙", "👮", "🏥", "🚛", "💣"}},
	{Title: "Seven Samurai", Year: 1954, Glyphs: []string{"🌾", "🏘️", "⚔️", "🛡️", "🌧️", "🏹"}},
	{Title: "Hereditary", Year: 2018, Glyphs: []string{"👵", "🥜", "🚗", "🪵", "🛐", "👑"}},
	{Title: "12 Angry Men", Year: 1957, Glyphs: []string{"⚖️", "🚪", "🗣️", "🗳️", "🔪", "🤔"}},
	{Title: "The Grand Budapest Hotel", Year: 2014, Glyphs: []string{"🏨", "🛎️", "🖼️", "🏃", "🔒", "🚂"}},
	{Title: "Forrest Gump", Year: 1994, Glyphs: []string{"🏃", "🍫", "🚌", "🎖️", "🏓", "🦐"}},
	{Title: "Pulp Fiction", Year: 1994, Glyphs: []string{"💼", "🔫", "🍔", "💉", "🕺", "🍽️"}},
	{Title: "Jaws", Year: 1975, Glyphs: []string{"🦈", "🏖️", "🛢️", "👓", "🎼", "🩸"}},
	{Title: "Blade Runner 2049", Year: 2017, Glyphs: []string{"🌧️", "🤖", "👁️", "🔫", "🌾", "🦄"}},
	{Title: "Oppenheimer", Year: 2023, Glyphs: []string{"⚛️", "🧠", "🏜️", "💥", "📜", "⚖️"}},
	{Title: "Toy Story", Year: 1995, Glyphs: []string{"🤠", "🚀", "🧸", "🪀", "🚚", "🧒"}},
	{Title: "Spirited Away", Year: 2001, Glyphs: []string{"🚗", "🚪", "👧", "🐷", "🏯", "🐉"}},
	{Title: "The Seventh Seal", Year: 1957, Glyphs: []string{"♟️", "💀", "🏖️", "⛪", "🔥", "🕯️"}},
	{Title: "KPop Demon Hunters", Year: 2025, Glyphs: []string{"🎤", "🎶", "✨", "👹", "⚔️", "🏙️"}},
	{Title: "The Truman Show", Year: 1998, Glyphs: []string{"📺", "🏠", "🎭", "🌊", "🚪", "💡"}},
	{Title: "Fight Club", Year: 1999, Glyphs: []string{"🥊", "🧼", "🚬", "👥", "🏢", "🔥"}},
	{Title: "The Wizard of Oz", Year: 1939, Glyphs: []string{"🌈", "👠", "🧙", "🌪️", "🐶", "🎵"}},
	{Title: "Psycho", Year: 1960, Glyphs: []string{"📦", "🕯️", "🔍", "📒", "🔪", "☠️"}},
	{Title: "The Batman", Year: 2022, Glyphs: []string{"🌧️", "🤖", "👁️", "🔫", "🕊️", "🏙️"}},
	{Title: "Star Wars: Episode IV - A New Hope", Year: 1977, Glyphs: []string{"🌌", "🤖", "⚔️", "🔫", "🕊️", "🏙️"}},
	{Title: "Se7en", Year: 1995, Glyphs: []string{"📦", "✝️", "🔪", "🕵️", "7️⃣", "☠️"}},
	{Title: "Star Wars: Episode V - The Empire Strikes Back", Year: 1980, Glyphs: []string{"🌌", "⚔️", "🤖", "🧊", "👨‍👦", "👑"}},
	{Title: "Avengers: Endgame", Year: 2019, Glyphs: []string{"🦸", "🧤", "💎", "⏳", "💥", "🌌"}},
	{Title: "Goodfellas", Year: 1990, Glyphs: []string{"🕴️", "🍝", "💵", "🔫", "🤝", "🚬"}},
	{Title: "Blade Runner", Year: 1982, Glyphs: []string{"🌧️", "🏙️", "🤖", "🕵️", "👁️", "🕊️"}},
	{Title: "Joker", Year: 2019, Glyphs: []string{"🤡", "🚇", "🔫", "📺", "🔥", "🏥"}},
	{Title: "Knives Out", Year: 2019, Glyphs: []string{"🔪", "🏰", "👵", "🩸", "📜", "🕵️"}},
	{Title: "The Social Network", Year: 2010, Glyphs: []string{"💻", "🏫", "👥", "📈", "⚖️", "💔"}},
	{Title: "The Good, the Bad and the Ugly", Year: 1966, Glyphs: []string{"🤠", "🔫", "💰", "🏜️", "🪦", "💥"}},
	{Title: "21 Grams", Year: 2003, Glyphs: []string{"💔", "⚖️", "👨‍👩‍👦", "🏠", "📄", "😢"}},
	{Title: "The Shining", Year: 1980, Glyphs: []string{"🏨", "❄️", "🪓", "🚪", "🩸", "👦"}},
	{Title: "Monty Python and the Holy Grail", Year: 1975, Glyphs: []string{"🐴", "🥥", "🏰", "🐰", "⚔️", "👑"}},
	{Title: "50/50", Year: 2011, Glyphs: []string{"🧑‍⚕️", "🎰", "💊", "🚬", "💇", "🤞"}},
	{Title: "Taxi Driver", Year: 1976, Glyphs: []string{"🚕", "🧥", "🔫", "🕶️", "👱‍♀️", "📺"}},
	{Title: "Wolfwalkers", Year: 2020, Glyphs: []string{"🐺", "🌲", "🏹", "🌕", "👧", "✨"}},
	{Title: "2001: A Space Odyssey", Year: 1968, Glyphs: []string{"🦴", "🛰️", "🟥", "🧠", "🚀", "🌌"}},
	{Title: "To Kill a Mockingbird", Year: 1962, Glyphs: []string{"⚖️", "📖", "👨‍⚖️", "👧", "🏛️", "🐦"}},
	{Title: "The Sixth Sense", Year: 1999, Glyphs: []string{"👦", "👻", "🩸", "🔒", "🧠", "❄️"}},
	{Title: "Dune: Part One", Year: 2021, Glyphs: []string{"🏜️", "🪱", "💧", "👁️", "⚔️", "👑"}},
	{Title: "Trainspotting", Year: 1996, Glyphs: []string{"💉", "🚽", "🏃", "💷", "🎶", "💔"}},
	{Title: "Brokeback Mountain", Year: 2005, Glyphs: []string{"🏔️", "🐎", "👬", "💔", "👒", "🌾"}},
	{Title: "The Godfather Part II", Year: 1974, Glyphs: []string{"🎩", "💵", "🎲", "🚔", "🎭", "🔫"}},
	{Title: "Guardians of the Galaxy", Year: 2014, Glyphs: []string{"🚀", "🦝", "🌌", "💿", "💥", "🤝"}},
	{Title: "Léon: The Professional", Year: 1994, Glyphs: []string{"🕶️", "🔫", "👧", "🌱", "🏢", "💥"}},
	{Title: "Wreck-It Ralph", Year: 2012, Glyphs: []string{"🕹️", "👾", "🏁", "🍬", "🎮", "🏅"}},
	{Title: "1917", Year: 2019, Glyphs: []string{"👦", "🪖", "🔫", "🌍", "🔥", "💔"}},
	{Title: "C.R.A.Z.Y.", Year: 2005, Glyphs: []string{"🎸", "🙏", "👨‍👦", "🎄", "🚬", "💫"}},
	{Title: "300", Year: 2006, Glyphs: []string{"🛡️", "⚔️", "🏹", "💪", "🕳️", "👑"}},
	{Title: "Hunt for the Wilderpeople", Year: 2016, Glyphs: []string{"🌲", "👦", "👴", "🏃", "🚁", "🐗"}},
	{Title: "Birdman or (The Unexpected Virtue of Ignorance)", Year: 2014, Glyphs: []string{"🎭", "🦸", "🥁", "🗽", "🔫", "🎬"}},
	{Title: "Interstellar", Year: 2014, Glyphs: []string{"🌾", "🚀", "🌀", "⏳", "🕳️", "📚"}},
}

const (
	dayFormat        = "2006-01-02"
	defaultStartDate = "2026-02-04"
)

// daysFromStart returns the whole-day difference between two YYYY-MM-DD
// dates. Negative when date precedes start.
func daysFromStart(dateStr, startStr string) (int, error) {
	date, err := time.Parse(dayFormat, dateStr)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	start, err := time.Parse(dayFormat, startStr)
	if err != nil {
		return 0, fmt.Errorf("invalid start date %q: %w", startStr, err)
	}
	return int(date.Sub(start) / (24 * time.Hour)), nil
}

// dailyPuzzle resolves which catalog entry a request is about and the
// day number shown to players.
//
// A positive dayOverride wins and bypasses date math entirely; its
// display day is exactly the override. Otherwise dateOverride (or
// today, UTC) runs through date math, where the internal day is
// 0-based (and may be negative before the epoch) and the display day
// is internal+1. The catalog index clamps the raw internal day with
// max(0, day). The off-by-one asymmetry between the two paths is
// load-bearing: day keys derived from it are already persisted.
func dailyPuzzle(dayOverride int, dateOverride, startDate string, now time.Time) (Puzzle, int, error) {
	var day int

	switch {
	case dayOverride > 0:
		day = dayOverride - 1
	case dateOverride != "":
		d, err := daysFromStart(dateOverride, startDate)
		if err != nil {
			return Puzzle{}, 0, err
		}
		day = d
	default:
		d, err := daysFromStart(now.UTC().Format(dayFormat), startDate)
		if err != nil {
			return Puzzle{}, 0, err
		}
		day = d
	}

	index := day
	if index < 0 {
		index = 0
	}
	return catalog[index%len(catalog)], day + 1, nil
}

// validateCatalog runs at startup: a catalog entry whose title
// tokenizes to nothing would make its puzzle unwinnable, which is bad
// data, not a request-time condition.
func validateCatalog() error {
	seen := make(map[string]bool, len(catalog))
	for i, p := range catalog {
		if len(p.Glyphs) != 6 {
			return fmt.Errorf("catalog entry %d (%q): expected 6 clue glyphs, got %d", i, p.Title, len(p.Glyphs))
		}
		if len(tokenizeTitle(p.Title)) == 0 {
			return fmt.Errorf("catalog entry %d (%q): title tokenizes to no guessable words", i, p.Title)
		}
		if seen[p.Title] {
			return fmt.Errorf("catalog entry %d (%q): duplicate title", i, p.Title)
		}
		seen[p.Title] = true
	}
	return nil
}
