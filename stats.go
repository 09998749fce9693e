/*
Copyright © 2026 xLevitan
*/

package main

import (
	"encoding/json"
	"math"
	"sort"
)

const (
	statsKeyPrefix = "stats:"
	leaderboardKey = "leaderboard:list"
	leaderboardMax = 500
	leaderboardTop = 100
	aroundHalf     = 4
)

type playerStats struct {
	GamesPlayed   int `json:"gamesPlayed"`
	GamesWon      int `json:"gamesWon"`
	CurrentStreak int `json:"currentStreak"`
	MaxStreak     int `json:"maxStreak"`
	LastPlayedDay int `json:"lastPlayedDay"`
}

func winRate(s playerStats) int {
	if s.GamesPlayed == 0 {
		return 0
	}
	return int(math.Round(float64(s.GamesWon) / float64(s.GamesPlayed) * 100))
}

func loadStats(store Store, userID string) (playerStats, bool) {
	raw, ok := store.Get(statsKeyPrefix + userID)
	if !ok {
		return playerStats{}, false
	}
	var s playerStats
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return playerStats{}, false
	}
	return s, true
}

// updatePlayerStats records a finished game. The streak continues when
// the previous finished day was yesterday's (dayNumber-1) or this is
// the first recorded game; a loss always resets it.
func updatePlayerStats(store Store, userID string, won bool, dayNumber int) playerStats {
	stats, _ := loadStats(store, userID)

	stats.GamesPlayed++

	if won {
		stats.GamesWon++

		if stats.LastPlayedDay == dayNumber-1 || stats.LastPlayedDay == 0 {
			stats.CurrentStreak++
		} else {
			stats.CurrentStreak = 1
		}

		if stats.CurrentStreak > stats.MaxStreak {
			stats.MaxStreak = stats.CurrentStreak
		}
	} else {
		stats.CurrentStreak = 0
	}

	stats.LastPlayedDay = dayNumber

	raw, _ := json.Marshal(stats)
	store.Set(statsKeyPrefix+userID, string(raw), 0)
	updateLeaderboardEntry(store, userID, stats)

	return stats
}

type leaderboardRow struct {
	UserID        string `json:"userId"`
	GamesPlayed   int    `json:"gamesPlayed"`
	GamesWon      int    `json:"gamesWon"`
	WinRate       int    `json:"winRate"`
	CurrentStreak int    `json:"currentStreak"`
	MaxStreak     int    `json:"maxStreak"`
}

func loadLeaderboard(store Store) []leaderboardRow {
	raw, ok := store.Get(leaderboardKey)
	if !ok {
		return nil
	}
	var rows []leaderboardRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil
	}
	return rows
}

func sortLeaderboard(rows []leaderboardRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].GamesWon != rows[j].GamesWon {
			return rows[i].GamesWon > rows[j].GamesWon
		}
		return rows[i].WinRate > rows[j].WinRate
	})
}

// updateLeaderboardEntry rewrites the caller's row and trims the list.
// The whole board lives under one key; last-write-wins races between
// near-simultaneous updates are tolerated.
func updateLeaderboardEntry(store Store, userID string, stats playerStats) {
	rows := loadLeaderboard(store)

	row := leaderboardRow{
		UserID:        userID,
		GamesPlayed:   stats.GamesPlayed,
		GamesWon:      stats.GamesWon,
		WinRate:       winRate(stats),
		CurrentStreak: stats.CurrentStreak,
		MaxStreak:     stats.MaxStreak,
	}

	found := false
	for i := range rows {
		if rows[i].UserID == userID {
			rows[i] = row
			found = true
			break
		}
	}
	if !found {
		rows = append(rows, row)
	}

	sortLeaderboard(rows)
	if len(rows) > leaderboardMax {
		rows = rows[:leaderboardMax]
	}

	raw, _ := json.Marshal(rows)
	store.Set(leaderboardKey, string(raw), 0)
}

func removeFromLeaderboard(store Store, userID string) {
	rows := loadLeaderboard(store)

	kept := rows[:0]
	for _, r := range rows {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(rows) {
		return
	}

	raw, _ := json.Marshal(kept)
	store.Set(leaderboardKey, string(raw), 0)
}
