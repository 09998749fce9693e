// Kinoticon Daily Game
//
// Every calendar day maps to one movie in the catalog. Players see six
// emoji clues and a word cloud mixing the title's real tokens with
// decoys from other entries and generic filler, and tap words to guess
// the title within six tries.
//
// Features:
// - Deterministic daily rotation from a configurable epoch date
// - Word cloud regenerated per request from (puzzle, day), never stored
// - Clients check guesses against keyed token hashes; the plaintext
//   answer is only ever sent as an XOR-obfuscated reveal blob
// - Sync is client-driven, but a claimed win is recomputed server-side
//   from the submitted words before anything is persisted
// - Day overrides: explicit day number (testDay), explicit date, or a
//   stored post binding, each with its own state key namespace
// - Per-player stats with streaks, and a small shared leaderboard
// - Anonymous identities via server-issued session IDs
// - Admin endpoints (token-gated) to reset state and bind posts
// - Live finish feed over a websocket for spectators
// - In-game QR button to share the game URL, backed by go-qrcode

package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const (
	playerKeyPrefix  = "player:"
	postDayKeyPrefix = "post:day:"
	startDateKey     = "kinoticon:start-date"
	postBindTTL      = 400 * 24 * time.Hour

	maxTries = 6
)

type kinoGame struct {
	cfg   *Config
	store Store
	feed  *finishFeed
}

// dayState is the per-(player, day) record. Overwritten wholesale on
// every sync; last write wins.
type dayState struct {
	SelectedWords []string `json:"selectedWords"`
	CorrectWords  []string `json:"correctWords"`
	TriesLeft     int      `json:"triesLeft"`
	GameOver      bool     `json:"gameOver"`
	Won           bool     `json:"won"`
}

func newDayState() dayState {
	return dayState{
		SelectedWords: []string{},
		CorrectWords:  []string{},
		TriesLeft:     maxTries,
	}
}

func playerStateKey(userID, dayKey string) string {
	return playerKeyPrefix + userID + ":" + dayKey
}

// resolvedDay ties together everything derived from one day: the
// puzzle, the display day number (which seeds the word cloud), and the
// day key used for state storage and as the hash salt.
type resolvedDay struct {
	puzzle    Puzzle
	dayNumber int
	dayKey    string
}

// startDate returns the catalog epoch: the configured date if set,
// otherwise a date pinned in the store on first run (so a dev instance
// starts its rotation "today" and keeps it across restarts).
func (g *kinoGame) startDate() string {
	if g.cfg.startDate != "" {
		return g.cfg.startDate
	}
	if stored, ok := g.store.Get(startDateKey); ok {
		return stored
	}
	d := time.Now().UTC().Format(dayFormat)
	g.store.Set(startDateKey, d, 0)
	return d
}

// resolveDay resolves the request's day: post binding > testDay > date
// > today. A testDay forces any post binding to be ignored so the dev
// menu always gets the day it asked for.
func (g *kinoGame) resolveDay(postID string, testDay int, date string) (resolvedDay, error) {
	start := g.startDate()

	if postID != "" && testDay <= 0 {
		if stored, ok := g.store.Get(postDayKeyPrefix + postID); ok {
			if day, err := strconv.Atoi(stored); err == nil && day > 0 {
				puzzle, dayNumber, err := dailyPuzzle(day, "", start, time.Now())
				if err != nil {
					return resolvedDay{}, err
				}
				return resolvedDay{puzzle: puzzle, dayNumber: dayNumber, dayKey: "post-day-" + stored}, nil
			}
		}
	}

	puzzle, dayNumber, err := dailyPuzzle(testDay, date, start, time.Now())
	if err != nil {
		return resolvedDay{}, err
	}

	dayKey := date
	switch {
	case testDay > 0:
		dayKey = "test-day-" + strconv.Itoa(testDay)
	case dayKey == "":
		dayKey = time.Now().UTC().Format(dayFormat)
	}

	return resolvedDay{puzzle: puzzle, dayNumber: dayNumber, dayKey: dayKey}, nil
}

func (g *kinoGame) loadState(userID, dayKey string) (dayState, bool) {
	raw, ok := g.store.Get(playerStateKey(userID, dayKey))
	if !ok {
		return dayState{}, false
	}
	var s dayState
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return dayState{}, false
	}
	if s.SelectedWords == nil {
		s.SelectedWords = []string{}
	}
	if s.CorrectWords == nil {
		s.CorrectWords = []string{}
	}
	return s, true
}

func (g *kinoGame) saveState(userID, dayKey string, s dayState) {
	raw, _ := json.Marshal(s)
	g.store.Set(playerStateKey(userID, dayKey), string(raw), g.cfg.stateTimeout)
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	securityHeaders(cfg, w)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func writeError(cfg *Config, w http.ResponseWriter, message string) {
	writeJSON(cfg, w, http.StatusBadRequest, statusResponse{Status: "error", Message: message})
}

// parseDate accepts only YYYY-MM-DD; anything else is treated as
// absent rather than failing the request.
func parseDate(raw string) string {
	if _, err := time.Parse(dayFormat, raw); err != nil {
		return ""
	}
	return raw
}

func parseDayNumber(raw string) int {
	day, err := strconv.Atoi(raw)
	if err != nil || day <= 0 {
		return 0
	}
	return day
}

type dailyGameResponse struct {
	Emojis         []string `json:"emojis"`
	WordCloud      []string `json:"wordCloud"`
	TitleHashes    []string `json:"titleHashes"`
	Salt           string   `json:"salt"`
	EncryptedMovie string   `json:"encryptedMovie"`
	TriesLeft      int      `json:"triesLeft"`
	GameOver       bool     `json:"gameOver"`
	Won            bool     `json:"won"`
	SelectedWords  []string `json:"selectedWords"`
	CorrectWords   []string `json:"correctWords"`
	DayNumber      int      `json:"dayNumber"`
	AlreadyPlayed  bool     `json:"alreadyPlayed"`
}

// serveDaily initializes or returns the caller's state for the
// resolved day, together with everything the client needs to play
// without another round-trip: clue glyphs, the word cloud, the token
// hashes, and the obfuscated reveal.
func (g *kinoGame) serveDaily() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()
		userID := resolvePlayerIdentity(g.cfg, g.store, w, r)

		query := r.URL.Query()
		resolved, err := g.resolveDay(
			query.Get("postId"),
			parseDayNumber(query.Get("testDay")),
			parseDate(query.Get("date")),
		)
		if err != nil {
			writeError(g.cfg, w, "failed to resolve daily puzzle")
			return
		}

		salt := resolved.dayKey
		resp := dailyGameResponse{
			Emojis:         resolved.puzzle.Glyphs,
			WordCloud:      buildWordCloud(resolved.puzzle, resolved.dayNumber),
			TitleHashes:    titleHashes(resolved.puzzle, salt),
			Salt:           salt,
			EncryptedMovie: encryptReveal(resolved.puzzle.Title, resolved.puzzle.Year, salt),
			DayNumber:      resolved.dayNumber,
		}

		state, ok := g.loadState(userID, resolved.dayKey)
		if !ok {
			state = newDayState()
			g.saveState(userID, resolved.dayKey, state)
		}

		resp.TriesLeft = state.TriesLeft
		resp.GameOver = state.GameOver
		resp.Won = state.Won
		resp.SelectedWords = state.SelectedWords
		resp.CorrectWords = state.CorrectWords
		resp.AlreadyPlayed = state.GameOver

		writeJSON(g.cfg, w, http.StatusOK, resp)

		logf(g.cfg, "GAMES: Served day %d (%s) to %s in %s",
			resolved.dayNumber,
			resolved.dayKey,
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

type syncRequest struct {
	SelectedWords []any  `json:"selectedWords"`
	CorrectWords  []any  `json:"correctWords"`
	TriesLeft     *int   `json:"triesLeft"`
	GameOver      bool   `json:"gameOver"`
	Won           bool   `json:"won"`
	TestDay       int    `json:"testDay"`
	Date          string `json:"date"`
	PostID        string `json:"postId"`
}

type syncResponse struct {
	Status     string `json:"status"`
	MovieTitle string `json:"movieTitle,omitempty"`
	MovieYear  int    `json:"movieYear,omitempty"`
}

// onlyStrings drops non-string members and lowercases the rest.
func onlyStrings(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, strings.ToLower(s))
		}
	}
	return out
}

func clampTries(tries *int) int {
	if tries == nil {
		return maxTries
	}
	if *tries < 0 {
		return 0
	}
	if *tries > maxTries {
		return maxTries
	}
	return *tries
}

// serveSync overwrites the caller's state for the resolved day with
// the submitted one. The client's "won" flag is never trusted: on game
// over the win is recomputed from the submitted words against the
// independently re-resolved puzzle, and a claim that doesn't validate
// is silently downgraded.
func (g *kinoGame) serveSync() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		userID := resolvePlayerIdentity(g.cfg, g.store, w, r)

		var req syncRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(g.cfg, w, "malformed sync payload")
			return
		}

		resolved, err := g.resolveDay(req.PostID, req.TestDay, parseDate(req.Date))
		if err != nil {
			writeError(g.cfg, w, "failed to resolve daily puzzle")
			return
		}

		state := dayState{
			SelectedWords: onlyStrings(req.SelectedWords),
			CorrectWords:  onlyStrings(req.CorrectWords),
			TriesLeft:     clampTries(req.TriesLeft),
			GameOver:      req.GameOver,
			Won:           req.Won,
		}

		if req.GameOver && req.Won {
			state.Won = checkWin(state.SelectedWords, tokenizeTitle(resolved.puzzle.Title))
			if !state.Won {
				logf(g.cfg, "GAMES: Rejected win claim from %s for day %d", userID, resolved.dayNumber)
			}
		}

		g.saveState(userID, resolved.dayKey, state)

		if state.GameOver {
			updatePlayerStats(g.store, userID, state.Won, resolved.dayNumber)
			g.feed.broadcast(finishEvent{
				Type:      "finish",
				DayNumber: resolved.dayNumber,
				Won:       state.Won,
				TriesLeft: state.TriesLeft,
			})
			writeJSON(g.cfg, w, http.StatusOK, syncResponse{
				Status:     "ok",
				MovieTitle: resolved.puzzle.Title,
				MovieYear:  resolved.puzzle.Year,
			})
			return
		}

		writeJSON(g.cfg, w, http.StatusOK, syncResponse{Status: "ok"})
	}
}

type statsResponse struct {
	GamesPlayed   int `json:"gamesPlayed"`
	GamesWon      int `json:"gamesWon"`
	CurrentStreak int `json:"currentStreak"`
	MaxStreak     int `json:"maxStreak"`
	WinRate       int `json:"winRate"`
}

func (g *kinoGame) serveStats() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		userID := resolvePlayerIdentity(g.cfg, g.store, w, r)

		stats, _ := loadStats(g.store, userID)
		writeJSON(g.cfg, w, http.StatusOK, statsResponse{
			GamesPlayed:   stats.GamesPlayed,
			GamesWon:      stats.GamesWon,
			CurrentStreak: stats.CurrentStreak,
			MaxStreak:     stats.MaxStreak,
			WinRate:       winRate(stats),
		})
	}
}

type leaderboardEntry struct {
	Rank int `json:"rank"`
	leaderboardRow
}

type leaderboardResponse struct {
	Top100   []leaderboardEntry `json:"top100"`
	AroundMe []leaderboardEntry `json:"aroundMe"`
	MyRank   *int               `json:"myRank"`
}

func rankedSlice(rows []leaderboardRow, start, end int) []leaderboardEntry {
	out := make([]leaderboardEntry, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, leaderboardEntry{Rank: i + 1, leaderboardRow: rows[i]})
	}
	return out
}

func (g *kinoGame) serveLeaderboard() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		userID := resolvePlayerIdentity(g.cfg, g.store, w, r)

		// Refresh the caller's row first so their own view is current.
		if stats, ok := loadStats(g.store, userID); ok {
			updateLeaderboardEntry(g.store, userID, stats)
		}

		rows := loadLeaderboard(g.store)
		sortLeaderboard(rows)

		top := len(rows)
		if top > leaderboardTop {
			top = leaderboardTop
		}

		resp := leaderboardResponse{
			Top100:   rankedSlice(rows, 0, top),
			AroundMe: []leaderboardEntry{},
		}

		for i := range rows {
			if rows[i].UserID != userID {
				continue
			}
			rank := i + 1
			resp.MyRank = &rank

			start := i - aroundHalf
			if start < 0 {
				start = 0
			}
			end := i + aroundHalf + 1
			if end > len(rows) {
				end = len(rows)
			}
			resp.AroundMe = rankedSlice(rows, start, end)
			break
		}

		writeJSON(g.cfg, w, http.StatusOK, resp)
	}
}

func (g *kinoGame) serveContext() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(g.cfg, w, http.StatusOK, struct {
			IsModerator bool `json:"isModerator"`
		}{IsModerator: isTrustedCaller(g.cfg, r)})
	}
}

type resetRequest struct {
	TestDay int    `json:"testDay"`
	Date    string `json:"date"`
	PostID  string `json:"postId"`
}

// serveResetDay clears one day's stored state for the caller, so the
// next fetch re-initializes it. Moderator only; this is the only way
// back out of a finished day.
func (g *kinoGame) serveResetDay() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if !isTrustedCaller(g.cfg, r) {
			writeJSON(g.cfg, w, http.StatusOK, statusResponse{Status: "skipped", Message: "Moderators only"})
			return
		}

		userID := resolvePlayerIdentity(g.cfg, g.store, w, r)

		var req resetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		postID := req.PostID
		if req.TestDay > 0 {
			postID = ""
		}
		resolved, err := g.resolveDay(postID, req.TestDay, parseDate(req.Date))
		if err != nil {
			writeError(g.cfg, w, "failed to resolve daily puzzle")
			return
		}

		g.store.Del(playerStateKey(userID, resolved.dayKey))
		writeJSON(g.cfg, w, http.StatusOK, statusResponse{
			Status:  "success",
			Message: "Day result reset. Reload to play again.",
		})
	}
}

func (g *kinoGame) serveResetStats() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if !isTrustedCaller(g.cfg, r) {
			writeJSON(g.cfg, w, http.StatusOK, statusResponse{Status: "skipped", Message: "Moderators only"})
			return
		}

		userID := resolvePlayerIdentity(g.cfg, g.store, w, r)

		g.store.Del(statsKeyPrefix + userID)
		removeFromLeaderboard(g.store, userID)
		writeJSON(g.cfg, w, http.StatusOK, statusResponse{Status: "success", Message: "Stats reset."})
	}
}

type bindPostRequest struct {
	PostID string `json:"postId"`
	Day    int    `json:"day"`
}

// serveBindPost pins an opaque post identifier to a specific day, so a
// post created for day N keeps serving day N's puzzle forever. Post
// creation itself belongs to the host platform.
func (g *kinoGame) serveBindPost() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if !isTrustedCaller(g.cfg, r) {
			writeJSON(g.cfg, w, http.StatusOK, statusResponse{Status: "skipped", Message: "Moderators only"})
			return
		}

		var req bindPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PostID == "" || req.Day <= 0 {
			writeError(g.cfg, w, "postId and a positive day are required")
			return
		}

		g.store.Set(postDayKeyPrefix+req.PostID, strconv.Itoa(req.Day), postBindTTL)
		logf(g.cfg, "GAMES: Bound post %s to day %d", req.PostID, req.Day)
		writeJSON(g.cfg, w, http.StatusOK, statusResponse{Status: "success"})
	}
}

// serveShareQR generates a PNG QR code for the game URL, respecting
// TLS and X-Forwarded-Proto.
func (g *kinoGame) serveShareQR() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + g.cfg.prefix + "/"

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

// ---- Live finish feed ----

// finishEvent is broadcast to spectators when any player finishes a
// day. Identities are never included.
type finishEvent struct {
	Type      string `json:"type"` // "finish"
	DayNumber int    `json:"dayNumber"`
	Won       bool   `json:"won"`
	TriesLeft int    `json:"triesLeft"`
}

type feedClient struct {
	conn *websocket.Conn
	send chan any
}

type finishFeed struct {
	mu      sync.Mutex
	clients map[*feedClient]bool
}

func newFinishFeed() *finishFeed {
	return &finishFeed{
		clients: make(map[*feedClient]bool),
	}
}

func (f *finishFeed) add(c *feedClient) {
	f.mu.Lock()
	f.clients[c] = true
	f.mu.Unlock()
}

func (f *finishFeed) remove(c *feedClient) {
	f.mu.Lock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
	}
	f.mu.Unlock()
}

// broadcast never blocks on a slow spectator; it drops them instead.
func (f *finishFeed) broadcast(ev finishEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for c := range f.clients {
		select {
		case c.send <- ev:
		default:
			delete(f.clients, c)
			close(c.send)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (g *kinoGame) serveLive() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		client := &feedClient{
			conn: conn,
			send: make(chan any, 8),
		}

		g.feed.add(client)

		go client.writePump()
		client.readPump(g.feed)
	}
}

// readPump discards incoming frames; the feed is one-way. Its only job
// is noticing the disconnect.
func (c *feedClient) readPump(f *finishFeed) {
	defer func() {
		f.remove(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *feedClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// registerKinoticonGame sets up all game routes on the shared router.
func registerKinoticonGame(cfg *Config, store Store, mux *httprouter.Router) {
	g := &kinoGame{
		cfg:   cfg,
		store: store,
		feed:  newFinishFeed(),
	}

	mux.GET(cfg.prefix+"/api/context", g.serveContext())

	mux.GET(cfg.prefix+"/api/game/daily", g.serveDaily())
	mux.POST(cfg.prefix+"/api/game/sync", g.serveSync())

	mux.GET(cfg.prefix+"/api/game/stats", g.serveStats())
	mux.GET(cfg.prefix+"/api/game/leaderboard", g.serveLeaderboard())

	mux.GET(cfg.prefix+"/api/game/qr", g.serveShareQR())
	mux.GET(cfg.prefix+"/api/game/live", g.serveLive())

	mux.POST(cfg.prefix+"/api/dev/reset-day-result", g.serveResetDay())
	mux.POST(cfg.prefix+"/api/dev/reset-stats", g.serveResetStats())
	mux.POST(cfg.prefix+"/api/dev/bind-post", g.serveBindPost())
}
