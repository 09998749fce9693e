package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"
)

func newTestGame(adminToken string) *kinoGame {
	return &kinoGame{
		cfg: &Config{
			adminToken:     adminToken,
			sessionTimeout: time.Hour,
			startDate:      testStartDate,
		},
		store: newMemoryStore(0),
		feed:  newFinishFeed(),
	}
}

func getDaily(t *testing.T, g *kinoGame, target, sessionID string) (dailyGameResponse, *httptest.ResponseRecorder) {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, target, nil)
	if sessionID != "" {
		r.Header.Set(sessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	g.serveDaily()(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("GET %s returned %d: %s", target, w.Code, w.Body.String())
	}

	var resp dailyGameResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("GET %s returned invalid JSON: %v", target, err)
	}
	return resp, w
}

func postSync(t *testing.T, g *kinoGame, sessionID string, body map[string]any) syncResponse {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal sync body: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/game/sync", bytes.NewReader(raw))
	if sessionID != "" {
		r.Header.Set(sessionHeader, sessionID)
	}
	w := httptest.NewRecorder()
	g.serveSync()(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("POST sync returned %d: %s", w.Code, w.Body.String())
	}

	var resp syncResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("POST sync returned invalid JSON: %v", err)
	}
	return resp
}

func TestServeDailyInitializesState(t *testing.T) {
	g := newTestGame("")

	resp, w := getDaily(t, g, "/api/game/daily?testDay=6", "")

	if resp.DayNumber != 6 {
		t.Errorf("dayNumber = %d, want 6", resp.DayNumber)
	}
	if resp.Salt != "test-day-6" {
		t.Errorf("salt = %q, want test-day-6", resp.Salt)
	}
	if !slices.Equal(resp.Emojis, catalog[5].Glyphs) {
		t.Errorf("emojis = %v, want clues for %q", resp.Emojis, catalog[5].Title)
	}
	if resp.TriesLeft != maxTries || resp.GameOver || resp.Won || resp.AlreadyPlayed {
		t.Errorf("fresh state not initialized: %+v", resp)
	}
	if len(resp.SelectedWords) != 0 || len(resp.CorrectWords) != 0 {
		t.Errorf("fresh state carries words: %+v", resp)
	}
	if !slices.Contains(resp.WordCloud, "rocky") {
		t.Errorf("word cloud missing the title token: %v", resp.WordCloud)
	}
	if len(resp.TitleHashes) != len(tokenizeTitle(catalog[5].Title)) {
		t.Errorf("got %d title hashes, want one per token", len(resp.TitleHashes))
	}
	if resp.EncryptedMovie == "" {
		t.Error("encryptedMovie is empty")
	}

	if w.Header().Get(sessionHeader) == "" {
		t.Error("no session ID issued to a new caller")
	}
}

func TestServeDailyReusesSessionState(t *testing.T) {
	g := newTestGame("")

	_, w := getDaily(t, g, "/api/game/daily?testDay=6", "")
	sid := w.Header().Get(sessionHeader)

	postSync(t, g, sid, map[string]any{
		"testDay":       6,
		"selectedWords": []any{"turtle"},
		"correctWords":  []any{},
		"triesLeft":     5,
	})

	resp, w2 := getDaily(t, g, "/api/game/daily?testDay=6", sid)
	if got := w2.Header().Get(sessionHeader); got != "" {
		t.Errorf("known session re-issued an ID: %q", got)
	}
	if resp.TriesLeft != 5 || !slices.Equal(resp.SelectedWords, []string{"turtle"}) {
		t.Errorf("state not persisted across requests: %+v", resp)
	}
}

// A date before the epoch resolves to a non-positive day number. The
// handler must still serve a playable JSON response for it, clamped to
// the first catalog entry.
func TestServeDailyPreEpochDate(t *testing.T) {
	g := newTestGame("")

	resp, _ := getDaily(t, g, "/api/game/daily?date=2026-02-01", "")

	if resp.DayNumber != -2 {
		t.Errorf("dayNumber = %d, want -2", resp.DayNumber)
	}
	if resp.Salt != "2026-02-01" {
		t.Errorf("salt = %q, want the override date", resp.Salt)
	}
	if !slices.Equal(resp.Emojis, catalog[0].Glyphs) {
		t.Errorf("emojis = %v, want clues for %q", resp.Emojis, catalog[0].Title)
	}
	for _, token := range tokenizeTitle(catalog[0].Title) {
		if !slices.Contains(resp.WordCloud, token) {
			t.Errorf("word cloud missing token %q: %v", token, resp.WordCloud)
		}
	}
}

// A sync claiming a win whose submitted words do not actually match the
// day's title must be persisted as a loss.
func TestServeSyncRejectsFalseWinClaim(t *testing.T) {
	g := newTestGame("")

	_, w := getDaily(t, g, "/api/game/daily?testDay=6", "")
	sid := w.Header().Get(sessionHeader)

	resp := postSync(t, g, sid, map[string]any{
		"testDay":       6,
		"selectedWords": []any{"garbage", "words", "only"},
		"correctWords":  []any{"garbage"},
		"triesLeft":     3,
		"gameOver":      true,
		"won":           true,
	})

	if resp.Status != "ok" || resp.MovieTitle != "Rocky" || resp.MovieYear != 1976 {
		t.Errorf("finished sync response = %+v, want reveal of Rocky (1976)", resp)
	}

	state, ok := g.loadState("anon:"+sid, "test-day-6")
	if !ok {
		t.Fatal("no state persisted")
	}
	if !state.GameOver {
		t.Error("gameOver not persisted")
	}
	if state.Won {
		t.Error("unvalidated win claim was persisted as a win")
	}

	stats, _ := loadStats(g.store, "anon:"+sid)
	if stats.GamesPlayed != 1 || stats.GamesWon != 0 {
		t.Errorf("stats = %+v, want one loss recorded", stats)
	}
}

func TestServeSyncAcceptsValidWin(t *testing.T) {
	g := newTestGame("")

	_, w := getDaily(t, g, "/api/game/daily?testDay=6", "")
	sid := w.Header().Get(sessionHeader)

	resp := postSync(t, g, sid, map[string]any{
		"testDay":       6,
		"selectedWords": []any{"rocky"},
		"correctWords":  []any{"rocky"},
		"triesLeft":     5,
		"gameOver":      true,
		"won":           true,
	})

	if resp.MovieTitle != "Rocky" {
		t.Errorf("movieTitle = %q, want Rocky", resp.MovieTitle)
	}

	state, _ := g.loadState("anon:"+sid, "test-day-6")
	if !state.Won {
		t.Error("valid win was not persisted")
	}

	stats, _ := loadStats(g.store, "anon:"+sid)
	if stats.GamesWon != 1 || stats.CurrentStreak != 1 {
		t.Errorf("stats = %+v, want one win and a streak of 1", stats)
	}
}

func TestServeSyncDropsNonStringWords(t *testing.T) {
	g := newTestGame("")

	_, w := getDaily(t, g, "/api/game/daily?testDay=6", "")
	sid := w.Header().Get(sessionHeader)

	postSync(t, g, sid, map[string]any{
		"testDay":       6,
		"selectedWords": []any{"ROCKY", 42, true, nil, "Turtle"},
		"correctWords":  []any{map[string]any{"x": 1}},
		"triesLeft":     4,
	})

	state, _ := g.loadState("anon:"+sid, "test-day-6")
	if !slices.Equal(state.SelectedWords, []string{"rocky", "turtle"}) {
		t.Errorf("selectedWords = %v, want lowercased strings only", state.SelectedWords)
	}
	if len(state.CorrectWords) != 0 {
		t.Errorf("correctWords = %v, want empty", state.CorrectWords)
	}
}

func TestServeSyncClampsTries(t *testing.T) {
	g := newTestGame("")

	cases := []struct {
		body map[string]any
		want int
	}{
		{map[string]any{"testDay": 6, "selectedWords": []any{}, "correctWords": []any{}}, maxTries},
		{map[string]any{"testDay": 6, "selectedWords": []any{}, "correctWords": []any{}, "triesLeft": -5}, 0},
		{map[string]any{"testDay": 6, "selectedWords": []any{}, "correctWords": []any{}, "triesLeft": 99}, maxTries},
		{map[string]any{"testDay": 6, "selectedWords": []any{}, "correctWords": []any{}, "triesLeft": 2}, 2},
	}

	for _, tc := range cases {
		_, w := getDaily(t, g, "/api/game/daily?testDay=6", "")
		sid := w.Header().Get(sessionHeader)

		postSync(t, g, sid, tc.body)

		state, _ := g.loadState("anon:"+sid, "test-day-6")
		if state.TriesLeft != tc.want {
			t.Errorf("triesLeft for body %v persisted as %d, want %d", tc.body, state.TriesLeft, tc.want)
		}
	}
}

func TestServeSyncRejectsMalformedBody(t *testing.T) {
	g := newTestGame("")

	r := httptest.NewRequest(http.MethodPost, "/api/game/sync", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	g.serveSync()(w, r, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed sync returned %d, want 400", w.Code)
	}

	var resp statusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Status != "error" {
		t.Fatalf("error body = %s", w.Body.String())
	}
}

func TestBindPostRoutesDaily(t *testing.T) {
	g := newTestGame("hunter2")

	raw, _ := json.Marshal(bindPostRequest{PostID: "t3_abc123", Day: 6})
	r := httptest.NewRequest(http.MethodPost, "/api/dev/bind-post", bytes.NewReader(raw))
	r.Header.Set(adminTokenHeader, "hunter2")
	w := httptest.NewRecorder()
	g.serveBindPost()(w, r, nil)

	var bound statusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &bound); err != nil || bound.Status != "success" {
		t.Fatalf("bind-post response = %s", w.Body.String())
	}

	resp, _ := getDaily(t, g, "/api/game/daily?postId=t3_abc123", "")
	if resp.DayNumber != 6 || resp.Salt != "post-day-6" {
		t.Errorf("bound post served day %d salt %q, want day 6 salt post-day-6", resp.DayNumber, resp.Salt)
	}

	// An explicit testDay wins over the binding.
	resp, _ = getDaily(t, g, "/api/game/daily?postId=t3_abc123&testDay=3", "")
	if resp.DayNumber != 3 || resp.Salt != "test-day-3" {
		t.Errorf("testDay did not override the post binding: day %d salt %q", resp.DayNumber, resp.Salt)
	}
}

func TestBindPostValidatesInput(t *testing.T) {
	g := newTestGame("hunter2")

	for _, body := range []string{`{"postId":"","day":3}`, `{"postId":"x","day":0}`, `{bad`} {
		r := httptest.NewRequest(http.MethodPost, "/api/dev/bind-post", bytes.NewReader([]byte(body)))
		r.Header.Set(adminTokenHeader, "hunter2")
		w := httptest.NewRecorder()
		g.serveBindPost()(w, r, nil)

		if w.Code != http.StatusBadRequest {
			t.Errorf("bind-post with body %s returned %d, want 400", body, w.Code)
		}
	}
}

func TestResetDayRequiresToken(t *testing.T) {
	g := newTestGame("hunter2")

	_, w := getDaily(t, g, "/api/game/daily?testDay=6", "")
	sid := w.Header().Get(sessionHeader)

	body := []byte(`{"testDay":6}`)

	// Without the token nothing happens.
	r := httptest.NewRequest(http.MethodPost, "/api/dev/reset-day-result", bytes.NewReader(body))
	r.Header.Set(sessionHeader, sid)
	rec := httptest.NewRecorder()
	g.serveResetDay()(rec, r, nil)

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Status != "skipped" {
		t.Fatalf("untrusted reset response = %s", rec.Body.String())
	}
	if _, ok := g.loadState("anon:"+sid, "test-day-6"); !ok {
		t.Fatal("untrusted reset removed state")
	}

	// With it, the day's state is gone.
	r = httptest.NewRequest(http.MethodPost, "/api/dev/reset-day-result", bytes.NewReader(body))
	r.Header.Set(sessionHeader, sid)
	r.Header.Set(adminTokenHeader, "hunter2")
	rec = httptest.NewRecorder()
	g.serveResetDay()(rec, r, nil)

	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Status != "success" {
		t.Fatalf("trusted reset response = %s", rec.Body.String())
	}
	if _, ok := g.loadState("anon:"+sid, "test-day-6"); ok {
		t.Fatal("trusted reset left state behind")
	}
}

func TestResetStatsClearsLeaderboard(t *testing.T) {
	g := newTestGame("hunter2")

	_, w := getDaily(t, g, "/api/game/daily?testDay=6", "")
	sid := w.Header().Get(sessionHeader)
	userID := "anon:" + sid

	updatePlayerStats(g.store, userID, true, 6)

	r := httptest.NewRequest(http.MethodPost, "/api/dev/reset-stats", nil)
	r.Header.Set(sessionHeader, sid)
	r.Header.Set(adminTokenHeader, "hunter2")
	rec := httptest.NewRecorder()
	g.serveResetStats()(rec, r, nil)

	if _, ok := loadStats(g.store, userID); ok {
		t.Error("stats survived the reset")
	}
	for _, row := range loadLeaderboard(g.store) {
		if row.UserID == userID {
			t.Error("leaderboard row survived the reset")
		}
	}
}

func TestServeContextReportsModerator(t *testing.T) {
	g := newTestGame("hunter2")

	check := func(token string, want bool) {
		r := httptest.NewRequest(http.MethodGet, "/api/context", nil)
		if token != "" {
			r.Header.Set(adminTokenHeader, token)
		}
		w := httptest.NewRecorder()
		g.serveContext()(w, r, nil)

		var resp struct {
			IsModerator bool `json:"isModerator"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("context response: %v", err)
		}
		if resp.IsModerator != want {
			t.Errorf("isModerator with token %q = %v, want %v", token, resp.IsModerator, want)
		}
	}

	check("", false)
	check("wrong", false)
	check("hunter2", true)
}

func TestServeStatsAndLeaderboard(t *testing.T) {
	g := newTestGame("")

	_, w := getDaily(t, g, "/api/game/daily?testDay=6", "")
	sid := w.Header().Get(sessionHeader)
	userID := "anon:" + sid

	updatePlayerStats(g.store, userID, true, 6)
	updatePlayerStats(g.store, userID, true, 7)
	updatePlayerStats(g.store, userID, false, 8)

	r := httptest.NewRequest(http.MethodGet, "/api/game/stats", nil)
	r.Header.Set(sessionHeader, sid)
	rec := httptest.NewRecorder()
	g.serveStats()(rec, r, nil)

	var stats statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("stats response: %v", err)
	}
	want := statsResponse{GamesPlayed: 3, GamesWon: 2, CurrentStreak: 0, MaxStreak: 2, WinRate: 67}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/game/leaderboard", nil)
	r.Header.Set(sessionHeader, sid)
	rec = httptest.NewRecorder()
	g.serveLeaderboard()(rec, r, nil)

	var board leaderboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &board); err != nil {
		t.Fatalf("leaderboard response: %v", err)
	}
	if board.MyRank == nil || *board.MyRank != 1 {
		t.Fatalf("myRank = %v, want 1", board.MyRank)
	}
	if len(board.Top100) != 1 || board.Top100[0].UserID != userID {
		t.Errorf("top100 = %+v, want only the caller", board.Top100)
	}
	if len(board.AroundMe) != 1 || board.AroundMe[0].Rank != 1 {
		t.Errorf("aroundMe = %+v, want the caller at rank 1", board.AroundMe)
	}
}

func TestServeShareQRReturnsPNG(t *testing.T) {
	g := newTestGame("")

	r := httptest.NewRequest(http.MethodGet, "/api/game/qr", nil)
	r.Host = "play.example.com"
	w := httptest.NewRecorder()
	g.serveShareQR()(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("qr endpoint returned %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body does not start with a PNG signature")
	}
}
