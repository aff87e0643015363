package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/config"
	"github.com/robalobadob/wordbomb/apps/go-server/internal/game"
	"github.com/robalobadob/wordbomb/apps/go-server/internal/store"
	"github.com/robalobadob/wordbomb/apps/go-server/internal/words"
)

const oneWord = `[{"a":"code","q":"Instructions for a computer","level":1}]`

// newTestServer builds a server over a one-word English catalog whose clock
// never ticks unless vars say otherwise.
func newTestServer(t *testing.T, vars map[string]string) *Server {
	t.Helper()
	env := map[string]string{
		"JWT_SECRET":         "test_secret",
		"TICK_INTERVAL":      "1h",
		"ADVANCE_DELAY":      "0s",
		"FINISHED_RETENTION": "1h",
		"CLIENT_ORIGIN":      "http://localhost:5173",
	}
	for k, v := range vars {
		env[k] = v
	}
	cfg, err := config.FromMap(env)
	if err != nil {
		t.Fatal(err)
	}
	cat, err := words.Parse(words.English, []byte(oneWord))
	if err != nil {
		t.Fatal(err)
	}
	st := store.NewMemoryStore()
	t.Cleanup(st.Close)
	return New(cfg, st, cat)
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func startSession(t *testing.T, s *Server, body any) sessionRes {
	t.Helper()
	rec := call(t, s.Router(), http.MethodPost, "/session", "", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /session = %d %s", rec.Code, rec.Body)
	}
	return decode[sessionRes](t, rec)
}

// tilesFor picks free bank tiles spelling word in order.
func tilesFor(t *testing.T, v game.View, word string) []int {
	t.Helper()
	used := map[int]bool{}
	var out []int
	for _, r := range word {
		found := false
		for _, tl := range v.Bank {
			if !used[tl.Index] && !tl.Disabled && tl.Letter == string(r) {
				used[tl.Index] = true
				out = append(out, tl.Index)
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("no free tile for %q in %+v", r, v.Bank)
		}
	}
	return out
}

func tap(t *testing.T, s *Server, token string, tile int) actionRes {
	t.Helper()
	rec := call(t, s.Router(), http.MethodPost, "/session/letter", token, map[string]int{"tile": tile})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /session/letter = %d %s", rec.Code, rec.Body)
	}
	return decode[actionRes](t, rec)
}

func hasKind(events []game.Event, k game.EventKind) bool {
	for _, ev := range events {
		if ev.Kind == k {
			return true
		}
	}
	return false
}

func TestHealthAndDiagnostics(t *testing.T) {
	s := newTestServer(t, nil)

	rec := call(t, s.Router(), http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("health = %d %s", rec.Code, rec.Body)
	}

	rec = call(t, s.Router(), http.MethodGet, "/debug/words", "", nil)
	stats := decode[[]words.LanguageStats](t, rec)
	if len(stats) != 1 || stats[0].Language != words.English || stats[0].Words != 1 {
		t.Fatalf("debug words = %+v", stats)
	}

	rec = call(t, s.Router(), http.MethodGet, "/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown path = %d", rec.Code)
	}
}

func TestRank(t *testing.T) {
	s := newTestServer(t, nil)

	rec := call(t, s.Router(), http.MethodGet, "/rank?words=750", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("rank = %d", rec.Code)
	}
	r := decode[game.Rank](t, rec)
	if r.Level != 2 || r.Name != "WORD SMITH" || r.Percent != 50 {
		t.Fatalf("rank = %+v", r)
	}

	if rec := call(t, s.Router(), http.MethodGet, "/rank?words=lots", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad rank query = %d", rec.Code)
	}
}

func TestNewSessionDefaultsAndValidation(t *testing.T) {
	s := newTestServer(t, nil)

	res := startSession(t, s, nil)
	if res.SessionID == "" || res.Token == "" {
		t.Fatalf("missing id or token: %+v", res)
	}
	st := res.State
	if st.Phase != game.PhaseAwaiting || st.Timer.Remaining != 60 || st.Language != words.English || st.Level != 1 {
		t.Fatalf("state = %+v", st)
	}
	if st.Length != 4 || len(st.Slots) != 4 || len(st.Bank) != 21 {
		t.Fatalf("round shape: length %d slots %d bank %d", st.Length, len(st.Slots), len(st.Bank))
	}
	if st.Prompt != "Instructions for a computer" {
		t.Fatalf("prompt = %q", st.Prompt)
	}

	for _, body := range []map[string]any{
		{"durationSeconds": 45},
		{"language": "fr"},
		{"level": -1},
	} {
		rec := call(t, s.Router(), http.MethodPost, "/session", "", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%v: status %d, want 400", body, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json = %d", rec.Code)
	}
}

func TestSolveOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	res := startSession(t, s, map[string]any{"durationSeconds": 30})

	tiles := tilesFor(t, res.State, "CODE")
	var last actionRes
	for i, tile := range tiles {
		last = tap(t, s, res.Token, tile)
		if i < len(tiles)-1 && last.Outcome != game.OutcomePlaced {
			t.Fatalf("tap %d outcome = %s", i, last.Outcome)
		}
	}
	if last.Outcome != game.OutcomeSuccess || !hasKind(last.Events, game.EventRoundSolved) {
		t.Fatalf("final tap = %+v", last)
	}
	st := last.State
	if st.Stats.Score != 40 || st.Stats.TotalWordsFound != 1 || st.Stats.CurrentStreak != 1 {
		t.Fatalf("stats = %+v", st.Stats)
	}
	if st.Timer.Remaining != 32 {
		t.Fatalf("remaining = %d, want 32", st.Timer.Remaining)
	}
	// the next question is loaded straight away with a zero advance delay
	if st.Phase != game.PhaseAwaiting || st.Slots[0].Letter != "" {
		t.Fatalf("next round not loaded: %+v", st)
	}
}

func TestWrongOrderFailsAndResets(t *testing.T) {
	s := newTestServer(t, nil)
	res := startSession(t, s, nil)

	var last actionRes
	for _, tile := range tilesFor(t, res.State, "EDOC") {
		last = tap(t, s, res.Token, tile)
	}
	if last.Outcome != game.OutcomeFail || !hasKind(last.Events, game.EventRoundFailed) {
		t.Fatalf("outcome = %+v", last)
	}
	for _, sl := range last.State.Slots {
		if sl.Letter != "" {
			t.Fatalf("slots not cleared: %+v", last.State.Slots)
		}
	}
	for _, tl := range last.State.Bank {
		if tl.Disabled {
			t.Fatalf("tile %d still disabled after reset", tl.Index)
		}
	}
}

func TestSlotHintSkipPause(t *testing.T) {
	s := newTestServer(t, nil)
	res := startSession(t, s, nil)
	h := s.Router()

	tile := tilesFor(t, res.State, "C")[0]
	tap(t, s, res.Token, tile)

	rec := call(t, h, http.MethodPost, "/session/slot", res.Token, map[string]int{"slot": 0})
	out := decode[actionRes](t, rec)
	if out.Outcome != game.OutcomeRemoved || out.State.Bank[tile].Disabled {
		t.Fatalf("slot tap = %+v", out)
	}
	if rec := call(t, h, http.MethodPost, "/session/slot", res.Token, map[string]int{"slot": 0}); decode[actionRes](t, rec).Outcome != game.OutcomeNone {
		t.Fatal("tapping an empty slot should be a no-op")
	}

	out = decode[actionRes](t, call(t, h, http.MethodPost, "/session/hint", res.Token, nil))
	if out.Outcome != game.OutcomeHint || out.State.Timer.Remaining != 58 || out.State.Stats.HintsUsed != 1 {
		t.Fatalf("hint = %+v", out)
	}
	if len(out.Events) == 0 || out.Events[0].Kind != game.EventTilesBombed || len(out.Events[0].Tiles) != 5 {
		t.Fatalf("hint events = %+v", out.Events)
	}
	// the word must still be buildable
	tilesFor(t, out.State, "CODE")

	out = decode[actionRes](t, call(t, h, http.MethodPost, "/session/pause", res.Token, nil))
	if out.Outcome != game.OutcomePaused || !out.State.Timer.Paused {
		t.Fatalf("pause = %+v", out)
	}
	out = decode[actionRes](t, call(t, h, http.MethodPost, "/session/pause", res.Token, nil))
	if out.Outcome != game.OutcomeResumed || out.State.Timer.Paused {
		t.Fatalf("resume = %+v", out)
	}

	out = decode[actionRes](t, call(t, h, http.MethodPost, "/session/skip", res.Token, nil))
	if out.Outcome != game.OutcomeSkip || out.State.Stats.WordsSkipped != 1 || out.State.Stats.Score != 0 {
		t.Fatalf("skip = %+v", out)
	}
	var revealed string
	for _, ev := range out.Events {
		if ev.Kind == game.EventRoundSkipped {
			revealed = ev.Word
		}
	}
	if revealed != "CODE" {
		t.Fatalf("skip revealed %q", revealed)
	}
}

func TestActionBodyValidation(t *testing.T) {
	s := newTestServer(t, nil)
	res := startSession(t, s, nil)

	if rec := call(t, s.Router(), http.MethodPost, "/session/letter", res.Token, map[string]string{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing tile = %d", rec.Code)
	}
	if rec := call(t, s.Router(), http.MethodPost, "/session/slot", res.Token, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing slot = %d", rec.Code)
	}
	out := tap(t, s, res.Token, 99)
	if out.Outcome != game.OutcomeNone {
		t.Fatalf("out-of-range tile = %s", out.Outcome)
	}
}

func TestTokenRequired(t *testing.T) {
	s := newTestServer(t, nil)
	h := s.Router()

	if rec := call(t, h, http.MethodGet, "/session", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d", rec.Code)
	}
	if rec := call(t, h, http.MethodGet, "/session", "garbage", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token = %d", rec.Code)
	}

	orphan, _, err := s.signToken("no-such-session")
	if err != nil {
		t.Fatal(err)
	}
	if rec := call(t, h, http.MethodGet, "/session", orphan, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session = %d", rec.Code)
	}

	res := startSession(t, s, nil)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := s.signToken(res.SessionID)
	s.now = time.Now
	if err != nil {
		t.Fatal(err)
	}
	if rec := call(t, h, http.MethodGet, "/session", expired, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token = %d", rec.Code)
	}

	other := newTestServer(t, map[string]string{"JWT_SECRET": "someone_else"})
	forged, _, _ := other.signToken(res.SessionID)
	if rec := call(t, h, http.MethodGet, "/session", forged, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("foreign signature = %d", rec.Code)
	}

	rec := call(t, h, http.MethodGet, "/session?token="+res.Token, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("query token = %d", rec.Code)
	}
}

func TestQuitRemovesSession(t *testing.T) {
	s := newTestServer(t, nil)
	res := startSession(t, s, nil)

	rec := call(t, s.Router(), http.MethodDelete, "/session", res.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE /session = %d %s", rec.Code, rec.Body)
	}
	if rec := call(t, s.Router(), http.MethodGet, "/session", res.Token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("after quit = %d", rec.Code)
	}
	if s.store.Len() != 0 {
		t.Fatalf("store still holds %d sessions", s.store.Len())
	}
}

// waitFor polls GET /session until cond holds or the deadline passes.
func waitFor(t *testing.T, s *Server, token string, cond func(rec *httptest.ResponseRecorder) bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond(call(t, s.Router(), http.MethodGet, "/session", token, nil)) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestSessionOverRejectsInput(t *testing.T) {
	s := newTestServer(t, map[string]string{"TICK_INTERVAL": "1ms"})
	res := startSession(t, s, map[string]any{"durationSeconds": 30})

	waitFor(t, s, res.Token, func(rec *httptest.ResponseRecorder) bool {
		return rec.Code == http.StatusOK && decode[game.View](t, rec).Phase == game.PhaseOver
	})

	rec := call(t, s.Router(), http.MethodPost, "/session/hint", res.Token, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("hint after expiry = %d", rec.Code)
	}
	view := decode[game.View](t, call(t, s.Router(), http.MethodGet, "/session", res.Token, nil))
	if view.Timer.Remaining != 0 {
		t.Fatalf("remaining = %d", view.Timer.Remaining)
	}
}

func TestFinishedSessionIsRetired(t *testing.T) {
	s := newTestServer(t, map[string]string{"TICK_INTERVAL": "1ms", "FINISHED_RETENTION": "10ms"})
	res := startSession(t, s, map[string]any{"durationSeconds": 30})

	waitFor(t, s, res.Token, func(rec *httptest.ResponseRecorder) bool {
		return rec.Code == http.StatusNotFound
	})
}

func TestDailySessionsMatch(t *testing.T) {
	cat, err := words.LoadEmbedded()
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, nil)
	s.words = cat
	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return day }

	start := func() map[string]json.RawMessage {
		rec := call(t, s.Router(), http.MethodPost, "/daily/session", "", map[string]any{"language": "tr", "level": 3})
		if rec.Code != http.StatusCreated {
			t.Fatalf("POST /daily/session = %d %s", rec.Code, rec.Body)
		}
		return decode[map[string]json.RawMessage](t, rec)
	}
	a, b := start(), start()

	if string(a["date"]) != `"2026-03-14"` {
		t.Fatalf("date = %s", a["date"])
	}
	if string(a["sessionId"]) == string(b["sessionId"]) {
		t.Fatal("daily sessions share an id")
	}
	var va, vb game.View
	if err := json.Unmarshal(a["state"], &va); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(b["state"], &vb); err != nil {
		t.Fatal(err)
	}
	if va.Level != 1 {
		t.Fatalf("daily level = %d", va.Level)
	}
	if va.Prompt != vb.Prompt || len(va.Bank) != len(vb.Bank) {
		t.Fatalf("daily rounds differ: %q vs %q", va.Prompt, vb.Prompt)
	}
	for i := range va.Bank {
		if va.Bank[i].Letter != vb.Bank[i].Letter {
			t.Fatalf("bank differs at %d", i)
		}
	}

	rec := call(t, s.Router(), http.MethodGet, "/daily", "", nil)
	if got := decode[map[string]string](t, rec)["date"]; got != "2026-03-14" {
		t.Fatalf("GET /daily date = %q", got)
	}
}

func TestEventStream(t *testing.T) {
	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()
	res := startSession(t, s, nil)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/session/events?token=" + res.Token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var first stateFrame
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatal(err)
	}
	if first.Kind != "state" || first.State.Length != 4 {
		t.Fatalf("first frame = %+v", first)
	}

	tile := tilesFor(t, first.State, "C")[0]
	tap(t, s, res.Token, tile)

	var ev game.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != game.EventLetterPlaced || ev.Tile != tile || ev.Slot != 0 {
		t.Fatalf("event = %+v", ev)
	}

	if rec := call(t, s.Router(), http.MethodDelete, "/session", res.Token, nil); rec.Code != http.StatusOK {
		t.Fatalf("quit = %d", rec.Code)
	}
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("read after quit: %v", err)
	}
}

func TestEventStreamRejectsForeignOrigin(t *testing.T) {
	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()
	res := startSession(t, s, nil)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/session/events?token=" + res.Token
	hdr := http.Header{"Origin": {"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, hdr)
	if err == nil {
		t.Fatal("dial with foreign origin succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("response = %+v", resp)
	}
}
