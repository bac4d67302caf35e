package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/starford/promptboard/internal/board"
	"github.com/starford/promptboard/internal/card"
	"github.com/starford/promptboard/internal/registry"
	"github.com/starford/promptboard/internal/sse"
	"github.com/starford/promptboard/internal/state"
	"github.com/starford/promptboard/internal/storage"
	"github.com/starford/promptboard/internal/testutil"
)

type memClipboard struct{ text string }

func (c *memClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

type env struct {
	store  *storage.FS
	reg    *registry.Registry
	clip   *memClipboard
	router http.Handler
}

// testEnv sets up a temp vault with a "prompts" folder, a SQLite state
// store, a registry, and the router. An empty token disables auth.
func testEnv(t *testing.T, token string) *env {
	t.Helper()
	return testEnvWithSSE(t, token, nil)
}

func testEnvWithSSE(t *testing.T, token string, sseHandler http.Handler) *env {
	t.Helper()

	store := testutil.TestVault(t, "prompts")
	db := testutil.TestState(t)

	e := &env{store: store, clip: &memClipboard{}}
	factory := func(folder string) *registry.View {
		b := board.New(store, folder, board.Options{})
		return &registry.View{Board: b, Cards: card.New(store, folder, b, card.Deps{Clipboard: e.clip})}
	}
	e.reg = registry.New(store, db, factory, registry.Options{})
	t.Cleanup(e.reg.Shutdown)
	e.router = NewRouter(e.reg, token != "", token, sseHandler)
	return e
}

func (e *env) write(t *testing.T, rel, content string) {
	t.Helper()
	testutil.WriteFile(t, e.store, rel, content)
}

func (e *env) do(method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != nil {
		raw, _ := json.Marshal(body)
		r = httptest.NewRequest(method, target, bytes.NewReader(raw))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		r.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func (e *env) open(t *testing.T, folder string) {
	t.Helper()
	if w := e.do(http.MethodPost, "/boards", map[string]string{"folder": folder}); w.Code != http.StatusCreated {
		t.Fatalf("open board = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestOpenBoard_ThenReveal(t *testing.T) {
	e := testEnv(t, "")
	e.write(t, "prompts/a.md", "### V1.2\nhello")

	w := e.do(http.MethodPost, "/boards", map[string]string{"folder": "prompts"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp BoardResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Opened || len(resp.Snapshot.Cards) != 1 || resp.Snapshot.Cards[0].Info.Label != "V1.2" {
		t.Errorf("resp = %+v", resp)
	}

	w = e.do(http.MethodPost, "/boards", map[string]string{"file": "prompts/a.md"})
	if w.Code != http.StatusOK {
		t.Errorf("reveal status = %d", w.Code)
	}

	w = e.do(http.MethodGet, "/boards", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"Kanban: prompts"`) {
		t.Errorf("list = %d %s", w.Code, w.Body.String())
	}
}

func TestOpenBoard_Validation(t *testing.T) {
	e := testEnv(t, "")
	if w := e.do(http.MethodPost, "/boards", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("empty body = %d, want 400", w.Code)
	}
	if w := e.do(http.MethodPost, "/boards", map[string]string{"folder": "a", "file": "b/c.md"}); w.Code != http.StatusBadRequest {
		t.Errorf("both fields = %d, want 400", w.Code)
	}
}

func TestOpenBoard_VaultRoot(t *testing.T) {
	e := testEnv(t, "")
	e.write(t, "top.md", "### V3.1\nroot prompt")

	w := e.do(http.MethodPost, "/boards", map[string]string{"folder": ""})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp BoardResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Snapshot.Folder != "" || len(resp.Snapshot.Cards) != 1 || resp.Snapshot.Cards[0].Path != "top.md" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestCloseBoard(t *testing.T) {
	e := testEnv(t, "")
	e.open(t, "prompts")

	if w := e.do(http.MethodDelete, "/boards?folder=prompts", nil); w.Code != http.StatusNoContent {
		t.Fatalf("close = %d", w.Code)
	}
	if w := e.do(http.MethodDelete, "/boards?folder=prompts", nil); w.Code != http.StatusNotFound {
		t.Errorf("second close = %d, want 404", w.Code)
	}
	if got := e.reg.Settings().ActiveFolders; len(got) != 0 {
		t.Errorf("active = %v", got)
	}
}

func TestQuickOpen(t *testing.T) {
	e := testEnv(t, "")

	if w := e.do(http.MethodPost, "/quick-open", map[string]string{"file": "prompts/a.md"}); w.Code != http.StatusCreated {
		t.Fatalf("first = %d", w.Code)
	}
	if w := e.do(http.MethodPost, "/quick-open", map[string]string{"file": "prompts/a.md"}); w.Code != http.StatusOK {
		t.Errorf("second = %d", w.Code)
	}

	if w := e.do(http.MethodPut, "/settings", map[string]bool{"show_quick_access": false}); w.Code != http.StatusOK {
		t.Fatalf("settings = %d", w.Code)
	}
	if w := e.do(http.MethodPost, "/quick-open", map[string]string{"file": "prompts/a.md"}); w.Code != http.StatusForbidden {
		t.Errorf("disabled = %d, want 403", w.Code)
	}
}

func TestListCards_Search(t *testing.T) {
	e := testEnv(t, "")
	e.write(t, "prompts/alpha.md", "### V1\na")
	e.write(t, "prompts/beta.md", "### V1\nb")
	e.open(t, "prompts")

	w := e.do(http.MethodGet, "/cards?folder=prompts&q=ALP", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var snap board.Snapshot
	_ = json.Unmarshal(w.Body.Bytes(), &snap)
	if len(snap.Cards) != 1 || snap.Cards[0].Path != "prompts/alpha.md" || snap.Query != "ALP" {
		t.Errorf("snapshot = %+v", snap)
	}

	w = e.do(http.MethodGet, "/cards?folder=prompts&q=zzz", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &snap)
	if len(snap.Cards) != 0 || snap.Message == "" {
		t.Errorf("no-match snapshot = %+v", snap)
	}

	if w := e.do(http.MethodGet, "/cards?folder=other", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown board = %d", w.Code)
	}
}

func TestCreateCard(t *testing.T) {
	e := testEnv(t, "")
	e.open(t, "prompts")

	w := e.do(http.MethodPost, "/cards", map[string]string{"folder": "prompts"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var doc struct {
		Path string `json:"path"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &doc)
	if !strings.HasPrefix(doc.Path, "prompts/Prompt-") || !strings.HasSuffix(doc.Path, ".md") {
		t.Errorf("path = %q", doc.Path)
	}
	data, err := e.store.Read(doc.Path)
	if err != nil || string(data) != card.Template {
		t.Errorf("content = %q, err = %v", data, err)
	}
}

func TestIterateAndCopy(t *testing.T) {
	e := testEnv(t, "")
	e.write(t, "prompts/a.md", "### V2.3\nhello")
	e.open(t, "prompts")

	w := e.do(http.MethodPost, "/cards/iterate", map[string]string{"path": "prompts/a.md"})
	if w.Code != http.StatusOK {
		t.Fatalf("iterate = %d, body = %s", w.Code, w.Body.String())
	}
	var it card.IterateResult
	_ = json.Unmarshal(w.Body.Bytes(), &it)
	if it.Label != "V2.4" {
		t.Errorf("label = %q", it.Label)
	}

	w = e.do(http.MethodPost, "/cards/copy", map[string]string{"path": "prompts/a.md"})
	if w.Code != http.StatusOK {
		t.Fatalf("copy = %d", w.Code)
	}
	var cp CopyResponse
	_ = json.Unmarshal(w.Body.Bytes(), &cp)
	if cp.Content != "hello" || e.clip.text != "hello" {
		t.Errorf("copied %q, clipboard %q", cp.Content, e.clip.text)
	}
}

func TestIterate_MissingPath(t *testing.T) {
	e := testEnv(t, "")
	e.open(t, "prompts")
	if w := e.do(http.MethodPost, "/cards/iterate", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("no path = %d", w.Code)
	}
	if w := e.do(http.MethodPost, "/cards/iterate", map[string]string{"path": "prompts/none.md"}); w.Code != http.StatusNotFound {
		t.Errorf("missing file = %d", w.Code)
	}
}

func TestDeleteCard_RequiresConfirmation(t *testing.T) {
	e := testEnv(t, "")
	e.write(t, "prompts/a.md", "x")
	e.open(t, "prompts")

	w := e.do(http.MethodDelete, "/cards?path=prompts/a.md", nil)
	if w.Code != http.StatusPreconditionFailed {
		t.Fatalf("unconfirmed = %d", w.Code)
	}
	var prompt ConfirmResponse
	_ = json.Unmarshal(w.Body.Bytes(), &prompt)
	if !strings.Contains(prompt.Title, "a.md") || prompt.Message == "" {
		t.Errorf("prompt = %+v", prompt)
	}
	if _, err := e.store.Read("prompts/a.md"); err != nil {
		t.Fatal("file must survive an unconfirmed delete")
	}

	if w := e.do(http.MethodDelete, "/cards?path=prompts/a.md&confirm=true", nil); w.Code != http.StatusNoContent {
		t.Fatalf("confirmed = %d", w.Code)
	}
	if _, err := e.store.Read("prompts/a.md"); err == nil {
		t.Error("file should be deleted")
	}
}

func TestSettings(t *testing.T) {
	e := testEnv(t, "")
	w := e.do(http.MethodGet, "/settings", nil)
	var st state.Settings
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if !st.ShowQuickAccess {
		t.Error("quick access should default to on")
	}
	if w := e.do(http.MethodPut, "/settings", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("missing field = %d", w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := testEnv(t, "secret123")
	if w := e.do(http.MethodGet, "/boards", nil, "Authorization", "Bearer secret123"); w.Code != http.StatusOK {
		t.Errorf("authed = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	e := testEnv(t, "secret123")
	if w := e.do(http.MethodGet, "/boards", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	e := testEnv(t, "secret123")
	if w := e.do(http.MethodGet, "/boards", nil, "Authorization", "Bearer wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	e := testEnv(t, "")
	if w := e.do(http.MethodGet, "/boards", nil); w.Code != http.StatusOK {
		t.Errorf("no auth = %d, want 200", w.Code)
	}
}

func TestSSEEvents_AuthProtected(t *testing.T) {
	broker := sse.NewBroker(time.Minute)
	defer broker.Close()
	e := testEnvWithSSE(t, "secret", broker)

	if w := e.do(http.MethodGet, "/events", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("SSE without token = %d, want 401", w.Code)
	}
}

func TestSSEEvents_Stream(t *testing.T) {
	broker := sse.NewBroker(time.Minute)
	defer broker.Close()
	e := testEnvWithSSE(t, "", broker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		e.router.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	broker.PublishClosed("prompts")
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if !strings.Contains(w.Body.String(), "event: board.closed") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestListCards_ETag(t *testing.T) {
	e := testEnv(t, "")
	e.write(t, "prompts/a.md", "### V1\na")
	e.open(t, "prompts")

	w := e.do(http.MethodGet, "/cards?folder=prompts", nil)
	etag := w.Header().Get("ETag")
	if w.Code != http.StatusOK || etag == "" {
		t.Fatalf("status = %d, etag = %q", w.Code, etag)
	}
	if w := e.do(http.MethodGet, "/cards?folder=prompts", nil, "If-None-Match", etag); w.Code != http.StatusNotModified {
		t.Errorf("unchanged = %d, want 304", w.Code)
	}

	e.write(t, "prompts/a.md", "### V1\nchanged")
	if w := e.do(http.MethodGet, "/cards?folder=prompts", nil, "If-None-Match", etag); w.Code != http.StatusOK {
		t.Errorf("changed = %d, want 200", w.Code)
	}
}
