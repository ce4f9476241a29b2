package http

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"task_tracker/internal/db"
	"task_tracker/web"

	"github.com/gin-gonic/gin"
)

func newTestApp(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.Open(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	r := gin.New()
	r.SetHTMLTemplate(web.Templates())
	RegisterRoutes(r, database, nil)
	return r, database
}

// browser carries cookies between requests so flash messages survive the
// redirect the way they do in a real client.
type browser struct {
	t       *testing.T
	engine  *gin.Engine
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, engine *gin.Engine) *browser {
	return &browser{t: t, engine: engine, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, path, form)
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	b.engine.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(b.cookies, ck.Name)
		} else {
			b.cookies[ck.Name] = ck
		}
	}
	return w
}

func taskCount(t *testing.T, database *sql.DB) int {
	t.Helper()
	var count int
	if err := database.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&count); err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	return count
}

func onlyTaskID(t *testing.T, database *sql.DB) int64 {
	t.Helper()
	var id int64
	if err := database.QueryRow(`SELECT id FROM tasks`).Scan(&id); err != nil {
		t.Fatalf("read task id: %v", err)
	}
	return id
}

func TestTaskLifecycleScenario(t *testing.T) {
	engine, database := newTestApp(t)
	b := newBrowser(t, engine)

	// Create "Buy milk".
	w := b.postForm("/add", url.Values{"task": {"Buy milk"}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("add status = %d; want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("add redirect = %q; want /", loc)
	}

	w = b.get("/")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d; want 200", w.Code)
	}
	page := w.Body.String()
	if !strings.Contains(page, "Buy milk") {
		t.Fatalf("list does not show the new task")
	}
	if !strings.Contains(page, "Task added successfully!") {
		t.Fatalf("list does not show the add flash")
	}
	if taskCount(t, database) != 1 {
		t.Fatalf("task count = %d; want 1", taskCount(t, database))
	}
	id := onlyTaskID(t, database)

	// Edit it.
	w = b.postForm("/edit/"+strconv.FormatInt(id, 10), url.Values{"task": {"Buy milk and eggs"}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("edit status = %d; want 303", w.Code)
	}
	w = b.get("/")
	page = w.Body.String()
	if !strings.Contains(page, "Buy milk and eggs") {
		t.Fatalf("list does not show the updated description")
	}
	if onlyTaskID(t, database) != id {
		t.Fatalf("edit changed the task id")
	}

	// Complete it, twice.
	for i := 0; i < 2; i++ {
		w = b.get("/complete/" + strconv.FormatInt(id, 10))
		if w.Code != http.StatusFound {
			t.Fatalf("complete attempt %d status = %d; want 302", i+1, w.Code)
		}
	}
	var completed int
	if err := database.QueryRow(`SELECT is_completed FROM tasks WHERE id = ?`, id).Scan(&completed); err != nil {
		t.Fatalf("read completion flag: %v", err)
	}
	if completed != 1 {
		t.Fatalf("task not completed after two attempts")
	}

	// Delete it.
	w = b.get("/delete/" + strconv.FormatInt(id, 10))
	if w.Code != http.StatusFound {
		t.Fatalf("delete status = %d; want 302", w.Code)
	}
	w = b.get("/")
	if !strings.Contains(w.Body.String(), "No tasks yet.") {
		t.Fatalf("list is not empty after delete")
	}
	if taskCount(t, database) != 0 {
		t.Fatalf("table not empty after delete")
	}
}

func TestAddEmptyTask(t *testing.T) {
	engine, database := newTestApp(t)
	b := newBrowser(t, engine)

	w := b.postForm("/add", url.Values{"task": {"   "}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("add status = %d; want 303", w.Code)
	}
	if taskCount(t, database) != 0 {
		t.Fatalf("blank add created a row")
	}

	w = b.get("/")
	if !strings.Contains(w.Body.String(), "Task cannot be empty!") {
		t.Fatalf("missing validation flash")
	}
}

func TestMutateMissingTask(t *testing.T) {
	engine, _ := newTestApp(t)

	paths := []string{"/delete/999", "/complete/999", "/edit/999", "/delete/not-a-number"}
	for _, path := range paths {
		b := newBrowser(t, engine)
		w := b.get(path)
		if w.Code != http.StatusFound {
			t.Fatalf("GET %s status = %d; want 302", path, w.Code)
		}
		w = b.get("/")
		if !strings.Contains(w.Body.String(), "Task not found!") {
			t.Fatalf("GET %s: missing not-found flash", path)
		}
	}
}

func TestUpdateMissingTask(t *testing.T) {
	engine, _ := newTestApp(t)
	b := newBrowser(t, engine)

	w := b.postForm("/edit/999", url.Values{"task": {"anything"}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("update status = %d; want 303", w.Code)
	}
	w = b.get("/")
	if !strings.Contains(w.Body.String(), "Task not found!") {
		t.Fatalf("missing not-found flash")
	}
}

func TestUpdateEmptyReturnsToForm(t *testing.T) {
	engine, database := newTestApp(t)
	b := newBrowser(t, engine)

	b.postForm("/add", url.Values{"task": {"Buy milk"}})
	id := onlyTaskID(t, database)
	editPath := "/edit/" + strconv.FormatInt(id, 10)

	w := b.postForm(editPath, url.Values{"task": {""}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("update status = %d; want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != editPath {
		t.Fatalf("validation redirect = %q; want %q", loc, editPath)
	}

	w = b.get(editPath)
	page := w.Body.String()
	if !strings.Contains(page, "Task cannot be empty!") {
		t.Fatalf("edit form missing validation flash")
	}
	if !strings.Contains(page, "Buy milk") {
		t.Fatalf("edit form lost the current description")
	}
}

func TestEditFormShowsTask(t *testing.T) {
	engine, database := newTestApp(t)
	b := newBrowser(t, engine)

	b.postForm("/add", url.Values{"task": {"Buy milk"}})
	id := onlyTaskID(t, database)

	w := b.get("/edit/" + strconv.FormatInt(id, 10))
	if w.Code != http.StatusOK {
		t.Fatalf("edit form status = %d; want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `value="Buy milk"`) {
		t.Fatalf("edit form does not prefill the description")
	}
}

func TestIndexRendersEmptyListOnStorageFailure(t *testing.T) {
	engine, database := newTestApp(t)
	b := newBrowser(t, engine)

	// Break storage out from under the handler.
	if _, err := database.Exec(`DROP TABLE tasks`); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	w := b.get("/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 despite storage failure", w.Code)
	}
	page := w.Body.String()
	if !strings.Contains(page, "Failed to load tasks") {
		t.Fatalf("missing storage error message")
	}
	if !strings.Contains(page, "No tasks yet.") {
		t.Fatalf("page did not fall back to the empty list")
	}
}

func TestUnknownRouteRenders404(t *testing.T) {
	engine, _ := newTestApp(t)
	b := newBrowser(t, engine)

	w := b.get("/no-such-page")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Page Not Found") {
		t.Fatalf("missing 404 page body")
	}
}

func TestHealthEndpoints(t *testing.T) {
	engine, _ := newTestApp(t)
	b := newBrowser(t, engine)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := b.get(path)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d; want 200", path, w.Code)
		}
	}
}
