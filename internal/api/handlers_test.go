package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtodo/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Count   int             `json:"count"`
	Removed int             `json:"removed"`
	Changed bool            `json:"changed"`
}

type testServer struct {
	env    *testutil.Env
	server *Server
}

func newTestServer(t *testing.T, seed ...string) *testServer {
	t.Helper()
	env := testutil.NewEnv(t, nil)
	env.Seed(t, seed...)
	return &testServer{env: env, server: NewServer(env.Session, nil)}
}

func (ts *testServer) do(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

type wireTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

func decodeTasks(t *testing.T, raw json.RawMessage) []wireTask {
	t.Helper()
	var out []wireTask
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestListTasks(t *testing.T) {
	ts := newTestServer(t, "Buy milk", "Walk dog", "Buy bread")
	_, _, err := ts.env.Session.Toggle(t.Context(), "id-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"all", "/api/tasks", []string{"Buy bread", "Walk dog", "Buy milk"}},
		{"active", "/api/tasks?filter=active", []string{"Buy bread", "Walk dog"}},
		{"completed", "/api/tasks?filter=completed", []string{"Buy milk"}},
		{"search", "/api/tasks?q=BUY", []string{"Buy bread", "Buy milk"}},
		{"search and filter", "/api/tasks?filter=active&q=buy", []string{"Buy bread"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := ts.do(t, http.MethodGet, tt.target, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.True(t, env.Success)

			var got []string
			for _, tk := range decodeTasks(t, env.Data) {
				got = append(got, tk.Text)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), env.Count)
		})
	}
}

func TestListTasksBadFilter(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do(t, http.MethodGet, "/api/tasks?filter=done", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "invalid filter")
}

func TestCreateTask(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do(t, http.MethodPost, "/api/tasks", map[string]string{"text": "  Buy milk  "})
	require.Equal(t, http.StatusCreated, w.Code)

	var created wireTask
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Buy milk", created.Text)
	assert.False(t, created.Completed)
	assert.NotEmpty(t, created.CreatedAt)

	tasks, err := ts.env.Session.Tasks(t.Context())
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestCreateTaskBlank(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []any{map[string]string{"text": "   "}, map[string]string{}} {
		w, env := ts.do(t, http.MethodPost, "/api/tasks", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
	}

	tasks, _ := ts.env.Session.Tasks(t.Context())
	assert.Empty(t, tasks)
}

func TestEditTask(t *testing.T) {
	ts := newTestServer(t, "Buy milk")

	w, env := ts.do(t, http.MethodPatch, "/api/tasks/id-1", map[string]string{"text": "Buy oat milk"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Changed)
	var edited wireTask
	require.NoError(t, json.Unmarshal(env.Data, &edited))
	assert.Equal(t, "Buy oat milk", edited.Text)

	w, _ = ts.do(t, http.MethodPatch, "/api/tasks/id-1", map[string]string{"text": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = ts.do(t, http.MethodPatch, "/api/tasks/nope", map[string]string{"text": "x"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.False(t, env.Changed)

	tasks, _ := ts.env.Session.Tasks(t.Context())
	assert.Equal(t, "Buy oat milk", tasks[0].Text)
}

func TestToggleTask(t *testing.T) {
	ts := newTestServer(t, "Buy milk")

	w, env := ts.do(t, http.MethodPost, "/api/tasks/id-1/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var toggled wireTask
	require.NoError(t, json.Unmarshal(env.Data, &toggled))
	assert.True(t, toggled.Completed)

	require.NoError(t, ts.env.Session.Flush(t.Context()))
	before := ts.env.Backend.Writes()
	w, env = ts.do(t, http.MethodPost, "/api/tasks/nope/toggle", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, env.Changed)
	assert.Empty(t, env.Data)
	require.NoError(t, ts.env.Session.Flush(t.Context()))
	assert.Equal(t, before, ts.env.Backend.Writes())
}

func TestDeleteTaskRequiresConfirmation(t *testing.T) {
	ts := newTestServer(t, "Buy milk")

	w, env := ts.do(t, http.MethodDelete, "/api/tasks/id-1", nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Contains(t, env.Error, "confirm")

	tasks, _ := ts.env.Session.Tasks(t.Context())
	assert.Len(t, tasks, 1)

	w, env = ts.do(t, http.MethodDelete, "/api/tasks/id-1?confirm=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Changed)

	w, env = ts.do(t, http.MethodDelete, "/api/tasks/id-1?confirm=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, env.Changed)

	tasks, _ = ts.env.Session.Tasks(t.Context())
	assert.Empty(t, tasks)
}

func TestClearCompleted(t *testing.T) {
	ts := newTestServer(t, "a", "b", "c")
	ts.env.Session.Toggle(t.Context(), "id-1")
	ts.env.Session.Toggle(t.Context(), "id-3")

	w, _ := ts.do(t, http.MethodPost, "/api/tasks/clear-completed", nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)

	w, env := ts.do(t, http.MethodPost, "/api/tasks/clear-completed?confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, env.Removed)

	w, env = ts.do(t, http.MethodPost, "/api/tasks/clear-completed?confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Removed)

	tasks, _ := ts.env.Session.Tasks(t.Context())
	require.Len(t, tasks, 1)
	assert.Equal(t, "b", tasks[0].Text)
}

func TestStats(t *testing.T) {
	ts := newTestServer(t, "a", "b", "c")
	ts.env.Session.Toggle(t.Context(), "id-2")

	w, env := ts.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":3,"active":2,"completed":1,"completionRate":33}`, string(env.Data))
}

func TestStatus(t *testing.T) {
	ts := newTestServer(t, "a")
	require.NoError(t, ts.env.Session.Flush(t.Context()))

	w, env := ts.do(t, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var msg struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Equal(t, "ok", msg.Kind)
	assert.Equal(t, "Saved", msg.Text)
}
