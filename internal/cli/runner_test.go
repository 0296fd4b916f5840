package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/fruits/internal/config"
	"github.com/idilsaglam/fruits/internal/ui"
)

// fruitServer mimics the REST service closely enough for the subcommands.
type fruitServer struct {
	mu     sync.Mutex
	fruits map[string]string
	order  []string
	hits   []string
	failOn string
}

func newFruitServer(t *testing.T) (*fruitServer, config.Config) {
	t.Helper()
	fs := &fruitServer{fruits: map[string]string{"1": "Cherry", "2": "Apple"}, order: []string{"1", "2"}}
	srv := httptest.NewServer(fs)
	t.Cleanup(srv.Close)
	cfg := config.Default()
	cfg.URL = srv.URL + "/api/fruits"
	return fs, cfg
}

func (fs *fruitServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.hits = append(fs.hits, r.Method+" "+r.URL.Path)
	if fs.failOn == r.Method {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	rest := strings.TrimPrefix(r.URL.Path, "/api/fruits")
	switch {
	case r.URL.Path == "/api/checks/jdbc":
		io.WriteString(w, `{"id":"jdbc-connection","result":"UP","data":{"table-size":2}}`)
	case r.URL.Path == "/api/":
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "Using datasource driver: H2 JDBC Driver")
	case rest == "" && r.Method == http.MethodGet:
		fs.writeList(w, fs.order)
	case rest == "" && r.Method == http.MethodPost:
		var body struct {
			ID   *string `json:"id"`
			Name string  `json:"name"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		id := "3"
		fs.fruits[id] = body.Name
		fs.order = append(fs.order, id)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": 3, "name": body.Name})
	case strings.HasPrefix(rest, "/search/"):
		key := strings.TrimPrefix(rest, "/search/")
		var ids []string
		for _, id := range fs.order {
			if fs.fruits[id] == key {
				ids = append(ids, id)
			}
		}
		fs.writeList(w, ids)
	default:
		id := strings.TrimPrefix(rest, "/")
		name, ok := fs.fruits[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{"id": id, "name": name})
		case http.MethodDelete:
			delete(fs.fruits, id)
			out := fs.order[:0]
			for _, o := range fs.order {
				if o != id {
					out = append(out, o)
				}
			}
			fs.order = out
		case http.MethodPut:
			var body struct {
				Name string `json:"name"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			fs.fruits[id] = body.Name
			json.NewEncoder(w).Encode(map[string]any{"id": id, "name": body.Name})
		}
	}
}

// writeList answers like the original JAX-RS service: null for none,
// a bare object for one, an array otherwise.
func (fs *fruitServer) writeList(w io.Writer, ids []string) {
	switch len(ids) {
	case 0:
		io.WriteString(w, "null")
	case 1:
		json.NewEncoder(w).Encode(map[string]any{"id": ids[0], "name": fs.fruits[ids[0]]})
	default:
		out := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			out = append(out, map[string]any{"id": id, "name": fs.fruits[id]})
		}
		json.NewEncoder(w).Encode(out)
	}
}

func (fs *fruitServer) requests() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.hits...)
}

func invoke(t *testing.T, cfg config.Config, args ...string) (int, string, string) {
	t.Helper()
	ui.SetColorForcing(false, true)
	t.Cleanup(func() { ui.SetColorForcing(false, false) })
	var out, errOut bytes.Buffer
	code := Run(args, Options{Config: cfg, Stdout: &out, Stderr: &errOut})
	return code, out.String(), errOut.String()
}

func TestUsageErrors(t *testing.T) {
	_, cfg := newFruitServer(t)
	for _, args := range [][]string{
		{},
		{"get"},
		{"add", "  "},
		{"rm"},
		{"update", "1"},
		{"bogus"},
	} {
		code, _, _ := invoke(t, cfg, args...)
		assert.Equal(t, 2, code, "%v", args)
	}
}

func TestHelp(t *testing.T) {
	_, cfg := newFruitServer(t)
	code, out, _ := invoke(t, cfg, "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Subcommands:")
}

func TestList(t *testing.T) {
	fs, cfg := newFruitServer(t)
	code, out, _ := invoke(t, cfg, "ls")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Total 2")
	assert.Less(t, strings.Index(out, "Cherry"), strings.Index(out, "Apple"))
	assert.Equal(t, []string{"GET /api/fruits"}, fs.requests())
}

func TestSearchSingleObjectReply(t *testing.T) {
	fs, cfg := newFruitServer(t)
	code, out, _ := invoke(t, cfg, "search", "Apple")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Total 1")
	assert.Contains(t, out, "Apple")
	assert.Equal(t, []string{"GET /api/fruits/search/Apple"}, fs.requests())
}

func TestSearchNoMatch(t *testing.T) {
	_, cfg := newFruitServer(t)
	code, out, _ := invoke(t, cfg, "search", "Durian")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "no fruits")
}

func TestGet(t *testing.T) {
	_, cfg := newFruitServer(t)
	code, out, _ := invoke(t, cfg, "get", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "name: Apple")

	code, _, errOut := invoke(t, cfg, "get", "99")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not found")
}

func TestAddRelists(t *testing.T) {
	fs, cfg := newFruitServer(t)
	code, out, _ := invoke(t, cfg, "add", "Blood", "Orange")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "fruit created successfully")
	assert.Contains(t, out, "Blood Orange")
	assert.Equal(t, []string{"POST /api/fruits", "GET /api/fruits"}, fs.requests())
}

func TestUpdateUnsupportedByDefault(t *testing.T) {
	fs, cfg := newFruitServer(t)
	code, _, errOut := invoke(t, cfg, "update", "1", "Lemon")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not supported")
	assert.Empty(t, fs.requests())
}

func TestUpdateWhenAllowed(t *testing.T) {
	fs, cfg := newFruitServer(t)
	cfg.AllowUpdate = true
	code, out, _ := invoke(t, cfg, "update", "1", "Lemon")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "fruit updated successfully")
	assert.Equal(t, []string{"PUT /api/fruits/1"}, fs.requests())
}

func TestRemove(t *testing.T) {
	fs, cfg := newFruitServer(t)
	code, out, _ := invoke(t, cfg, "rm", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "fruit deleted successfully")
	assert.Equal(t, []string{"DELETE /api/fruits/1", "GET /api/fruits"}, fs.requests())
}

func TestRemoveFailure(t *testing.T) {
	fs, cfg := newFruitServer(t)
	fs.failOn = http.MethodDelete
	code, out, errOut := invoke(t, cfg, "rm", "42")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "delete error: 500 Internal Server Error")
	assert.NotContains(t, out, "Total")
	assert.Equal(t, []string{"DELETE /api/fruits/42"}, fs.requests())
}

func TestListUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.URL = "http://127.0.0.1:1/api/fruits"
	code, _, errOut := invoke(t, cfg, "ls")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "could not load fruits from http://127.0.0.1:1/api/fruits")
}

func TestHealthAndInfo(t *testing.T) {
	_, cfg := newFruitServer(t)
	code, out, _ := invoke(t, cfg, "health")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "UP")
	assert.Contains(t, out, "table size: 2")

	code, out, _ = invoke(t, cfg, "info")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "H2 JDBC Driver")
}
