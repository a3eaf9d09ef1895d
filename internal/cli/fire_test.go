package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/salvo/internal/config"
	"github.com/wesleyorama2/salvo/internal/formsyntax"
)

type target struct {
	*httptest.Server
	hits     atomic.Int64
	lastForm atomic.Value
	lastHdr  atomic.Value
}

func newTarget(t *testing.T) *target {
	t.Helper()
	tg := &target{}
	tg.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tg.hits.Add(1)
		_ = r.ParseForm()
		tg.lastForm.Store(r.PostForm.Encode())
		tg.lastHdr.Store(r.Header.Get("X-Trace"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"abc","ok":true}`))
	}))
	t.Cleanup(tg.Close)
	return tg
}

func TestFire_Basic(t *testing.T) {
	tg := newTarget(t)

	stdout, _, err := execute(t, "fire", tg.URL, "-g", "2", "-n", "3")
	require.NoError(t, err)

	assert.Equal(t, int64(6), tg.hits.Load())
	assert.Contains(t, stdout, "Total Shots:   6")
	assert.Contains(t, stdout, "Success Rate:  100.0%")
	assert.Contains(t, stdout, "Guns:          2 x 3 shots")
}

func TestFire_FormAndHeader(t *testing.T) {
	tg := newTarget(t)

	_, _, err := execute(t, "fire", tg.URL, "-X", "post",
		"-H", `X-Client:salvo "X-Trace":"load test"`,
		"-f", `user:alice pass:se\ cret`)
	require.NoError(t, err)

	assert.Equal(t, int64(1), tg.hits.Load())
	assert.Equal(t, "load test", tg.lastHdr.Load())
	assert.Equal(t, "pass=se+cret&user=alice", tg.lastForm.Load())
}

func TestFire_InvalidHeaderName(t *testing.T) {
	tg := newTarget(t)

	_, _, err := execute(t, "fire", tg.URL, "-H", `X\ Trace:v`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `bullet.header: invalid header: field name "X Trace"`)
	assert.Equal(t, int64(0), tg.hits.Load())
}

func TestFire_Verbose(t *testing.T) {
	tg := newTarget(t)

	stdout, stderr, err := execute(t, "fire", tg.URL, "-n", "2", "-v")
	require.NoError(t, err)

	assert.Contains(t, stdout, "GUN#0[0]|GET->Got in")
	assert.Contains(t, stdout, "GUN#0[1]|GET->Got in")
	assert.Contains(t, stderr, "salvo started")
}

func TestFire_InvalidHeader(t *testing.T) {
	tg := newTarget(t)

	_, stderr, err := execute(t, "fire", tg.URL, "-H", ":nokey")
	require.Error(t, err)

	assert.ErrorIs(t, err, formsyntax.ErrNoKey)
	assert.Contains(t, stderr, "level=WARN")
	assert.Contains(t, stderr, "rejected form syntax")
	assert.Equal(t, int64(0), tg.hits.Load(), "nothing is fired for a bad bullet")
}

func TestFire_InvalidConfig(t *testing.T) {
	_, _, err := execute(t, "fire")
	require.Error(t, err)

	var verrs config.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "url", verrs[0].Path)
}

func TestFire_ConfigFileWithOverride(t *testing.T) {
	tg := newTarget(t)

	path := filepath.Join(t.TempDir(), "salvo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
url: `+tg.URL+`
method: POST
guns: 1
repeat: 2
bullet:
  header: 'X-Trace:cfg'
  form: 'k:v'
`), 0o644))

	_, _, err := execute(t, "fire", "-c", path, "-n", "4")
	require.NoError(t, err)

	assert.Equal(t, int64(4), tg.hits.Load())
	assert.Equal(t, "cfg", tg.lastHdr.Load())
	assert.Equal(t, "k=v", tg.lastForm.Load())
}

func TestFire_JSONOutputWithExtract(t *testing.T) {
	tg := newTarget(t)

	stdout, _, err := execute(t, "fire", tg.URL, "-n", "3", "-o", "json", "--extract", "$.token")
	require.NoError(t, err)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, float64(3), report["totalShots"])
	assert.Equal(t, map[string]interface{}{"abc": float64(3)}, report["extracted"])
}

func TestFire_SchemaMismatch(t *testing.T) {
	tg := newTarget(t)

	schema := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(schema, []byte(`{"type":"object","required":["missing"]}`), 0o644))

	stdout, _, err := execute(t, "fire", tg.URL, "-n", "2", "--schema", schema)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Completed with errors")
	assert.Contains(t, stdout, "Success Rate:  0.0%")
}

func TestFire_StoreAndHistory(t *testing.T) {
	tg := newTarget(t)
	db := filepath.Join(t.TempDir(), "runs.db")

	stdout, _, err := execute(t, "fire", tg.URL, "-n", "2", "-o", "json", "--store", db)
	require.NoError(t, err)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	runID, _ := report["runId"].(string)
	require.NotEmpty(t, runID)

	stdout, _, err = execute(t, "history", "--store", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, runID)
	assert.Contains(t, stdout, "2 shots, 0 failed")

	stdout, _, err = execute(t, "history", "--store", db, runID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Salvo "+runID)
	assert.Contains(t, stdout, "Total Shots:   2")

	_, _, err = execute(t, "history", "--store", db, "unknown")
	assert.Error(t, err)

	_, _, err = execute(t, "history")
	assert.Error(t, err)
}

func TestFire_WatchNeedsConfig(t *testing.T) {
	_, _, err := execute(t, "fire", "http://localhost", "--watch")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "--config"))
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"":                         "",
		"example.com/path":         "http://example.com/path",
		" localhost:8080 ":         "http://localhost:8080",
		"https://example.com":      "https://example.com",
		"http://example.com/a?b=c": "http://example.com/a?b=c",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeURL(in), in)
	}
}
