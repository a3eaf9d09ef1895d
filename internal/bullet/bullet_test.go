package bullet

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/salvo/internal/config"
	"github.com/wesleyorama2/salvo/internal/formsyntax"
	"github.com/wesleyorama2/salvo/internal/http"
)

func TestLoad(t *testing.T) {
	b, err := Load("POST", "http://localhost/submit", config.BulletConfig{
		Header: `X-Client:salvo Accept:text/plain`,
		Form:   `key1:pbdr "key2":"LDVR 2.0" \:NEWKEY3:value`,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"X-Client": "salvo", "Accept": "text/plain"}, b.Header)
	assert.Equal(t, map[string]string{
		"key1":     "pbdr",
		"key2":     "LDVR 2.0",
		":NEWKEY3": "value",
	}, b.Form)
	assert.Nil(t, b.Body)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload config.BulletConfig
		prefix  string
		kind    error
	}{
		{"header", config.BulletConfig{Header: ":value"}, "header: ", formsyntax.ErrNoKey},
		{"form", config.BulletConfig{Form: `key1":val"`}, "form: ", formsyntax.ErrInvalidKeyFormat},
		{"dangling key", config.BulletConfig{Form: `"onlykey"`}, "form: ", formsyntax.ErrInvalidValueFormat},
		{"header name", config.BulletConfig{Header: `X\ Trace:v`}, "header: ", http.ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Load("GET", "http://localhost", tt.payload, formsyntax.New())
			require.Error(t, err)
			assert.Nil(t, b)
			assert.True(t, errors.Is(err, tt.kind), "error %v is not %v", err, tt.kind)
			assert.Contains(t, err.Error(), tt.prefix)
		})
	}
}

func TestBullet_Request(t *testing.T) {
	b, err := Load("POST", "http://localhost/submit", config.BulletConfig{
		Header: `X-Client:salvo`,
		Form:   `user:alice`,
	}, nil)
	require.NoError(t, err)

	httpReq, err := b.Request().Build(b.URL)
	require.NoError(t, err)

	assert.Equal(t, "POST", httpReq.Method)
	assert.Equal(t, "http://localhost/submit", httpReq.URL.String())
	assert.Equal(t, "salvo", httpReq.Header.Get("X-Client"))
	assert.Equal(t, "application/x-www-form-urlencoded", httpReq.Header.Get("Content-Type"))

	body, _ := io.ReadAll(httpReq.Body)
	assert.Equal(t, "user=alice", string(body))
}

func TestBullet_RequestQuotedHeader(t *testing.T) {
	b, err := Load("GET", "http://localhost", config.BulletConfig{
		Header: `X-Client:salvo "X-Trace":"load test"`,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"X-Client": "salvo", "X-Trace": "load test"}, b.Header)

	httpReq, err := b.Request().Build(b.URL)
	require.NoError(t, err)
	assert.Equal(t, "load test", httpReq.Header.Get("X-Trace"))
}

func TestBullet_RequestBody(t *testing.T) {
	b, err := Load("PUT", "http://localhost/item", config.BulletConfig{Body: `{"id":1}`}, nil)
	require.NoError(t, err)

	httpReq, err := b.Request().Build(b.URL)
	require.NoError(t, err)

	body, _ := io.ReadAll(httpReq.Body)
	assert.Equal(t, `{"id":1}`, string(body))
	assert.Empty(t, httpReq.Header.Get("Content-Type"))
}
