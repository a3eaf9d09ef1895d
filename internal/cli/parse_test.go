package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/salvo/internal/formsyntax"
)

func TestParse_Text(t *testing.T) {
	stdout, _, err := execute(t, "parse", `key1:pbdr "key2":"LDVR 2.0"`)
	require.NoError(t, err)
	assert.Equal(t, "\"key2\" = \"LDVR 2.0\"\nkey1 = pbdr\n", stdout)
}

func TestParse_JSON(t *testing.T) {
	stdout, _, err := execute(t, "parse", "-o", "json", `user:alice pass:se\ cret`)
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &fields))
	assert.Equal(t, map[string]string{"user": "alice", "pass": "se cret"}, fields)
}

func TestParse_Canonical(t *testing.T) {
	stdout, _, err := execute(t, "parse", "--canonical", `b:2 "a b":c`)
	require.NoError(t, err)
	assert.Equal(t, "\\\"a\\ b\\\":c b:2\n", stdout)
}

func TestParse_Error(t *testing.T) {
	stdout, stderr, err := execute(t, "parse", "key1:")
	require.Error(t, err)

	assert.ErrorIs(t, err, formsyntax.ErrInvalidValueFormat)
	assert.Contains(t, stdout, "input error: invalid value format at end of input")
	assert.Contains(t, stderr, "level=WARN")

	var errOut bytes.Buffer
	printError(&errOut, err)
	assert.Empty(t, errOut.String(), "parse errors are printed once, on stdout")
}

func TestParse_Trace(t *testing.T) {
	_, stderr, err := execute(t, "parse", "--debug", "a:b")
	require.NoError(t, err)
	assert.Contains(t, stderr, "formsyntax step")
	assert.Contains(t, stderr, "collection=BuildVal")
}

func TestParse_BadFormat(t *testing.T) {
	_, _, err := execute(t, "parse", "-o", "xml", "a:b")
	assert.Error(t, err)
}
