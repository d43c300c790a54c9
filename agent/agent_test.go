package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"solder/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryParsesStructuredResponse(t *testing.T) {
	t.Parallel()
	var gotRequest agentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response": "looks fine"}`))
	}))
	defer server.Close()

	c := NewClientWithURL(server.URL)
	text, err := c.Query(context.Background(), "fn main() {}", "ctx", "debug")
	require.NoError(t, err)
	assert.Equal(t, "looks fine", text)
	assert.Equal(t, "fn main() {}", gotRequest.Code)
	assert.Equal(t, "debug", gotRequest.RequestType)
}

func TestQueryToleratesAlternateKeysAndRawText(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{"text key", `{"text": "from text"}`, "from text"},
		{"message key", `{"message": "from message"}`, "from message"},
		{"output key", `{"output": "from output"}`, "from output"},
		{"raw text", `plain response`, "plain response"},
		{"unknown keys fall back to raw", `{"weird": "x"}`, `{"weird": "x"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			text, err := NewClientWithURL(server.URL).Query(context.Background(), "code", "", "debug")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, text)
		})
	}
}

func TestQueryNonOKStatus(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "agent exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClientWithURL(server.URL).Query(context.Background(), "code", "", "debug")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestInferInterface(t *testing.T) {
	t.Parallel()
	abi := `{"functions": [{"name": "transfer", "params": [{"name": "to", "type": "address"}, {"name": "amount", "type": "i128"}], "returns": "bool"}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, _ := json.Marshal(map[string]string{"response": abi})
		w.Write(resp)
	}))
	defer server.Close()

	iface, err := NewClientWithURL(server.URL).InferInterface(context.Background(), "contract source")
	require.NoError(t, err)
	require.Len(t, iface.Functions, 1)
	assert.Equal(t, "transfer", iface.Functions[0].Name)
	assert.Equal(t, domain.ParamAddress, iface.Functions[0].Params[0].Type)
	assert.Equal(t, domain.ParamBool, iface.Functions[0].Returns)
}

func TestParseInterface(t *testing.T) {
	t.Parallel()

	t.Run("strips markdown fences", func(t *testing.T) {
		text := "```json\n{\"functions\": [{\"name\": \"init\", \"returns\": \"void\"}]}\n```"
		iface, err := ParseInterface(text)
		require.NoError(t, err)
		require.Len(t, iface.Functions, 1)
		assert.Equal(t, "init", iface.Functions[0].Name)
	})

	t.Run("rejects empty function list", func(t *testing.T) {
		_, err := ParseInterface(`{"functions": []}`)
		assert.ErrorIs(t, err, ErrInvalidInterface)
	})

	t.Run("rejects non-JSON", func(t *testing.T) {
		_, err := ParseInterface("I could not infer an interface, sorry!")
		assert.ErrorIs(t, err, ErrInvalidInterface)
	})

	t.Run("rejects unknown parameter type", func(t *testing.T) {
		_, err := ParseInterface(`{"functions": [{"name": "f", "params": [{"name": "x", "type": "float64"}]}]}`)
		assert.ErrorIs(t, err, ErrInvalidInterface)
	})

	t.Run("rejects malicious function name", func(t *testing.T) {
		_, err := ParseInterface(`{"functions": [{"name": "<script>alert(1)</script>"}]}`)
		assert.ErrorIs(t, err, ErrInvalidInterface)
	})
}
