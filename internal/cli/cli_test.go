package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplyask/internal/stubservice"
)

const cliFixtures = `
fixtures:
  - name: stock
    keywords: [stock]
    response:
      type: data
      data:
        - SKU: A1
          Qty: 10
        - SKU: A2
          Qty: 5
default:
  response:
    type: doc
    answer: The margin is **15%**.
`

func startStub(t *testing.T) string {
	t.Helper()
	set, err := stubservice.ParseFixtures([]byte(cliFixtures))
	require.NoError(t, err)
	ts := httptest.NewServer(stubservice.New(set, nil).Handler())
	t.Cleanup(ts.Close)
	return ts.URL + stubservice.QueryPath
}

// closedEndpoint returns a URL nothing listens on.
func closedEndpoint(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return "http://" + addr + "/query/"
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAsk_Text(t *testing.T) {
	endpoint := startStub(t)

	out, err := execute(t, "", "ask", "--endpoint", endpoint, "current", "stock")
	require.NoError(t, err)

	assert.Contains(t, out, "SKU")
	assert.Contains(t, out, "Qty")
	assert.Contains(t, out, "A2")
	assert.Contains(t, out, "(2 rows)")
}

func TestAsk_JSON(t *testing.T) {
	endpoint := startStub(t)

	out, err := execute(t, "", "ask", "--endpoint", endpoint, "-o", "json", "stock")
	require.NoError(t, err)
	assert.Equal(t, `{"type":"data","data":[{"SKU":"A1","Qty":10},{"SKU":"A2","Qty":5}]}`+"\n", out)
}

func TestAsk_QuestionFromStdin(t *testing.T) {
	endpoint := startStub(t)

	out, err := execute(t, "what is the margin?\n", "ask", "--endpoint", endpoint)
	require.NoError(t, err)
	assert.Contains(t, out, "The margin is 15%.")
}

func TestAsk_StdinQuestionSentAsTyped(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		want  string
	}{
		{"trailing newline dropped", "  lead time \n", "  lead time "},
		{"crlf dropped", "lead time\r\n", "lead time"},
		{"empty question", "", ""},
		{"blank line", "\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make(chan string, 1)
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var body map[string]string
				_ = json.NewDecoder(r.Body).Decode(&body)
				got <- body["user_input"]
				_, _ = w.Write([]byte(`{"type":"doc","answer":"ok"}`))
			}))
			defer ts.Close()

			_, err := execute(t, tt.stdin, "ask", "--endpoint", ts.URL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, <-got)
		})
	}
}

func TestAsk_FailureJSON(t *testing.T) {
	out, err := execute(t, "", "ask", "--endpoint", closedEndpoint(t), "-o", "json", "stock")
	require.ErrorIs(t, err, ErrQueryFailed)

	var wire struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &wire))
	assert.Equal(t, "error", wire.Type)
	assert.Contains(t, wire.Message, "connection refused")
}

func TestAsk_BadOutputFormat(t *testing.T) {
	_, err := execute(t, "", "ask", "-o", "yaml", "stock")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yaml")
}

func TestAsk_BadRoleFlag(t *testing.T) {
	_, err := execute(t, "", "ask", "--role", "Intern", "stock")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Intern")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "supplyask "+Version)
}
