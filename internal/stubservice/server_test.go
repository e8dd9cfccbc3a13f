package stubservice

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplyask/internal/query"
)

const testFixtures = `
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
  - name: forecast
    keywords: [forecast accuracy]
    response:
      type: hybrid
      definition: Accuracy of forecast
      data:
        - Metric: Forecast Accuracy
          Value: 0.82
  - name: broken
    keywords: [broken]
    status: 502
default:
  response:
    type: doc
    answer: The margin is **15%**.
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	set, err := ParseFixtures([]byte(testFixtures))
	require.NoError(t, err)
	return New(set, nil)
}

func post(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, QueryPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_HandleQuery(t *testing.T) {
	s := newTestServer(t)

	t.Run("POST matching question", func(t *testing.T) {
		w := post(t, s, `{"user_input":"current stock?","user_role":"Planner","region":"India"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Equal(t, `{"type":"data","data":[{"SKU":"A1","Qty":10},{"SKU":"A2","Qty":5}]}`, w.Body.String())
	})

	t.Run("POST falls back to default", func(t *testing.T) {
		w := post(t, s, `{"user_input":"margin?","user_role":"Finance","region":"Global"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"type":"doc"`)
	})

	t.Run("POST empty question is accepted", func(t *testing.T) {
		w := post(t, s, `{"user_input":"","user_role":"Finance","region":"Global"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("POST fixture status", func(t *testing.T) {
		w := post(t, s, `{"user_input":"broken","user_role":"Finance","region":"Global"}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("POST invalid JSON", func(t *testing.T) {
		w := post(t, s, "invalid json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("POST missing fields", func(t *testing.T) {
		w := post(t, s, `{"user_input":"stock"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("GET returns 405", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, QueryPath, nil)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestServer_Delay(t *testing.T) {
	set, err := ParseFixtures([]byte(`
fixtures:
  - name: slow
    keywords: [slow]
    delay: 50ms
    response: {type: doc, answer: late}
default:
  response: {type: doc, answer: x}
`))
	require.NoError(t, err)
	s := New(set, nil)

	start := time.Now()
	w := post(t, s, `{"user_input":"slow","user_role":"Finance","region":"Global"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

// The client and the stub agree on the wire contract end to end.
func TestServer_WithQueryClient(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()
	client := query.NewClient(ts.URL+QueryPath, 5*time.Second)
	ctx := context.Background()

	t.Run("document", func(t *testing.T) {
		out := client.Submit(ctx, query.Request{Text: "margin", Role: query.RoleFinance, Region: query.RegionGlobal})
		doc, ok := out.(query.Document)
		require.True(t, ok, "got %T", out)
		assert.Equal(t, "The margin is **15%**.", doc.AnswerMarkdown)
	})

	t.Run("tabular", func(t *testing.T) {
		out := client.Submit(ctx, query.Request{Text: "stock levels", Role: query.RolePlanner, Region: query.RegionIndia})
		tab, ok := out.(query.Tabular)
		require.True(t, ok, "got %T", out)
		require.Len(t, tab.Rows, 2)
		assert.Equal(t, []string{"SKU", "Qty"}, tab.Rows[0].Columns())
		assert.Equal(t, json.Number("5"), tab.Rows[1].Values()[1])
	})

	t.Run("hybrid", func(t *testing.T) {
		out := client.Submit(ctx, query.Request{Text: "forecast accuracy", Role: query.RoleManager, Region: query.RegionGlobal})
		h, ok := out.(query.Hybrid)
		require.True(t, ok, "got %T", out)
		assert.Equal(t, "Accuracy of forecast", h.Definition)
		require.Len(t, h.Rows, 1)
	})

	t.Run("status failure", func(t *testing.T) {
		out := client.Submit(ctx, query.Request{Text: "broken"})
		f, ok := out.(query.Failure)
		require.True(t, ok, "got %T", out)
		assert.Contains(t, f.Message, "502")
	})
}

func TestServer_ServeListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	srv := newTestServer(t)
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, ln) }()

	url := "http://" + ln.Addr().String() + QueryPath
	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(`{"user_input":"stock","user_role":"Finance","region":"Global"}`)))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
