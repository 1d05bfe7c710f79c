package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseClientPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/things", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "v1", r.Header.Get("X-Client"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bar", body["foo"])
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL)
	c.SetHeader("X-Client", "v1")
	data, err := c.PostJSON(context.Background(), "/things", map[string]string{"foo": "bar"},
		Header{Key: "Authorization", Value: "Bearer tok"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestBaseClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"NOT_YOUR_TURN"}`))
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL)
	_, err := c.Get(context.Background(), "/x")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusConflict, se.StatusCode)
	assert.JSONEq(t, `{"code":"NOT_YOUR_TURN"}`, string(se.Body))
}

func TestBaseClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL)
	c.SetTimeout(20 * time.Millisecond)
	_, err := c.Get(context.Background(), "/slow")
	assert.Error(t, err)
}
