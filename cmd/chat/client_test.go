package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/gymbro/v1/chat", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["message"])
		_, _ = w.Write([]byte(`{"success":true,"data":{"reply":"hey","intent":"other","pending_log":null}}`))
	}))
	defer srv.Close()

	res, err := newAPIClient(srv.URL+"/api/", "tok").send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hey", res.Reply)
	assert.Nil(t, res.PendingLog)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success":false,"code":502,"message":"upstream generation failed"}`))
	}))
	defer srv.Close()

	err := newAPIClient(srv.URL, "tok").reset(context.Background())
	assert.ErrorContains(t, err, "upstream generation failed")
}
