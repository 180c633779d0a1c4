package testutil

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTestJSON(t *testing.T) {
	data := LoadTestJSON(t, "tequila_search.json")
	assert.Contains(t, string(data), `"cityTo": "Barcelona"`)
}

func TestSearchAPI(t *testing.T) {
	api := NewSearchAPI(t).
		Respond("BCN", http.StatusOK, []byte(`{"currency":"USD","data":[{"price":1}]}`)).
		Respond("CDG", http.StatusUnauthorized, []byte(`{"error":"bad key"}`))

	get := func(dest string) (int, string) {
		resp, err := http.Get(api.URL() + "/search?fly_to=" + dest)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("BCN")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"price":1`)

	code, _ = get("CDG")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = get("LHR")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"currency":"USD","data":[]}`, body)

	requests := api.Requests()
	require.Len(t, requests, 3)
	assert.Equal(t, "LHR", requests[2].URL.Query().Get("fly_to"))
}
