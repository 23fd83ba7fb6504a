package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientGetCart(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotAuth, gotReqID string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/cart", r.URL.Path)
			gotAuth = r.Header.Get("Authorization")
			gotReqID = r.Header.Get("X-Request-ID")

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"success": true,
				"data": {
					"items": [
						{"product":"p1","title":"Jacket","price":15000,"image":"x.jpg","quantity":2},
						{"product":"p2","title":"Scarf","price":3000,"image":"","quantity":1}
					]
				}
			}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, 5*time.Second)
		items, err := c.GetCart(context.Background(), "tok-1")

		assert.NoError(t, err)
		assert.Equal(t, "Bearer tok-1", gotAuth)
		assert.NotEmpty(t, gotReqID)
		assert.Equal(t, []Item{
			{ProductID: "p1", Title: "Jacket", Price: 15000, Image: "x.jpg", Quantity: 2},
			{ProductID: "p2", Title: "Scarf", Price: 3000, Quantity: 1},
		}, items)
	})

	t.Run("No token means no bearer header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"success":true,"data":{"items":[]}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, 5*time.Second)
		items, err := c.GetCart(context.Background(), "")

		assert.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Success false is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":false,"message":"cart unavailable"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, 5*time.Second)
		_, err := c.GetCart(context.Background(), "tok-1")

		assert.ErrorIs(t, err, ErrRejected)
		assert.Contains(t, err.Error(), "cart unavailable")
	})

	t.Run("Unauthorized status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		c := NewClient(server.URL, 5*time.Second)
		_, err := c.GetCart(context.Background(), "bad-token")

		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("Server error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewClient(server.URL, 5*time.Second)
		_, err := c.GetCart(context.Background(), "tok-1")

		assert.Error(t, err)
	})

	t.Run("Malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		c := NewClient(server.URL, 5*time.Second)
		_, err := c.GetCart(context.Background(), "tok-1")

		assert.Error(t, err)
	})
}

func TestClientMergeCart(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cart/merge", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second)
	err := c.MergeCart(context.Background(), "tok-1", []MergeItem{
		{ProductID: "p1", Quantity: 2},
	})

	assert.NoError(t, err)
	items, ok := gotBody["items"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, "p1", line["product"])
	assert.Equal(t, float64(2), line["quantity"])
}

func TestClientItemEndpoints(t *testing.T) {
	type call struct {
		method string
		path   string
	}
	var calls []call
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second)
	ctx := context.Background()

	assert.NoError(t, c.AddOrUpdateItem(ctx, "tok", "p1", 2))
	assert.NoError(t, c.UpdateItem(ctx, "tok", "p1", 4))
	assert.NoError(t, c.RemoveItem(ctx, "tok", "p1"))
	assert.NoError(t, c.ClearCart(ctx, "tok"))

	assert.Equal(t, []call{
		{http.MethodPost, "/api/cart/items"},
		{http.MethodPut, "/api/cart/items/p1"},
		{http.MethodDelete, "/api/cart/items/p1"},
		{http.MethodDelete, "/api/cart"},
	}, calls)
}
