package woocommerce

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadies/roadies-backend/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.WooCommerceConfig{
		URL:            server.URL,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresConfiguration(t *testing.T) {
	_, err := NewClient(&config.WooCommerceConfig{URL: "https://store.example.com"})
	require.Error(t, err)
}

func TestSearchProducts_NormalizesProducts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiPath, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "5", q.Get("per_page"))
		assert.Equal(t, "publish", q.Get("status"))
		assert.Equal(t, "helmet", q.Get("search"))
		assert.Equal(t, "ck_test", q.Get("consumer_key"))

		fmt.Fprint(w, `[
			{"id":900,"name":"Storefront Helmet","price":"4200","stock_quantity":null,
			 "images":[{"src":"https://store.example.com/img.jpg"}],"tags":[{"name":"Full Face"}]},
			{"id":901,"name":"Tracked Helmet","price":"5100","stock_quantity":2}
		]`)
	})

	products, err := client.SearchProducts(context.Background(), "helmet", 0)

	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, 900, products[0].ID)
	assert.Equal(t, 4200.0, products[0].Price)
	assert.Equal(t, "helmet", products[0].Category)
	assert.Equal(t, []string{"full face"}, products[0].Tags)
	assert.Equal(t, "https://store.example.com/img.jpg", products[0].Image)

	// Null stock_quantity means stock management is off, not an empty shelf.
	assert.Equal(t, defaultStock, products[0].Stock)
	assert.Equal(t, 2, products[1].Stock)
}

func TestSearchProducts_SendsMaxPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7000", r.URL.Query().Get("max_price"))
		fmt.Fprint(w, `[]`)
	})

	products, err := client.SearchProducts(context.Background(), "helmet", 7000)

	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSearchProducts_ServerErrorMapsToUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.SearchProducts(context.Background(), "helmet", 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}
