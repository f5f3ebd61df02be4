package woocommerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/roadies/roadies-backend/internal/domain/entities"
	"github.com/roadies/roadies-backend/pkg/config"
)

const (
	apiPath        = "/wp-json/wc/v3/products"
	maxResults     = 5
	requestTimeout = 10 * time.Second

	// defaultStock stands in when stock management is off and the API
	// reports a null quantity. Null means unknown, not sold out, so the
	// value sits between the ranker's low-stock and deep-stock thresholds.
	defaultStock = 10
)

// ErrUnavailable signals that the storefront catalog could not serve the
// request and the local catalog should be used instead.
var ErrUnavailable = errors.New("woocommerce catalog unavailable")

// Client talks to a WooCommerce storefront catalog.
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
}

// NewClient creates a new WooCommerce client.
func NewClient(cfg *config.WooCommerceConfig) (*Client, error) {
	if cfg == nil || !cfg.Configured() {
		return nil, errors.New("woocommerce url and consumer key are required")
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.URL, "/"),
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

type wooImage struct {
	Src string `json:"src"`
}

type wooTag struct {
	Name string `json:"name"`
}

type wooProduct struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Price         string     `json:"price"`
	Permalink     string     `json:"permalink"`
	StockQuantity *int       `json:"stock_quantity"`
	Images        []wooImage `json:"images"`
	Tags          []wooTag   `json:"tags"`
}

// SearchProducts returns up to five published products matching the keyword,
// normalized to the catalog product shape. Any transport or decode failure
// maps to ErrUnavailable.
func (c *Client) SearchProducts(ctx context.Context, keyword string, maxPrice float64) ([]*entities.Product, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(maxResults))
	params.Set("status", "publish")
	params.Set("consumer_key", c.consumerKey)
	params.Set("consumer_secret", c.consumerSecret)
	if keyword != "" {
		params.Set("search", keyword)
	}
	if maxPrice > 0 {
		params.Set("max_price", strconv.FormatFloat(maxPrice, 'f', -1, 64))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var items []wooProduct
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	products := make([]*entities.Product, 0, len(items))
	for _, item := range items {
		products = append(products, normalizeProduct(item, keyword))
		if len(products) == maxResults {
			break
		}
	}
	return products, nil
}

func normalizeProduct(item wooProduct, keyword string) *entities.Product {
	price, _ := strconv.ParseFloat(item.Price, 64)

	stock := defaultStock
	if item.StockQuantity != nil {
		stock = *item.StockQuantity
	}

	image := ""
	if len(item.Images) > 0 {
		image = item.Images[0].Src
	}

	tags := make([]string, 0, len(item.Tags))
	for _, t := range item.Tags {
		tags = append(tags, strings.ToLower(t.Name))
	}

	return &entities.Product{
		ID:       item.ID,
		Name:     item.Name,
		Price:    price,
		Category: strings.ToLower(keyword),
		Tags:     tags,
		Stock:    stock,
		Link:     item.Permalink,
		Image:    image,
	}
}
