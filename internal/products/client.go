package products

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/adeemgetnoor/customer-profile-manager/internal/shopify"
	"github.com/adeemgetnoor/customer-profile-manager/pkg/errors"
)

// Product is the normalized lookup result used to enrich wishlist entries.
type Product struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Title  string `json:"title"`
	Image  string `json:"image,omitempty"`
}

// GraphQLExecutor is the slice of the Shopify client this package needs.
type GraphQLExecutor interface {
	Execute(ctx context.Context, query string, variables map[string]interface{}) (*shopify.GraphQLResponse, error)
}

// Client resolves products by numeric id (Admin REST) or by handle (Admin GraphQL).
// Results are cached in-process so enriching a wishlist does not re-fetch the same
// product on every read.
type Client struct {
	gql         GraphQLExecutor
	restBase    string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger

	cache    sync.Map // "id:<n>" / "handle:<h>" -> cachedProduct
	cacheTTL time.Duration
}

type cachedProduct struct {
	product  Product
	fetchedAt time.Time
}

// NewClient creates a product lookup client sharing the Shopify client's
// credentials and API version.
func NewClient(sc *shopify.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		gql:         sc,
		restBase:    strings.TrimSuffix(sc.RestURL(""), "/"),
		accessToken: sc.AccessToken(),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
		cacheTTL:    5 * time.Minute,
	}
}

// ByID fetches a product by its numeric id via the Admin REST API.
func (c *Client) ByID(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product id is required")
	}
	if p, ok := c.cached("id:" + id); ok {
		return p, nil
	}

	url := fmt.Sprintf("%s/products/%s.json", c.restBase, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Product by id request failed", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("shopify returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Product struct {
			ID     int64  `json:"id"`
			Handle string `json:"handle"`
			Title  string `json:"title"`
			Image  *struct {
				Src string `json:"src"`
			} `json:"image"`
		} `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parse product response: %w", err)
	}

	p := Product{
		ID:     strconv.FormatInt(payload.Product.ID, 10),
		Handle: payload.Product.Handle,
		Title:  payload.Product.Title,
	}
	if payload.Product.Image != nil {
		p.Image = payload.Product.Image.Src
	}

	c.store("id:"+id, p)
	if p.Handle != "" {
		c.store("handle:"+p.Handle, p)
	}
	return &p, nil
}

// ByHandle fetches a product by its URL handle via the Admin GraphQL API.
func (c *Client) ByHandle(ctx context.Context, handle string) (*Product, error) {
	if handle == "" {
		return nil, fmt.Errorf("product handle is required")
	}
	if p, ok := c.cached("handle:" + handle); ok {
		return p, nil
	}

	resp, err := c.gql.Execute(ctx, shopify.ProductByHandleQuery, map[string]interface{}{
		"handle": handle,
	})
	if err != nil {
		c.logger.Warn("Product by handle request failed", zap.String("handle", handle), zap.Error(err))
		return nil, err
	}

	var result struct {
		ProductByHandle *struct {
			ID            string `json:"id"`
			Handle        string `json:"handle"`
			Title         string `json:"title"`
			FeaturedImage *struct {
				URL string `json:"url"`
			} `json:"featuredImage"`
		} `json:"productByHandle"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("parse productByHandle response: %w", err)
	}
	if result.ProductByHandle == nil {
		return nil, &errors.ErrNotFound{Resource: "product", ID: handle}
	}

	p := Product{
		ID:     shopify.ExtractIDFromGID(result.ProductByHandle.ID),
		Handle: result.ProductByHandle.Handle,
		Title:  result.ProductByHandle.Title,
	}
	if result.ProductByHandle.FeaturedImage != nil {
		p.Image = result.ProductByHandle.FeaturedImage.URL
	}

	c.store("handle:"+handle, p)
	if p.ID != "" {
		c.store("id:"+p.ID, p)
	}
	return &p, nil
}

func (c *Client) cached(key string) (*Product, bool) {
	v, ok := c.cache.Load(key)
	if !ok {
		return nil, false
	}
	entry := v.(cachedProduct)
	if c.cacheTTL > 0 && time.Since(entry.fetchedAt) > c.cacheTTL {
		c.cache.Delete(key)
		return nil, false
	}
	p := entry.product
	return &p, true
}

func (c *Client) store(key string, p Product) {
	c.cache.Store(key, cachedProduct{product: p, fetchedAt: time.Now()})
}
