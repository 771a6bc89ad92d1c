package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout  = 15 * time.Second
	maxBodyBytes    = 10 << 20
	defaultCategory = "General"
	defaultImageURL = "/placeholder.svg"
)

var ErrUnexpectedStatus = errors.New("unexpected catalog response status")

// Client reads the product sheet published as a JSON array of loosely typed rows.
type Client struct {
	url        string
	httpClient *http.Client
	log        logger.Logger
}

func NewClient(cfg config.CatalogConfig, log logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Client{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

func (c *Client) FetchProducts(ctx context.Context) ([]entity.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var rows []map[string]interface{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode catalog payload: %w", err)
	}

	products := make([]entity.Product, 0, len(rows))
	for i, row := range rows {
		products = append(products, NormalizeRow(i, row))
	}
	c.log.Debugf("Fetched %d products from catalog in %s", len(products), time.Since(start))
	return products, nil
}

// NormalizeRow maps one sheet row onto a Product. Ids are positional and 1-based.
// Each field takes the first truthy value among its keys, then a default.
func NormalizeRow(index int, row map[string]interface{}) entity.Product {
	return entity.Product{
		ID:          fmt.Sprintf("product-%d", index+1),
		Name:        toString(firstTruthy(row, "Product Name", "name"), ""),
		Description: toString(firstTruthy(row, "Description", "description"), ""),
		Price:       nonNegative(toFloat(firstTruthy(row, "Price", "price"))),
		Category:    toString(firstTruthy(row, "Category", "category"), defaultCategory),
		Stock:       toInt(firstTruthy(row, "Stock", "stock")),
		ImageURL:    toString(firstTruthy(row, "Image URL", "imageUrl"), defaultImageURL),
	}
}
