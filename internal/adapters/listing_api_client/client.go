package listing_api_client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Robb753/farm-to-fork-sub000/internal/adapters/rest"
	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

const defaultTimeout = 15 * time.Second

// Client - HTTP-источник карточек поверх публичного API сервиса
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// doRequest - внутренний хелпер для выполнения запросов
func (c *Client) doRequest(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set(contextkeys.TraceHeader, traceID)
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

func (c *Client) getJSON(ctx context.Context, url string, dst interface{}) error {
	resp, err := c.doRequest(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("listing API returned non-success status code %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode listing API response: %w", err)
	}
	return nil
}

// FetchPage реализует port.ListingSourcePort
func (c *Client) FetchPage(ctx context.Context, query port.ListingQuery) (*port.ListingPage, error) {
	clientLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ListingApiClient",
		"method":    "FetchPage",
	})

	url := c.baseURL + "/api/v1/listings?" + rest.EncodeListingQuery(query).Encode()
	clientLogger.Debug("Sending request to listing API", port.Fields{"url": url})

	var page rest.PaginatedListingsResponse
	if err := c.getJSON(ctx, url, &page); err != nil {
		clientLogger.Error("Listing API request failed", err, nil)
		return nil, err
	}

	listings := make([]domain.Listing, len(page.Data))
	for i, l := range page.Data {
		listings[i] = rest.ToDomainListing(l)
	}

	clientLogger.Debug("Received listing page", port.Fields{"count": len(listings), "total": page.Total})
	return &port.ListingPage{Listings: listings, TotalCount: page.Total}, nil
}

// GetFilterOptions возвращает известные значения каждой категории
func (c *Client) GetFilterOptions(ctx context.Context) (map[domain.FilterCategory][]string, error) {
	var raw map[string][]string
	if err := c.getJSON(ctx, c.baseURL+"/api/v1/filters/options", &raw); err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Filter options request failed", err, port.Fields{"component": "ListingApiClient"})
		return nil, err
	}

	options := make(map[domain.FilterCategory][]string, len(raw))
	for name, values := range raw {
		if c, ok := domain.ParseFilterCategory(name); ok {
			options[c] = values
		}
	}
	return options, nil
}
