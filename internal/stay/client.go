// Package stay is a read-only client for the external accommodation
// listings API. It fetches and reshapes data for display; it keeps no
// state and enforces no invariants.
package stay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Search returns one page of the accommodation catalog.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Accommodation, error) {
	if params.PageSize <= 0 {
		params.PageSize = 10
	}
	if params.PageNumber <= 0 {
		params.PageNumber = 1
	}

	url := fmt.Sprintf("%s/v1/accommodations/search?page-size=%d&page-number=%d",
		c.baseURL, params.PageSize, params.PageNumber)

	var resp searchResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("search accommodations: %w", err)
	}

	items := make([]Accommodation, 0, len(resp.Result.Items))
	for _, it := range resp.Result.Items {
		items = append(items, it.reshape())
	}
	return items, nil
}

// Detail returns the listing with the given code, or (nil, nil) when the
// API has no such listing.
func (c *Client) Detail(ctx context.Context, code int) (*Detail, error) {
	url := c.baseURL + "/v1/accommodations/" + strconv.Itoa(code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch accommodation %d: %w", code, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch accommodation %d: unexpected status %d", code, res.StatusCode)
	}

	var resp detailResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode accommodation %d: %w", code, err)
	}
	return resp.Result.reshape(), nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
