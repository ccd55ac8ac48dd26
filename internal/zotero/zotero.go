// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zotero lists items of a Zotero group through the Zotero Web API v3.
package zotero

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/social-bots/internal/httputil"
)

// apiBase is the Zotero Web API root. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://api.zotero.org"

// pageSize is the largest page the API serves.
const pageSize = 100

// Client queries the Zotero Web API.
type Client struct {
	Client *http.Client
	// APIKey is only needed for private groups.
	APIKey string
}

// Item is one library item. Data holds the item's fields exactly as the API
// returns them (title, creators, dateAdded, ...).
type Item struct {
	Key     string         `json:"key"`
	Version int            `json:"version"`
	Data    map[string]any `json:"data"`
}

// TopItems returns every top-level item of the group, following pagination
// until the last page. When tag is non-empty only items carrying it are
// listed.
func (c *Client) TopItems(ctx context.Context, groupID, tag string) ([]Item, error) {
	if groupID == "" {
		return nil, fmt.Errorf("empty Zotero group id")
	}

	var items []Item
	for start := 0; ; {
		page, total, err := c.topItemsPage(ctx, groupID, tag, start)
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
		start += len(page)

		if len(page) == 0 {
			break
		}
		if total >= 0 && start >= total {
			break
		}
		if total < 0 && len(page) < pageSize {
			break
		}
	}
	return items, nil
}

// topItemsPage fetches one page. total is -1 when the server did not send
// Total-Results.
func (c *Client) topItemsPage(ctx context.Context, groupID, tag string, start int) (page []Item, total int, err error) {
	params := url.Values{
		"format": {"json"},
		"limit":  {strconv.Itoa(pageSize)},
		"start":  {strconv.Itoa(start)},
	}
	if tag != "" {
		params.Set("tag", tag)
	}
	reqURL := fmt.Sprintf("%s/groups/%s/items/top?%s", apiBase, url.PathEscape(groupID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Zotero-API-Version", "3")
	if c.APIKey != "" {
		req.Header.Set("Zotero-API-Key", c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("Zotero API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, httputil.StatusError("Zotero API", resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, 0, fmt.Errorf("parsing Zotero response: %w", err)
	}

	total = -1
	if h := resp.Header.Get("Total-Results"); h != "" {
		if n, convErr := strconv.Atoi(h); convErr == nil {
			total = n
		}
	}
	return page, total, nil
}
