package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// maxSearchDocuments caps how many search hits are inlined into the
// prompt as grounding context.
const maxSearchDocuments = 5

// SearchDocument is one web-search hit used as grounding context.
type SearchDocument struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
}

type searchResponse struct {
	Results []SearchDocument `json:"results"`
}

func (c *Client) search(ctx context.Context, topic string) ([]SearchDocument, error) {
	endpoint, err := url.Parse(c.searchBaseURL)
	if err != nil {
		return nil, wrapf(KindUnavailable, err, "parse search url")
	}
	endpoint = endpoint.JoinPath("search")
	query := endpoint.Query()
	query.Set("q", topic)
	query.Set("count", strconv.Itoa(maxSearchDocuments))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, wrapf(KindUnavailable, err, "build search request")
	}
	req.Header.Set("Authorization", "Bearer "+c.searchAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapf(KindUnavailable, err, "search request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorf(KindUnavailable, "search upstream returned %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, wrapf(KindUnavailable, err, "decode search response")
	}
	if len(parsed.Results) > maxSearchDocuments {
		parsed.Results = parsed.Results[:maxSearchDocuments]
	}
	return parsed.Results, nil
}

// gatherContext runs the optional search enrichment. Without a
// configured search key it returns no documents. Search failures
// degrade to an empty context unless the client requires search.
func (c *Client) gatherContext(ctx context.Context, topic string) ([]SearchDocument, error) {
	if c.searchAPIKey == "" || c.searchBaseURL == "" {
		return nil, nil
	}
	docs, err := c.search(ctx, topic)
	if err != nil {
		if c.searchRequired {
			return nil, fmt.Errorf("search context: %w", err)
		}
		c.logf("search enrichment failed, continuing without context: %v", err)
		return nil, nil
	}
	return docs, nil
}
