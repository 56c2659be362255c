package problem

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// CatalogClient fetches problems from a remote problem catalog over HTTP.
// The catalog serves GET {base}/problems/{id} returning a JSON problem.
type CatalogClient struct {
	baseURL string
	client  *http.Client
}

// NewCatalogClient creates a catalog client for the given base URL.
func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type catalogProblem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	TestCases   []struct {
		Input          string `json:"input"`
		ExpectedOutput string `json:"expectedOutput"`
	} `json:"testCases"`
}

// Fetch retrieves a single problem by identifier.
func (c *CatalogClient) Fetch(ctx context.Context, id string) (*Problem, error) {
	u := fmt.Sprintf("%s/problems/%s", c.baseURL, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch problem %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("problem %s: not found in catalog", id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, id)
	}

	var cp catalogProblem
	if err := json.NewDecoder(resp.Body).Decode(&cp); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	p := &Problem{
		ID:         cp.ID,
		Title:      cp.Title,
		Difficulty: ParseDifficulty(cp.Difficulty),
		Statement:  cp.Description,
		Source:     "catalog",
	}
	if p.ID == "" {
		p.ID = id
	}
	for _, tc := range cp.TestCases {
		p.TestCases = append(p.TestCases, TestCase{Input: tc.Input, Expected: tc.ExpectedOutput})
	}
	return p, nil
}
