package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"scheme-sahayak/internal/contextutil"
)

// Page is the visible text and title of a rendered web page.
type Page struct {
	Content string `json:"content"`
	Title   string `json:"title"`
}

// Link is one search engine result.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// renderScript runs inside the remote browser: load the page, wait for
// the network to settle, return body text and title.
const renderScript = `
module.exports = async ({ page }) => {
    await page.goto(context.url, { waitUntil: 'networkidle0' });
    const content = await page.evaluate(() => document.body.innerText);
    const title = await page.title();
    return { content, title };
};
`

// searchScript scrapes the top organic results from a Bing results page.
const searchScript = `
module.exports = async ({ page }) => {
    await page.goto(context.url, { waitUntil: 'domcontentloaded' });
    const links = await page.evaluate(() => {
        return Array.from(document.querySelectorAll('li.b_algo h2 a')).slice(0, 5).map(a => ({
            title: a.innerText,
            url: a.href
        }));
    });
    return links;
};
`

// Client talks to a browserless.io-compatible rendering service. Pages
// on government portals are frequently script-rendered, so plain HTTP
// fetches return empty shells; the /function endpoint runs a headless
// browser server-side and returns extracted text.
type Client struct {
	BaseURL string
	Token   string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a new scraping client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  slog.Default(),
	}
}

// Configured reports whether a rendering-service token is present.
func (c *Client) Configured() bool {
	return c.Token != ""
}

type functionRequest struct {
	Code    string         `json:"code"`
	Context map[string]any `json:"context"`
}

// RenderPage fetches a page through the headless browser and returns
// its visible text and title.
func (c *Client) RenderPage(ctx context.Context, pageURL string) (*Page, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "rendering page", "url", pageURL)

	var result struct {
		Data Page `json:"data"`
	}
	if err := c.callFunction(ctx, renderScript, pageURL, &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// SearchLinks scrapes a Bing results page for the query, restricted to
// the gov.in site operator. The caller still applies the allow-list to
// each returned link.
func (c *Client) SearchLinks(ctx context.Context, query string) ([]Link, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "searching web", "query", query)

	searchURL := "https://www.bing.com/search?q=" + url.QueryEscape(query+" site:gov.in")

	var result struct {
		Data []Link `json:"data"`
	}
	if err := c.callFunction(ctx, searchScript, searchURL, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

func (c *Client) callFunction(ctx context.Context, code, targetURL string, out any) error {
	reqURL := fmt.Sprintf("%s/function?token=%s", c.BaseURL, url.QueryEscape(c.Token))

	body, err := json.Marshal(functionRequest{
		Code:    code,
		Context: map[string]any{"url": targetURL},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
