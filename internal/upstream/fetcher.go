// Package upstream fetches the two quirk feeds this tool synchronizes:
// the shared-credential realm groups and the per-domain password rules.
// Both are unauthenticated GETs of raw JSON; any transport or decode
// failure is fatal for the whole run.
package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/webcreds/credsync/pkg/constants"
	"github.com/webcreds/credsync/pkg/errors"
)

// Fetcher retrieves and decodes the upstream feeds.
type Fetcher struct {
	http      *http.Client
	realmsURL string
	rulesURL  string
}

// New creates a Fetcher for the default upstream endpoints.
func New() *Fetcher {
	return &Fetcher{
		http:      &http.Client{Timeout: constants.DefaultHTTPTimeout},
		realmsURL: constants.RealmsFeedURL,
		rulesURL:  constants.RulesFeedURL,
	}
}

// NewWithURLs creates a Fetcher for custom endpoints, keeping the given
// http.Client when non-nil.
func NewWithURLs(realmsURL, rulesURL string, httpClient *http.Client) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.DefaultHTTPTimeout}
	}
	return &Fetcher{
		http:      httpClient,
		realmsURL: realmsURL,
		rulesURL:  rulesURL,
	}
}

// RealmGroups fetches the realms feed: an ordered array of arrays of
// domain names sharing one credential backend.
func (f *Fetcher) RealmGroups(ctx context.Context) ([][]string, error) {
	var groups [][]string
	if err := f.fetch(ctx, f.realmsURL, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ruleEntry is the wire shape of one value in the rules feed.
type ruleEntry struct {
	Rules string `json:"password-rules"`
}

// PasswordRules fetches the rules feed and flattens it into a
// domain → rules-string mapping.
func (f *Fetcher) PasswordRules(ctx context.Context) (map[string]string, error) {
	var entries map[string]ruleEntry
	if err := f.fetch(ctx, f.rulesURL, &entries); err != nil {
		return nil, err
	}

	rules := make(map[string]string, len(entries))
	for domain, entry := range entries {
		rules[domain] = entry.Rules
	}
	return rules, nil
}

// fetch performs an unauthenticated GET and decodes the JSON payload
// into out.
func (f *Fetcher) fetch(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.WrapFetch(url, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return errors.WrapFetch(url, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &errors.FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapFetch(url, 0, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &errors.FetchError{
			URL:     url,
			Message: "response is not valid JSON",
			Err:     errors.WrapParse("json", url, err),
		}
	}
	return nil
}
