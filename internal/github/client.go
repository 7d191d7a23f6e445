// Package github talks to the code-hosting REST API: repository metadata,
// recent commits and base64 file contents.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"leadhunt-engine/internal/scrape/util"
	"leadhunt-engine/internal/scrapeerr"
)

const (
	DefaultBaseURL   = "https://api.github.com"
	DefaultUserAgent = "LeadHunt/1.0 (+local)"
	acceptHeader     = "application/vnd.github.v3+json"
)

type Config struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
	// Limiter paces API calls; nil means unpaced.
	Limiter *util.HostLimiter
	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

type Client struct {
	base  string
	token string
	ua    string
	hc    *http.Client
	lim   *util.HostLimiter
}

func NewClient(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		base:  base,
		token: strings.TrimSpace(cfg.Token),
		ua:    ua,
		hc:    hc,
		lim:   cfg.Limiter,
	}
}

func (c *Client) BaseURL() string { return c.base }

// HasToken reports whether requests are authenticated.
func (c *Client) HasToken() bool { return c.token != "" }

type Repo struct {
	FullName      string `json:"full_name"`
	Fork          bool   `json:"fork"`
	DefaultBranch string `json:"default_branch"`
	HTMLURL       string `json:"html_url"`
	Description   string `json:"description"`
}

type Identity struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

type Commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author    Identity `json:"author"`
		Committer Identity `json:"committer"`
		Message   string   `json:"message"`
	} `json:"commit"`
}

type contentResponse struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Repo fetches metadata for "owner/repo".
func (c *Client) Repo(ctx context.Context, path string) (Repo, error) {
	var r Repo
	if err := c.getJSON(ctx, c.base+"/repos/"+path, &r); err != nil {
		return Repo{}, err
	}
	if r.DefaultBranch == "" {
		r.DefaultBranch = "main"
	}
	return r, nil
}

// RecentCommits lists up to perPage commits on branch, newest first.
func (c *Client) RecentCommits(ctx context.Context, path, branch string, perPage int) ([]Commit, error) {
	q := url.Values{}
	q.Set("sha", branch)
	q.Set("per_page", fmt.Sprint(perPage))

	var out []Commit
	if err := c.getJSON(ctx, c.base+"/repos/"+path+"/commits?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ContentsURL builds the contents endpoint for a file in repo.
func (c *Client) ContentsURL(repo, file string) string {
	return fmt.Sprintf("%s/repos/%s/contents/%s", c.base, strings.Trim(repo, "/"), strings.TrimPrefix(file, "/"))
}

// Contents fetches a contents-API URL and returns the decoded file text.
func (c *Client) Contents(ctx context.Context, contentsURL string) (string, error) {
	var payload contentResponse
	if err := c.getJSON(ctx, contentsURL, &payload); err != nil {
		return "", err
	}
	return DecodeContent(payload.Content)
}

// DecodeContent strips whitespace from a base64 payload, decodes it and
// checks the result is UTF-8.
func DecodeContent(encoded string) (string, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, encoded)

	raw, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return "", scrapeerr.Parse("github: decode base64 content", err)
	}
	if !utf8.Valid(raw) {
		return "", scrapeerr.Newf(scrapeerr.KindParse, "github: decode content", "content is not valid UTF-8")
	}
	return string(raw), nil
}

func (c *Client) getJSON(ctx context.Context, target string, out any) error {
	if err := c.lim.WaitURL(ctx, target); err != nil {
		return scrapeerr.Network("github: rate limit wait", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return scrapeerr.Network("github: build request", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.ua)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return scrapeerr.Network("github: GET "+target, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
		return scrapeerr.Newf(scrapeerr.KindNetwork, "github: GET "+target, "status %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return scrapeerr.Parse("github: decode "+target, eris.Wrap(err, "json"))
	}
	return nil
}
