package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"reddit-lead-finder/internal/domain"
	"reddit-lead-finder/internal/infra/metrics"
)

const (
	defaultAuthURL = "https://www.reddit.com/api/v1/access_token"
	defaultAPIURL  = "https://oauth.reddit.com"
	permalinkBase  = "https://reddit.com"
	tokenSkew      = 30 * time.Second
)

// ErrNoCredentials возвращается, если не заданы client id или secret.
var ErrNoCredentials = errors.New("reddit: client credentials are empty")

// Options описывает параметры клиента Reddit.
type Options struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	AuthURL      string
	APIURL       string
	RPS          float64
	Limit        int
	Timeout      time.Duration
}

// Client ищет посты через OAuth API Reddit (read-only, client credentials).
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter

	mu      sync.Mutex
	token   string
	expires time.Time
	now     func() time.Time
}

// NewClient создаёт клиента Reddit.
func NewClient(opts Options) *Client {
	if opts.AuthURL == "" {
		opts.AuthURL = defaultAuthURL
	}
	if opts.APIURL == "" {
		opts.APIURL = defaultAPIURL
	}
	opts.APIURL = strings.TrimRight(opts.APIURL, "/")
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

// Token возвращает действующий access token, запрашивая новый при истечении.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Before(c.expires) {
		return c.token, nil
	}
	if c.opts.ClientID == "" || c.opts.ClientSecret == "" {
		return "", ErrNoCredentials
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("reddit: build token request: %w", err)
	}
	req.SetBasicAuth(c.opts.ClientID, c.opts.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	start := time.Now()
	body, err := c.do(req)
	metrics.ObserveNetworkRequest("reddit", "access_token", "oauth", start, err)
	if err != nil {
		return "", err
	}
	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("reddit: decode token: %w", err)
	}
	if tok.AccessToken == "" {
		if tok.Error != "" {
			return "", fmt.Errorf("reddit: token error: %s", tok.Error)
		}
		return "", fmt.Errorf("reddit: empty access token")
	}
	c.token = tok.AccessToken
	c.expires = c.now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenSkew)
	return c.token, nil
}

type listing struct {
	Data struct {
		Children []struct {
			Data postData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type postData struct {
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Subreddit  string  `json:"subreddit"`
	Author     string  `json:"author"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
	Score      int     `json:"score"`
}

// SearchPosts ищет посты в сабреддите по запросу за указанное окно.
func (c *Client) SearchPosts(ctx context.Context, subreddit, query string, window domain.TimeWindow) ([]domain.CandidatePost, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("reddit: rate limit wait: %w", err)
	}
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"q":           {query},
		"restrict_sr": {"1"},
		"sort":        {"relevance"},
		"t":           {string(window)},
		"limit":       {fmt.Sprintf("%d", c.opts.Limit)},
		"raw_json":    {"1"},
	}
	endpoint := fmt.Sprintf("%s/r/%s/search?%s", c.opts.APIURL, url.PathEscape(subreddit), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("reddit: build search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.opts.UserAgent)

	start := time.Now()
	body, err := c.do(req)
	metrics.ObserveNetworkRequest("reddit", "search", subreddit, start, err)
	if err != nil {
		return nil, err
	}
	var l listing
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, fmt.Errorf("reddit: decode listing: %w", err)
	}

	posts := make([]domain.CandidatePost, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		posts = append(posts, toCandidate(child.Data, subreddit))
	}
	return posts, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit: do request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reddit: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("reddit: unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

func toCandidate(p postData, fallbackSub string) domain.CandidatePost {
	sub := p.Subreddit
	if sub == "" {
		sub = fallbackSub
	}
	author := p.Author
	if author == domain.DeletedAuthor {
		author = ""
	}
	link := ""
	if p.Permalink != "" {
		link = permalinkBase + p.Permalink
	}
	sec, frac := math.Modf(p.CreatedUTC)
	return domain.CandidatePost{
		URL:       link,
		Title:     p.Title,
		Body:      p.Selftext,
		Subreddit: sub,
		Author:    author,
		CreatedAt: time.Unix(int64(sec), int64(frac*1e9)).UTC(),
		Upvotes:   p.Score,
	}
}
