// Package bili wraps the platform's web API behind typed per-endpoint
// methods. Rate-limit detection lives here: the business code -352 and HTTP
// 412 both surface as ErrRateLimited so callers can classify with errors.Is.
package bili

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"bilisweep/internal/credential"
	"bilisweep/internal/log"
	"bilisweep/internal/model"
)

const (
	// DefaultBaseURL is the main web API host.
	DefaultBaseURL = "https://api.bilibili.com"
	// DefaultAudioBaseURL hosts the separate audio ("music service") API.
	DefaultAudioBaseURL = "https://www.bilibili.com"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Client is the authenticated platform API client.
type Client struct {
	http     *http.Client
	cred     credential.Credential
	baseURL  string
	audioURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the main API host (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithAudioBaseURL overrides the audio API host (used by tests).
func WithAudioBaseURL(u string) Option {
	return func(c *Client) { c.audioURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client. The session headers
// are still injected.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates an API client for the given credential.
func NewClient(cred credential.Credential, opts ...Option) *Client {
	c := &Client{
		cred:     cred,
		baseURL:  DefaultBaseURL,
		audioURL: DefaultAudioBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = newHTTPClient()
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &sessionTransport{base: base, cred: cred}
	return c
}

// newHTTPClient builds the HTTP base client: retries connection errors and
// 5xx responses, never business-level errors (those arrive as code fields
// inside HTTP 200 bodies and are handled by decode).
func newHTTPClient() *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 1 * time.Second
	rc.RetryWaitMax = 10 * time.Second
	rc.Logger = retryLogger{}
	client := rc.StandardClient()
	client.Timeout = 20 * time.Second
	return client
}

// retryLogger routes retryablehttp's internal logging into our logger.
// Retry noise is demoted: intermediate failures are warnings, not errors.
type retryLogger struct{}

func (retryLogger) Error(msg string, kv ...any) { log.Warn(msg, kv...) }
func (retryLogger) Warn(msg string, kv ...any)  { log.Warn(msg, kv...) }
func (retryLogger) Info(msg string, kv ...any)  { log.Debug(msg, kv...) }
func (retryLogger) Debug(msg string, kv ...any) { log.Trace(msg, kv...) }

// sessionTransport injects the session cookies and browser headers the API
// expects on every request.
type sessionTransport struct {
	base http.RoundTripper
	cred credential.Credential
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", fmt.Sprintf("https://space.bilibili.com/%d/", t.cred.UserID))
	if t.cred.SessData != "" {
		req.Header.Set("Cookie", t.cred.CookieHeader())
	}
	return t.base.RoundTrip(req)
}

// getJSON performs a GET, unwraps the response envelope, and decodes data
// into out. Rate-limit responses map to ErrRateLimited.
func (c *Client) getJSON(ctx context.Context, rawURL string, query url.Values, out any) error {
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// postForm performs a form POST with the CSRF token appended.
func (c *Client) postForm(ctx context.Context, rawURL string, form url.Values, out any) error {
	form.Set("csrf", c.cred.BiliJCT)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	log.Trace("api request", "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Risk control answers 412 before the JSON layer is even reached.
	if resp.StatusCode == http.StatusPreconditionFailed || resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: http %d: %w", req.URL.Path, resp.StatusCode, ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", req.URL.Path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", req.URL.Path, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%s: decode response: %w", req.URL.Path, err)
	}
	if env.Code == codeRateLimited {
		return fmt.Errorf("%s: code %d: %s: %w", req.URL.Path, env.Code, env.message(), ErrRateLimited)
	}
	if env.Code != 0 {
		return fmt.Errorf("%s: %w", req.URL.Path, &APIError{Code: env.Code, Message: env.message()})
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", req.URL.Path, err)
	}
	return nil
}

// FollowPage fetches one page of the authenticated account's follow list in
// provider order. An empty result signals the end of pagination.
func (c *Client) FollowPage(ctx context.Context, page, pageSize int) ([]model.Account, error) {
	var data followingsData
	q := url.Values{
		"vmid": {strconv.FormatInt(c.cred.UserID, 10)},
		"pn":   {strconv.Itoa(page)},
		"ps":   {strconv.Itoa(pageSize)},
	}
	if err := c.getJSON(ctx, c.baseURL+"/x/relation/followings", q, &data); err != nil {
		return nil, err
	}
	accounts := make([]model.Account, 0, len(data.List))
	for _, u := range data.List {
		accounts = append(accounts, model.Account{ID: u.Mid, Name: u.Uname})
	}
	return accounts, nil
}

// RecentFeedItems returns the publish timestamps of an account's most
// recent feed items in list order. A zero entry means the item's timestamp
// was missing or unparseable upstream.
func (c *Client) RecentFeedItems(ctx context.Context, mid int64) ([]int64, error) {
	var data feedData
	q := url.Values{"host_mid": {strconv.FormatInt(mid, 10)}}
	if err := c.getJSON(ctx, c.baseURL+"/x/polymer/web-dynamic/v1/feed/space", q, &data); err != nil {
		return nil, err
	}
	ts := make([]int64, 0, len(data.Items))
	for _, item := range data.Items {
		ts = append(ts, item.Modules.Author.PubTs)
	}
	return ts, nil
}

// LatestVideo returns the creation time (unix seconds) of the account's
// newest video, or 0 if the account has none.
func (c *Client) LatestVideo(ctx context.Context, mid int64) (int64, error) {
	var data videoData
	q := url.Values{
		"mid": {strconv.FormatInt(mid, 10)},
		"pn":  {"1"},
		"ps":  {"1"},
	}
	if err := c.getJSON(ctx, c.baseURL+"/x/space/arc/search", q, &data); err != nil {
		return 0, err
	}
	if len(data.List.Vlist) == 0 {
		return 0, nil
	}
	return data.List.Vlist[0].Created, nil
}

// LatestAudio returns the creation time of the account's newest audio
// submission in unix milliseconds (the audio service's native resolution),
// or 0 if the account has none.
func (c *Client) LatestAudio(ctx context.Context, mid int64) (int64, error) {
	var data audioData
	q := url.Values{
		"uid": {strconv.FormatInt(mid, 10)},
		"pn":  {"1"},
		"ps":  {"1"},
	}
	if err := c.getJSON(ctx, c.audioURL+"/audio/music-service/web/song/upper", q, &data); err != nil {
		return 0, err
	}
	if len(data.Data) == 0 {
		return 0, nil
	}
	return data.Data[0].Ctime, nil
}

// LatestArticle returns the publish time (unix seconds) of the account's
// newest article, or 0 if the account has none.
func (c *Client) LatestArticle(ctx context.Context, mid int64) (int64, error) {
	var data articleData
	q := url.Values{
		"mid":  {strconv.FormatInt(mid, 10)},
		"pn":   {"1"},
		"ps":   {"1"},
		"sort": {"publish_time"},
	}
	if err := c.getJSON(ctx, c.baseURL+"/x/space/article", q, &data); err != nil {
		return 0, err
	}
	if len(data.Articles) == 0 {
		return 0, nil
	}
	return data.Articles[0].PublishTime, nil
}

// MutualFollows returns the accounts that follow the authenticated account
// back. The platform caps this relation, so a single page suffices.
func (c *Client) MutualFollows(ctx context.Context) ([]model.Account, error) {
	var data friendsData
	if err := c.getJSON(ctx, c.baseURL+"/x/relation/friends", nil, &data); err != nil {
		return nil, err
	}
	accounts := make([]model.Account, 0, len(data.List))
	for _, u := range data.List {
		accounts = append(accounts, model.Account{ID: u.Mid, Name: u.Uname})
	}
	return accounts, nil
}

// SpecialGroupPage fetches one page of "special attention" account ids.
// The endpoint exposes no total: an empty page, or a page whose first id
// was already returned, signals the end.
func (c *Client) SpecialGroupPage(ctx context.Context, page int) ([]int64, error) {
	var ids []int64
	q := url.Values{
		"pn": {strconv.Itoa(page)},
		"ps": {"50"},
	}
	if err := c.getJSON(ctx, c.baseURL+"/x/relation/tag/special", q, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Unfollow removes the follow relation to the given account.
func (c *Client) Unfollow(ctx context.Context, mid int64) error {
	form := url.Values{
		"fid": {strconv.FormatInt(mid, 10)},
		"act": {"2"}, // 2 = unfollow
	}
	return c.postForm(ctx, c.baseURL+"/x/relation/modify", form, nil)
}

// Me validates the stored credentials and returns the authenticated
// account's profile.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.getJSON(ctx, c.baseURL+"/x/web-interface/nav", nil, &p); err != nil {
		return nil, err
	}
	if !p.IsLogin {
		return nil, fmt.Errorf("credentials rejected by platform (not logged in)")
	}
	return &p, nil
}
