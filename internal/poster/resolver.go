// Package poster resolves a film title and year to a displayable poster
// image URL through a cached search on a movie metadata API.
package poster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/iliyamo/movielog/internal/config"
)

var errNoPoster = errors.New("no result with a poster")

// Resolver looks up posters and caches successful results. Failures are
// never cached and never surfaced; callers always get a usable URL.
type Resolver struct {
	cfg    config.PosterConfig
	auth   Auth
	cache  *Cache
	client *http.Client
	group  singleflight.Group
	log    logrus.FieldLogger
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithClock replaces the cache clock.
func WithClock(c Clock) Option {
	return func(r *Resolver) { r.cache = NewCache(r.cfg.TTL, c) }
}

// WithHTTPClient replaces the HTTP client used for upstream calls.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) { r.client = c }
}

// NewResolver builds a Resolver. The auth scheme is chosen once here from
// the configured credential.
func NewResolver(cfg config.PosterConfig, log logrus.FieldLogger, opts ...Option) *Resolver {
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &Resolver{
		cfg:    cfg,
		auth:   SelectAuth(cfg.APIKey),
		cache:  NewCache(cfg.TTL, nil),
		client: &http.Client{},
		log:    log.WithField("component", "poster"),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Fallback returns the placeholder URL.
func (r *Resolver) Fallback() string { return r.cfg.FallbackURL }

// CacheLen reports how many URLs are cached.
func (r *Resolver) CacheLen() int { return r.cache.Len() }

// Resolve returns the poster URL for title and year, or the fallback URL
// when the title is blank or the lookup fails.
func (r *Resolver) Resolve(ctx context.Context, title, year string) string {
	if strings.TrimSpace(title) == "" {
		return r.cfg.FallbackURL
	}
	key := Key(title, year)
	if u, ok := r.cache.Get(key); ok {
		return u
	}

	// Concurrent misses for one key share a single upstream call.
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		if u, ok := r.cache.Get(key); ok {
			return u, nil
		}
		u, err := r.fetch(ctx, strings.TrimSpace(title), strings.TrimSpace(year))
		if err != nil {
			return "", err
		}
		r.cache.Set(key, u)
		return u, nil
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{"title": title, "year": year}).WithError(err).Warn("poster lookup failed")
		return r.cfg.FallbackURL
	}
	return v.(string)
}

type searchResponse struct {
	Results []struct {
		PosterPath string `json:"poster_path"`
	} `json:"results"`
}

func (r *Resolver) fetch(ctx context.Context, title, year string) (string, error) {
	if r.auth == nil {
		return "", errors.New("poster api credential not configured")
	}

	// The call outlives a cancelled request so the result can still be cached.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("query", title)
	if year != "" {
		q.Set("year", year)
	}
	endpoint := strings.TrimRight(r.cfg.BaseURL, "/") + "/search/movie?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	r.auth.apply(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding search response: %w", err)
	}
	for _, res := range body.Results {
		if res.PosterPath != "" {
			return strings.TrimRight(r.cfg.ImageBaseURL, "/") + "/" + strings.TrimLeft(res.PosterPath, "/"), nil
		}
	}
	return "", errNoPoster
}
