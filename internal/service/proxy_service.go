package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"wego/internal/core/cache"
	"wego/internal/domain"
)

// ProxyService fetches remote resources (favicons, preview images) on behalf
// of the browser. Bodies are cached so repeated dashboard loads do not hammer
// the upstream; the cache is optional.
type ProxyService struct {
	cache   *cache.Cache
	client  *http.Client
	ttl     time.Duration
	maxBody int64
}

func NewProxyService(c *cache.Cache, timeout, ttl time.Duration, maxBody int64) *ProxyService {
	if maxBody <= 0 {
		maxBody = 4 << 20
	}
	return &ProxyService{
		cache:   c,
		client:  &http.Client{Timeout: timeout},
		ttl:     ttl,
		maxBody: maxBody,
	}
}

func (s *ProxyService) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	if err := checkURL(rawURL); err != nil {
		return nil, "", err
	}

	var body []byte
	var err error
	if s.cache != nil {
		body, err = s.cache.GetOrLoad(ctx, "proxy:"+rawURL, s.ttl, func(ctx context.Context) ([]byte, error) {
			return s.fetch(ctx, rawURL)
		})
	} else {
		body, err = s.fetch(ctx, rawURL)
	}
	if err != nil {
		return nil, "", err
	}
	return body, http.DetectContentType(body), nil
}

func (s *ProxyService) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, domain.Wrap(domain.KindValidation, "app URL is invalid", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "upstream fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.E(domain.KindNotFound, fmt.Sprintf("upstream returned %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody+1))
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "upstream read failed", err)
	}
	if int64(len(body)) > s.maxBody {
		return nil, domain.E(domain.KindValidation, "upstream response too large")
	}
	return body, nil
}
