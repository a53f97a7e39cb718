package scraper

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"pricewatch/internal/providers"
	"pricewatch/internal/structures"
)

// apiPathMarker identifies the XHR the product page issues for its price
// history; its response body is the payload we are after.
const apiPathMarker = "/api/product/"

// BrowserScraper drives a headless browser to the product page and captures
// the price-history JSON from the page's own API call. Slower than the
// direct client but survives upstreams that block plain HTTP clients.
type BrowserScraper struct {
	conf   *structures.Config
	logger providers.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

func NewBrowserScraper(conf *structures.Config, logger providers.Logger) *BrowserScraper {
	return &BrowserScraper{conf: conf, logger: logger}
}

// ensureBrowser lazily launches the shared browser instance.
func (s *BrowserScraper) ensureBrowser() (*rod.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser != nil {
		return s.browser, nil
	}

	u, err := launcher.New().Headless(s.conf.Scraper.Headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	s.browser = browser
	s.logger.Infof(providers.TypeApp, "Browser launched (headless=%t)", s.conf.Scraper.Headless)
	return browser, nil
}

func (s *BrowserScraper) FetchRawPriceData(ctx context.Context, productURL string) ([]byte, error) {
	browser, err := s.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		return nil, fmt.Errorf("install stealth script: %w", err)
	}
	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		return nil, fmt.Errorf("enable network events: %w", err)
	}

	type capture struct {
		body []byte
		err  error
	}
	captured := make(chan capture, 1)

	go page.EachEvent(func(e *proto.NetworkResponseReceived) (stop bool) {
		if e.Response.Status != 200 || !strings.Contains(e.Response.URL, apiPathMarker) {
			return false
		}
		res, err := proto.NetworkGetResponseBody{RequestID: e.RequestID}.Call(page)
		if err != nil {
			captured <- capture{err: fmt.Errorf("read response body: %w", err)}
			return true
		}
		body := []byte(res.Body)
		if res.Base64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(res.Body)
			if err != nil {
				captured <- capture{err: fmt.Errorf("decode response body: %w", err)}
				return true
			}
			body = decoded
		}
		captured <- capture{body: body}
		return true
	})()

	if err := page.Navigate(productURL); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", productURL, err)
	}

	select {
	case c := <-captured:
		if c.err != nil {
			return nil, c.err
		}
		return c.body, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for price API response on %s: %w", productURL, ctx.Err())
	}
}

// Close shuts down the shared browser, if one was launched.
func (s *BrowserScraper) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser != nil {
		_ = s.browser.Close()
		s.browser = nil
	}
}
