package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	tls2 "github.com/refraction-networking/utls"

	"github.com/pagelens/pagelens/extract"
	"github.com/pagelens/pagelens/models"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxBodyBytes caps how much markup the static pass will read.
const maxBodyBytes = 10 * 1024 * 1024

// staticResult carries the outcome of the static markup pass.
type staticResult struct {
	meta        models.MetaData
	sections    []models.Section
	errors      []models.ErrorItem
	needsRender bool
}

// staticPass fetches the page markup over plain HTTP, strips noise, and runs
// metadata and section extraction. A fetch or parse failure short-circuits
// the pass with empty results and forces render escalation instead of
// aborting the request.
func (s *Scraper) staticPass(ctx context.Context, pageURL string) staticResult {
	res := staticResult{
		sections: []models.Section{},
		errors:   []models.ErrorItem{},
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.scrapeCfg.FetchTimeout)
	defer cancel()

	body, err := s.fetcher.fetch(fetchCtx, pageURL, "")
	if err != nil {
		res.errors = append(res.errors, models.NewErrorItem(models.PhaseFetch, fetchErrorMessage(err)))
		res.needsRender = true
		return res
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		res.errors = append(res.errors, models.NewErrorItem(models.PhaseParse, err.Error()))
		res.needsRender = true
		return res
	}

	extract.RemoveNoise(doc)

	res.meta = extract.Metadata(doc, pageURL)
	res.sections = extract.Sections(doc, pageURL)
	res.needsRender = extract.NeedsRender(extract.StaticOutcome{
		BodyTextLen: extract.VisibleTextLength(doc),
		Sections:    res.sections,
	})

	return res
}

// statusError is a fetch failure caused by a non-success HTTP status.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.code)
}

// fetchErrorMessage classifies a fetch failure into the stable messages
// recorded in the error log.
func fetchErrorMessage(err error) string {
	var se *statusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timeout"
	case errors.As(err, &se):
		return se.Error()
	default:
		return err.Error()
	}
}

// httpFetcher performs HTTP requests with a Chrome TLS fingerprint (utls).
type httpFetcher struct {
	defaultProxy string
}

func newHTTPFetcher(defaultProxy string) *httpFetcher {
	return &httpFetcher{defaultProxy: defaultProxy}
}

// fetch retrieves the URL with browser-like request headers, following
// redirects. proxyOverride, if non-empty, overrides the default proxy.
func (f *httpFetcher) fetch(ctx context.Context, targetURL, proxyOverride string) ([]byte, error) {
	proxy := proxyOverride
	if proxy == "" {
		proxy = f.defaultProxy
	}

	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialTLSChrome(ctx, network, addr, proxy)
		},
	}
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	client := &http.Client{Transport: transport}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("httpfetch: build request: %w", err)
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpfetch: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("httpfetch: read body: %w", err)
	}

	return body, nil
}

// dialTLSChrome establishes a TLS connection using a Chrome fingerprint via utls.
func dialTLSChrome(ctx context.Context, network, addr, proxy string) (net.Conn, error) {
	var rawConn net.Conn
	var err error

	dialer := &net.Dialer{}

	if proxy != "" {
		proxyURL, parseErr := url.Parse(proxy)
		if parseErr == nil && (proxyURL.Scheme == "socks5" || proxyURL.Scheme == "socks5h") {
			socksConn, socksErr := dialer.DialContext(ctx, "tcp", proxyURL.Host)
			if socksErr != nil {
				return nil, fmt.Errorf("socks5 dial: %w", socksErr)
			}
			rawConn = socksConn
		}
	}

	if rawConn == nil {
		rawConn, err = dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls2.UClient(rawConn, &tls2.Config{
		ServerName: host,
	}, tls2.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}
