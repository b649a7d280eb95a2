// Package fetcher defines and implement the downloading and parsing utilities
// for remote resources
package fetcher

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/rehttp"
	"github.com/aybabtme/iocontrol"
	"github.com/dustin/go-humanize"
)

// Parser is an interface exposing a single method `Parse`, to be used on
// raw results of a fetch call. Alongside the extracted links it returns a
// keyword set drawn from the page's anchor and heading text.
type Parser interface {
	Parse(string, io.Reader) ([]*url.URL, []string, error)
}

// stdHttpFetcher is a simple Fetcher with std library http.Client as a
// backend for HTTP requests.
type stdHttpFetcher struct {
	userAgent string
	parser    Parser
	client    *http.Client
}

// New create a new Fetcher specifying a user agent, a parser and a timeout
// for each request. By default it retries when
// a temporary error occurs (most temporary errors are HTTP ones) for a
// specified number of times by applying an exponential backoff strategy.
func New(userAgent string, parser Parser, timeout time.Duration) *stdHttpFetcher {
	transport := rehttp.NewTransport(
		&http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
		rehttp.RetryAll(rehttp.RetryMaxRetries(3), rehttp.RetryTemporaryErr()),
		rehttp.ExpJitterDelay(1, 10*time.Second),
	)
	client := &http.Client{Timeout: timeout, Transport: transport}
	return &stdHttpFetcher{userAgent, parser, client}
}

// Parse an URL extracting the protion <scheme>://<host>:<port>
// Returns a string with the base domain of the URL
func parseStartURL(u string) string {
	parsed, _ := url.Parse(u)
	return fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
}

// Fetch is used to make a single HTTP GET request toward an URL.
// It returns the elapsed time and an `*http.Response`, or any error
// occured during the call.
func (f stdHttpFetcher) Fetch(url string) (time.Duration, *http.Response, error) {

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return time.Duration(0), nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	// We want to time the request
	start := time.Now()
	res, err := f.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, nil, err
	}

	return elapsed, res, nil
}

// FetchResult carries everything FetchLinks produces beyond the error: the
// page's outbound links, the stemmed keyword set and a human-readable
// rendering of the observed download throughput.
type FetchResult struct {
	Links      []*url.URL
	Keywords   []string
	Throughput string
}

// FetchLinks contacts and downloads raw data from a specified URL and
// parses the content into links and keywords.
// It returns a FetchResult, or any error occuring during the call or the
// parsing of the results.
func (f stdHttpFetcher) FetchLinks(targetURL string) (time.Duration, *FetchResult, error) {
	if f.parser == nil {
		return time.Duration(0), nil, fmt.Errorf("fetching links from %s failed: no parser set", targetURL)
	}
	// Extract base domain from the url
	baseDomain := parseStartURL(targetURL)

	elapsed, resp, err := f.Fetch(targetURL)
	if err != nil {
		return elapsed, nil, fmt.Errorf("fetching links from %s failed: %w", targetURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return elapsed, nil, fmt.Errorf("fetching links from %s failed: %s", targetURL, resp.Status)
	}

	// Wrap the body in a measured reader so we can log throughput; this
	// never changes what bytes reach the parser, only what we observe
	// passing through.
	meter := iocontrol.NewMeasuredReader(resp.Body)
	links, keywords, err := f.parser.Parse(baseDomain, meter)
	if err != nil {
		return elapsed, nil, fmt.Errorf("fetching links from %s failed: %w", targetURL, err)
	}
	return elapsed, &FetchResult{
		Links:      links,
		Keywords:   keywords,
		Throughput: humanize.Bytes(meter.BytesPerSec()) + "/s",
	}, nil
}
