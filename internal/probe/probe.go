// Package probe classifies service URLs as reachable or unreachable.
//
// A probe completes a single HTTP round trip within a time budget. Any
// response, whatever its status code, counts as reachable: the question is
// whether the host answered, not whether the service is healthy. Every
// failure (DNS, refused connection, TLS, timeout) folds into unreachable.
package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hazz-dev/svcdeck/internal/version"
)

// DefaultTimeout is the probe budget used when the caller passes zero.
const DefaultTimeout = 4 * time.Second

// Prober issues reachability probes. It is safe for concurrent use.
type Prober struct {
	client    *http.Client
	userAgent string
}

type options struct {
	client    *http.Client
	insecure  bool
	userAgent string
}

// Option configures a Prober.
type Option func(*options)

// WithClient uses c for all probes instead of the built-in client.
func WithClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithInsecureTLS skips certificate verification, for devices that serve
// self-signed certificates. Ignored when WithClient is also given.
func WithInsecureTLS(skip bool) Option {
	return func(o *options) { o.insecure = skip }
}

// WithUserAgent sets the User-Agent header on probe requests.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// New creates a Prober.
func New(opts ...Option) *Prober {
	o := options{userAgent: "svcdeck/" + version.Version}
	for _, fn := range opts {
		fn(&o)
	}

	client := o.client
	if client == nil {
		client = newClient(o.insecure)
	}
	return &Prober{client: client, userAgent: o.userAgent}
}

func newClient(insecure bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = true
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: insecure, //nolint:gosec // opt-in for self-signed homelab devices
	}
	return &http.Client{
		Transport: transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			// A redirect is already a completed round trip.
			return http.ErrUseLastResponse
		},
	}
}

var defaultProber = New()

// Probe classifies rawURL with the package default Prober.
func Probe(ctx context.Context, rawURL string, timeout time.Duration) Status {
	return defaultProber.Probe(ctx, rawURL, timeout)
}

// Probe classifies rawURL as reachable or unreachable within timeout.
func (p *Prober) Probe(ctx context.Context, rawURL string, timeout time.Duration) Status {
	return p.Check(ctx, rawURL, timeout).Status
}

// Check probes rawURL and returns the full result. It never returns a
// status other than StatusReachable or StatusUnreachable.
func (p *Prober) Check(ctx context.Context, rawURL string, timeout time.Duration) Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	start := time.Now()
	result := Result{
		URL:       rawURL,
		Status:    StatusUnreachable,
		CheckedAt: start,
	}

	u, err := parseTarget(rawURL)
	if err != nil {
		result.Err = err.Error()
		result.Latency = time.Since(start)
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.do(ctx, http.MethodHead, u)
	if err != nil && canFallback(ctx, err) {
		resp, err = p.do(ctx, http.MethodGet, u)
	}
	result.Latency = time.Since(start)
	if err != nil {
		result.Err = describe(ctx, err, timeout)
		return result
	}
	resp.Body.Close()

	result.Status = StatusReachable
	result.StatusCode = resp.StatusCode
	return result
}

func (p *Prober) do(ctx context.Context, method string, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	return p.client.Do(req)
}

func parseTarget(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("url %q is not absolute", rawURL)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u, nil
}

// canFallback reports whether a failed HEAD should be retried as GET. Only
// failures after the connection was established qualify, such as a server
// that drops HEAD requests.
func canFallback(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && (opErr.Op == "dial" || opErr.Op == "remote error") {
		// "remote error" is a TLS alert sent by the peer.
		return false
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return false
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return false
	}
	var alertErr tls.AlertError
	if errors.As(err, &alertErr) {
		return false
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return false
	}
	var authErr x509.UnknownAuthorityError
	if errors.As(err, &authErr) {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return false
	}
	return true
}

func describe(ctx context.Context, err error, timeout time.Duration) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Sprintf("timeout after %s", timeout)
	}
	return err.Error()
}
