// Package metadata fills in a bookmark's title and icon from the page itself.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/utils"
)

// DefaultIcon is the placeholder the dashboard ships with.
const DefaultIcon = "icons/icon.png"

const maxPageBytes = 2 << 20

// ErrBlockedAddress is returned when a page resolves to an address the
// resolver refuses to connect to.
var ErrBlockedAddress = errors.New("refusing to fetch from a non-public address")

// Page is what the resolver learned about a URL.
type Page struct {
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// Resolver fetches pages and reads their <title> and icon link.
//
// Only public unicast addresses are dialed, redirects included, so a
// bookmark cannot be used to read pages from the host's own network.
type Resolver struct {
	http    *http.Client
	timeout time.Duration
	logger  logger.Logger
	allow   func(netip.Addr) bool
}

// NewResolver creates a resolver on a copy of hc whose transport dials
// through the address guard. timeout bounds each page fetch.
func NewResolver(hc *http.Client, timeout time.Duration, log logger.Logger) *Resolver {
	if hc == nil {
		hc = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	r := &Resolver{timeout: timeout, logger: log, allow: IsPublicAddr}
	r.http = r.guardedClient(hc)
	return r
}

// IsPublicAddr reports whether addr is a global unicast address outside the
// private ranges. Loopback, link-local and unspecified addresses fail.
func IsPublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsGlobalUnicast() && !addr.IsPrivate()
}

func (r *Resolver) guardedClient(hc *http.Client) *http.Client {
	base, ok := hc.Transport.(*http.Transport)
	if !ok {
		base = http.DefaultTransport.(*http.Transport)
	}
	t := base.Clone()
	// A proxy would be the only address the guard ever sees.
	t.Proxy = nil
	dialer := &net.Dialer{Timeout: r.timeout, KeepAlive: 30 * time.Second, Control: r.checkDial}
	t.DialContext = dialer.DialContext

	c := *hc
	c.Transport = t
	return &c
}

// checkDial runs after name resolution, once per address tried.
func (r *Resolver) checkDial(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	if !r.allow(addr) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, addr)
	}
	return nil
}

// Resolve never fails: on any error it falls back to the hostname as title
// and DefaultIcon.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) Page {
	fallback := Page{Title: domain.Hostname(rawURL), Icon: DefaultIcon}

	page, err := r.fetch(ctx, rawURL)
	if err != nil {
		r.logger.Debug("page metadata unavailable",
			logger.String("url", rawURL),
			logger.Error(err))
		return fallback
	}
	if page.Title == "" {
		page.Title = fallback.Title
	}
	if page.Icon == "" {
		page.Icon = fallback.Icon
	}
	return page
}

// Fill resolves only what is missing from title and icon.
func (r *Resolver) Fill(ctx context.Context, rawURL, title, icon string) (string, string) {
	if title != "" && icon != "" {
		return title, icon
	}
	page := r.Resolve(ctx, rawURL)
	if title == "" {
		title = page.Title
	}
	if icon == "" {
		icon = page.Icon
	}
	return title, icon
}

func (r *Resolver) fetch(ctx context.Context, rawURL string) (Page, error) {
	base, err := url.Parse(rawURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return Page{}, fmt.Errorf("not a web page: %q", rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := r.http.Do(req)
	if err != nil {
		return Page{}, &domain.NetworkError{Op: "fetch page", Err: err}
	}
	defer utils.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return Page{}, &domain.NetworkError{Op: "fetch page", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return Page{}, fmt.Errorf("parse page: %w", err)
	}

	// The final URL after redirects is the base for relative icon links.
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}
	return Page{
		Title: condense(doc.Find("head title").First().Text()),
		Icon:  iconHref(doc, base),
	}, nil
}

func iconHref(doc *goquery.Document, base *url.URL) string {
	var href string
	doc.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel, _ := s.Attr("rel")
		for _, tok := range strings.Fields(strings.ToLower(rel)) {
			if tok == "icon" {
				href, _ = s.Attr("href")
				return false
			}
		}
		return true
	})

	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func condense(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
