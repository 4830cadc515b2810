package service

import (
	"fmt"
	"net/url"
	"strings"
)

// CookieCodec serializes session tokens into Set-Cookie header values. It is
// built once at startup from process configuration; the cookie domain is the
// parent domain of the application base URL so subdomains share the session.
type CookieCodec struct {
	name   string
	domain string
	secure bool
	maxAge int // seconds; the session validity window
}

// NewCookieCodec derives the cookie domain from baseURL and returns a codec.
// app.example.com becomes .example.com; a single-label host (localhost) is
// used as-is with a leading dot.
func NewCookieCodec(name, baseURL string, secure bool) (*CookieCodec, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("cookie: parse base url: %w", err)
	}
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("cookie: base url %q has no hostname", baseURL)
	}
	labels := strings.Split(host, ".")
	if len(labels) > 2 {
		labels = labels[len(labels)-2:]
	}
	return &CookieCodec{
		name:   name,
		domain: "." + strings.Join(labels, "."),
		secure: secure,
		maxAge: int(SessionValidity.Seconds()),
	}, nil
}

// Name returns the configured cookie name, for reading the cookie back off
// incoming requests.
func (c *CookieCodec) Name() string { return c.name }

// Serialize returns the Set-Cookie value carrying the raw session token.
func (c *CookieCodec) Serialize(token string) string {
	return c.build(token, c.maxAge)
}

// Blank returns the Set-Cookie value that clears the session cookie.
func (c *CookieCodec) Blank() string {
	return c.build("", 0)
}

func (c *CookieCodec) build(value string, maxAge int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s; HttpOnly; SameSite=Strict; Max-Age=%d; Path=/", c.name, value, maxAge)
	if c.secure {
		b.WriteString("; Secure")
	}
	fmt.Fprintf(&b, "; Domain=%s", c.domain)
	return b.String()
}
