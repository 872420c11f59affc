// Package cookies parses Netscape-format cookie exports (cookies.txt).
package cookies

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Cookie is one record from a cookies.txt export.
type Cookie struct {
	Domain            string
	IncludeSubdomains bool
	Path              string
	Secure            bool
	Expires           *time.Time
	Name              string
	Value             string
	HTTPOnly          bool
}

// Jar holds the parsed cookie records plus per-line parse warnings.
// Malformed lines are skipped, not fatal; dead cookies surface later as an
// authentication failure.
type Jar struct {
	Cookies  []Cookie
	Warnings []string
}

const httpOnlyPrefix = "#HttpOnly_"

// ParseFile reads and parses a cookies.txt export from disk.
func ParseFile(path string) (Jar, error) {
	f, err := os.Open(path)
	if err != nil {
		return Jar{}, fmt.Errorf("open cookie file %q: %w", path, err)
	}
	defer f.Close()

	jar := parse(f)
	if len(jar.Cookies) == 0 {
		jar.Warnings = append(jar.Warnings, fmt.Sprintf("%s: no cookies parsed", path))
	}
	return jar, nil
}

func parse(f *os.File) Jar {
	var jar Jar

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		// curl and browser extensions prefix HttpOnly cookies with a
		// pseudo-comment; everything else starting with # is a comment.
		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		cookie, err := parseLine(line)
		if err != nil {
			jar.Warnings = append(jar.Warnings, fmt.Sprintf("line %d: %v", lineNo, err))
			continue
		}
		cookie.HTTPOnly = httpOnly
		jar.Cookies = append(jar.Cookies, cookie)
	}
	if err := scanner.Err(); err != nil {
		jar.Warnings = append(jar.Warnings, fmt.Sprintf("read: %v", err))
	}

	return jar
}

// parseLine splits one tab-separated record:
// domain, includeSubdomains, path, secure, expiry epoch, name, value.
func parseLine(line string) (Cookie, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 7 {
		return Cookie{}, fmt.Errorf("expected 7 tab-separated fields, got %d", len(fields))
	}

	domain := strings.TrimSpace(fields[0])
	if domain == "" {
		return Cookie{}, fmt.Errorf("empty domain")
	}
	name := strings.TrimSpace(fields[5])
	if name == "" {
		return Cookie{}, fmt.Errorf("empty cookie name")
	}

	epoch, err := strconv.ParseInt(strings.TrimSpace(fields[4]), 10, 64)
	if err != nil {
		return Cookie{}, fmt.Errorf("bad expiry %q", fields[4])
	}
	var expires *time.Time
	if epoch > 0 {
		ts := time.Unix(epoch, 0)
		expires = &ts
	}

	path := strings.TrimSpace(fields[2])
	if path == "" {
		path = "/"
	}

	return Cookie{
		Domain:            domain,
		IncludeSubdomains: parseFlag(fields[1]),
		Path:              path,
		Secure:            parseFlag(fields[3]),
		Expires:           expires,
		Name:              name,
		Value:             fields[6],
	}, nil
}

func parseFlag(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "TRUE")
}

// HeaderFor renders a Cookie request header value from all unexpired cookies
// whose domain covers host.
func (j Jar) HeaderFor(host string, now time.Time) string {
	var b strings.Builder
	for _, c := range j.Cookies {
		if c.Expires != nil && c.Expires.Before(now) {
			continue
		}
		if !c.matchesHost(host) {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(c.Name)
		b.WriteByte('=')
		b.WriteString(c.Value)
	}
	return b.String()
}

// matchesHost reports whether the cookie's domain scope covers host. A
// host-only cookie (no leading dot, includeSubdomains FALSE) matches its
// exact host and nothing below it.
func (c Cookie) matchesHost(host string) bool {
	host = normalizeHost(host)
	domain := normalizeHost(c.Domain)
	if host == "" || domain == "" {
		return false
	}
	if host == domain {
		return true
	}
	if !c.IncludeSubdomains && !strings.HasPrefix(c.Domain, ".") {
		return false
	}
	return strings.HasSuffix(host, "."+domain)
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, ".")
	return strings.ToLower(host)
}
