package cookies

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeCookieFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write cookie file: %v", err)
	}
	return path
}

func TestParseFile(t *testing.T) {
	contents := "# Netscape HTTP Cookie File\n" +
		".amazon.com\tTRUE\t/\tTRUE\t2147483647\tsession-id\tabc-123\n" +
		"#HttpOnly_.amazon.com\tTRUE\t/\tTRUE\t2147483647\tat-main\ttoken\n" +
		"gaming.amazon.com\tFALSE\t/home\tFALSE\t0\tcsrf\txyz\n"

	jar, err := ParseFile(writeCookieFile(t, contents))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jar.Cookies) != 3 {
		t.Fatalf("expected 3 cookies, got %d", len(jar.Cookies))
	}
	if len(jar.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", jar.Warnings)
	}

	first := jar.Cookies[0]
	if first.Domain != ".amazon.com" || first.Name != "session-id" || first.Value != "abc-123" {
		t.Fatalf("unexpected first cookie: %+v", first)
	}
	if !first.Secure || !first.IncludeSubdomains {
		t.Fatalf("expected secure subdomain cookie, got %+v", first)
	}
	if first.Expires == nil {
		t.Fatalf("expected expiry to be set")
	}

	if !jar.Cookies[1].HTTPOnly {
		t.Fatalf("expected #HttpOnly_ prefix to mark cookie http-only")
	}

	session := jar.Cookies[2]
	if session.Expires != nil {
		t.Fatalf("expected session cookie (expiry 0) to have nil expiry")
	}
	if session.Path != "/home" {
		t.Fatalf("unexpected path: %q", session.Path)
	}
}

func TestParseFileSkipsMalformedLines(t *testing.T) {
	contents := ".amazon.com\tTRUE\t/\tTRUE\t2147483647\tgood\tvalue\n" +
		"not a cookie line\n" +
		".amazon.com\tTRUE\t/\tTRUE\tnot-a-number\tbad-expiry\tvalue\n" +
		"\tTRUE\t/\tTRUE\t0\tno-domain\tvalue\n"

	jar, err := ParseFile(writeCookieFile(t, contents))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jar.Cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(jar.Cookies))
	}
	if len(jar.Warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", jar.Warnings)
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestHeaderFor(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	jar := Jar{Cookies: []Cookie{
		{Domain: ".amazon.com", Name: "session-id", Value: "abc", Expires: &future},
		{Domain: "gaming.amazon.com", Name: "csrf", Value: "xyz"},
		{Domain: ".amazon.com", Name: "stale", Value: "old", Expires: &past},
		{Domain: "example.org", Name: "other", Value: "nope"},
		{Domain: "amazon.com", Name: "host-only", Value: "nope"},
	}}

	got := jar.HeaderFor("gaming.amazon.com", time.Now())
	want := "session-id=abc; csrf=xyz"
	if got != want {
		t.Fatalf("unexpected header: got %q want %q", got, want)
	}
}

func TestCookieMatchesHost(t *testing.T) {
	cases := []struct {
		host   string
		cookie Cookie
		want   bool
	}{
		{"gaming.amazon.com", Cookie{Domain: ".amazon.com"}, true},
		{"gaming.amazon.com", Cookie{Domain: "amazon.com", IncludeSubdomains: true}, true},
		{"gaming.amazon.com", Cookie{Domain: "gaming.amazon.com"}, true},
		// Host-only cookie: exact host only, never subdomains.
		{"gaming.amazon.com", Cookie{Domain: "amazon.com"}, false},
		{"amazon.com", Cookie{Domain: "gaming.amazon.com"}, false},
		{"notamazon.com", Cookie{Domain: "amazon.com", IncludeSubdomains: true}, false},
	}
	for _, tc := range cases {
		if got := tc.cookie.matchesHost(tc.host); got != tc.want {
			t.Fatalf("Cookie{Domain: %q, IncludeSubdomains: %v}.matchesHost(%q) = %v, want %v",
				tc.cookie.Domain, tc.cookie.IncludeSubdomains, tc.host, got, tc.want)
		}
	}
}
