package mailer

import (
	"net/url"
	"strings"
	"testing"
)

func TestBuildLink(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		token   string
		want    string
	}{
		{
			name:    "plain path",
			baseURL: "https://example.com/accounts/confirm",
			token:   "abc.def.ghi",
			want:    "https://example.com/accounts/confirm?token=abc.def.ghi",
		},
		{
			name:    "existing query preserved",
			baseURL: "https://example.com/confirm?next=%2Fdashboard",
			token:   "tok",
			want:    "https://example.com/confirm?next=%2Fdashboard&token=tok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildLink(tt.baseURL, tt.token)
			if err != nil {
				t.Fatalf("BuildLink failed: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildLinkEmptyBase(t *testing.T) {
	if _, err := BuildLink("  ", "tok"); err == nil {
		t.Fatal("empty base url accepted")
	}
}

func TestBuildLinkTokenRoundTrips(t *testing.T) {
	link, err := BuildLink("https://example.com/login/confirm", "eyJhbGciOi.payload.sig")
	if err != nil {
		t.Fatalf("BuildLink failed: %v", err)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("built link does not parse: %v", err)
	}
	if got := u.Query().Get("token"); got != "eyJhbGciOi.payload.sig" {
		t.Fatalf("token mangled in link: %q", got)
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	msg := buildMessage("Site <no-reply@example.com>", "user@example.com", "Your login link", "Click here to log in:\n\nhttps://example.com")

	for _, want := range []string{
		"From: Site <no-reply@example.com>\r\n",
		"To: user@example.com\r\n",
		"Subject: Your login link\r\n",
		"Content-Type: text/plain; charset=utf-8\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
	if !strings.HasSuffix(msg, "\r\nClick here to log in:\n\nhttps://example.com") {
		t.Fatalf("body not separated from headers:\n%s", msg)
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"no-reply@example.com", "no-reply@example.com"},
		{"Site <no-reply@example.com>", "no-reply@example.com"},
		{"  spaced@example.com  ", "spaced@example.com"},
	}
	for _, tt := range tests {
		if got := parseAddress(tt.in); got != tt.want {
			t.Fatalf("parseAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
