package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestIsValidProfileURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://www.linkedin.com/in/johndoe", true},
		{"https://linkedin.com/in/john-doe-123", true},
		{"http://www.linkedin.com/in/john_doe/", true},
		{"HTTPS://WWW.LINKEDIN.COM/in/JohnDoe", true},
		{"https://www.linkedin.com/company/acme", false},
		{"https://example.com/in/johndoe", false},
		{"linkedin.com/in/johndoe", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidProfileURL(tc.url); got != tc.want {
			t.Errorf("IsValidProfileURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestNormalizeProfileURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"linkedin.com/in/johndoe", "https://www.linkedin.com/in/johndoe"},
		{"http://linkedin.com/in/johndoe/", "https://www.linkedin.com/in/johndoe"},
		{"https://www.linkedin.com/in/johndoe?utm=x", "https://www.linkedin.com/in/johndoe"},
		{"https://www.linkedin.com/in/john-doe-42/details", "https://www.linkedin.com/in/john-doe-42"},
		{"https://example.com/in/johndoe", "https://example.com/in/johndoe"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeProfileURL(tc.in); got != tc.want {
			t.Errorf("NormalizeProfileURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNameFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.linkedin.com/in/john-doe", "John Doe"},
		{"https://www.linkedin.com/in/john-doe-123", "John Doe"},
		{"https://www.linkedin.com/in/jane_mary_smith_jones", "Jane Mary Smith"},
		{"https://www.linkedin.com/in/x1y2z3", ""},
		{"https://www.linkedin.com/in/single", ""},
		{"https://www.linkedin.com/company/acme", ""},
	}
	for _, tc := range cases {
		if got := NameFromURL(tc.url); got != tc.want {
			t.Errorf("NameFromURL(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestExtractRejectsNonProfileURL(t *testing.T) {
	s := New(nil)
	if _, err := s.Extract(context.Background(), "https://example.com/page"); err == nil {
		t.Fatal("expected error for non-profile URL")
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestExtractFallsBackToURLPattern(t *testing.T) {
	s := New(nil)
	s.client.Transport = failingTransport{}

	p, err := s.Extract(context.Background(), "https://www.linkedin.com/in/sam-carter")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if p.FullName != "Sam Carter" {
		t.Errorf("name = %q, want %q", p.FullName, "Sam Carter")
	}
	if p.Method != "url_pattern" {
		t.Errorf("method = %q, want url_pattern", p.Method)
	}
}

func TestExtractFromDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<title>Sam Carter | LinkedIn</title>
			<meta property="og:description" content="Senior Python Developer at Initech">
			</head>
			<body>Experienced with Python, Django and AWS infrastructure.</body></html>`)
	}))
	defer srv.Close()

	s := New(nil)
	p := &Profile{URL: srv.URL}
	if err := s.fetchPage(context.Background(), p); err != nil {
		t.Fatalf("fetchPage failed: %v", err)
	}

	if p.FullName != "Sam Carter" {
		t.Errorf("name = %q", p.FullName)
	}
	if p.Headline != "Senior Python Developer at Initech" {
		t.Errorf("headline = %q", p.Headline)
	}
	if want := []string{"python", "django", "aws"}; !reflect.DeepEqual(p.Skills, want) {
		t.Errorf("skills = %v, want %v", p.Skills, want)
	}
	if p.Method != "page" {
		t.Errorf("method = %q, want page", p.Method)
	}
}
