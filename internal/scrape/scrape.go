// Package scrape enriches candidate records from their public profile
// pages. Profile sites block most automated access, so every extraction
// path is best-effort and degrades to whatever the URL itself reveals.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/hrkit/talentscout/internal/skills"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; talentscout/1.0)"
)

var (
	profileURLRe = regexp.MustCompile(`(?i)^https?://(?:www\.)?linkedin\.com/in/[A-Za-z0-9_-]+/?$`)
	usernameRe   = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	trailingNums = regexp.MustCompile(`-\d+$`)
	alphaWordRe  = regexp.MustCompile(`^[A-Za-z]+$`)
)

// Profile is what a single extraction yields. Zero-value fields mean the
// page did not reveal them.
type Profile struct {
	URL      string
	FullName string
	Headline string
	Skills   []string
	Method   string
}

// IsValidProfileURL reports whether the URL points at a profile page in
// canonical form.
func IsValidProfileURL(u string) bool {
	return profileURLRe.MatchString(strings.TrimSpace(u))
}

// NormalizeProfileURL rewrites a profile URL to canonical https://www form,
// stripping query parameters and trailing path segments. Non-profile URLs
// come back unchanged.
func NormalizeProfileURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if !strings.Contains(strings.ToLower(parsed.Host), "linkedin.com") {
		return raw
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "in" {
		username := usernameRe.ReplaceAllString(parts[1], "")
		return "https://www.linkedin.com/in/" + username
	}
	return raw
}

// Scraper fetches profile pages and falls back to URL-pattern extraction
// when the page is unreachable or empty.
type Scraper struct {
	client    *http.Client
	userAgent string
	extractor *skills.TermSet
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Scraper {
	return &Scraper{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		extractor: skills.Extractor(),
		logger:    logger,
	}
}

// Extract tries the live page first, then the URL pattern. It returns an
// error only for URLs that are not profile URLs at all; a blocked or empty
// page still yields whatever the URL encodes.
func (s *Scraper) Extract(ctx context.Context, profileURL string) (*Profile, error) {
	normalized := NormalizeProfileURL(profileURL)
	if !IsValidProfileURL(normalized) {
		return nil, fmt.Errorf("not a profile URL: %s", profileURL)
	}

	p := &Profile{URL: normalized}

	if err := s.fetchPage(ctx, p); err != nil {
		if s.logger != nil {
			s.logger.Debug("profile page fetch failed, falling back to URL pattern",
				zap.String("url", normalized),
				zap.Error(err),
			)
		}
	}

	if p.FullName == "" {
		if name := NameFromURL(normalized); name != "" {
			p.FullName = name
			p.Method = "url_pattern"
		}
	}
	return p, nil
}

func (s *Scraper) fetchPage(ctx context.Context, p *Profile) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("parse profile page: %w", err)
	}

	s.extractFromDocument(doc, p)
	return nil
}

// extractFromDocument pulls name, headline and skill mentions out of the
// page. Profile titles have the form "Name | LinkedIn".
func (s *Scraper) extractFromDocument(doc *goquery.Document, p *Profile) {
	if title := doc.Find("title").First().Text(); title != "" {
		if name, _, _ := strings.Cut(title, "|"); strings.TrimSpace(name) != "" {
			p.FullName = strings.TrimSpace(name)
			p.Method = "page"
		}
	}

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		prop, _ := sel.Attr("property")
		content, _ := sel.Attr("content")
		if content == "" {
			return
		}
		switch {
		case strings.Contains(prop, "og:title") && p.FullName == "":
			name, _, _ := strings.Cut(content, "|")
			p.FullName = strings.TrimSpace(name)
			p.Method = "page"
		case strings.Contains(prop, "og:description") && p.Headline == "":
			if len(content) > 200 {
				content = content[:200]
			}
			p.Headline = content
		}
	})

	if text := doc.Find("body").Text(); text != "" {
		p.Skills = s.extractor.MatchedIn(text)
	}
}

// NameFromURL derives a display name from the profile slug: trailing digits
// dropped, separators turned into spaces, each part capitalized, at most
// three parts. Slugs that do not look like a person's name yield "".
func NameFromURL(profileURL string) string {
	parts := strings.Split(strings.Trim(profileURL, "/"), "/")
	username := ""
	for i, part := range parts {
		if part == "in" && i+1 < len(parts) {
			username = parts[i+1]
			break
		}
	}
	if username == "" {
		return ""
	}

	username = trailingNums.ReplaceAllString(username, "")
	username = strings.ReplaceAll(username, "-", " ")
	username = strings.ReplaceAll(username, "_", " ")

	var nameParts []string
	for _, part := range strings.Fields(username) {
		if !alphaWordRe.MatchString(part) {
			continue
		}
		nameParts = append(nameParts, strings.ToUpper(part[:1])+strings.ToLower(part[1:]))
		if len(nameParts) == 3 {
			break
		}
	}
	if len(nameParts) < 2 {
		return ""
	}
	return strings.Join(nameParts, " ")
}
