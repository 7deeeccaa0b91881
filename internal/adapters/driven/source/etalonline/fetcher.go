// Package etalonline scrapes legal texts from the etalonline.by portal.
package etalonline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/alexuwunya/pravo-bot/internal/core/domain"
	"github.com/alexuwunya/pravo-bot/internal/core/ports/driven"
	"github.com/alexuwunya/pravo-bot/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.DocumentFetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultUserAgent = "Mozilla/5.0"
	DefaultTimeout   = 20 * time.Second

	// DefaultRate is one request every two seconds; the portal is a public site.
	DefaultRate = 0.5

	// maxPageBytes bounds the HTML read from one response.
	maxPageBytes = 16 << 20
)

// Signature markers around the official text.
const (
	constitutionStart = "Мы, народ Республики Беларусь"
	signatureMarker   = "Президент Республики Беларусь"
	signatureName     = "А.Лукашенко"

	// signatureTail is how many characters from the signature marker are kept.
	signatureTail = 100
)

var childRightsStarts = []string{
	"ЗАКОН РЕСПУБЛИКИ БЕЛАРУСЬ",
	"О правах ребенка",
	"Настоящий Закон основывается",
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// Config holds configuration for the fetcher.
type Config struct {
	// UserAgent is sent with every request (default: Mozilla/5.0).
	UserAgent string

	// Timeout bounds one request (default: 20s).
	Timeout time.Duration

	// RequestsPerSecond throttles requests to the portal (default: 0.5).
	RequestsPerSecond float64

	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// Fetcher downloads and extracts document text.
type Fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// NewFetcher creates a fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRate
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Fetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// Fetch downloads doc.SourceURL and returns the cleaned plain text.
func (f *Fetcher) Fetch(ctx context.Context, doc domain.LegalDocument) (*domain.DocumentText, error) {
	if doc.SourceURL == "" {
		return nil, fmt.Errorf("%w: %s has no source URL", domain.ErrSourceUnavailable, doc.ID)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	logger.Debug("fetching %s from %s", doc.ID, doc.SourceURL)
	page, err := f.get(ctx, doc.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, doc.ID, err)
	}

	text, err := Extract(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, doc.ID, err)
	}
	text = Clean(doc.ID, text)

	if !hasSanityMarker(text, doc.Rules.SanityMarkers) {
		return nil, fmt.Errorf("%w: %s: page does not look like the document (markers %v)",
			domain.ErrSourceUnavailable, doc.ID, doc.Rules.SanityMarkers)
	}

	logger.Debug("fetched %s: %d characters", doc.ID, len([]rune(text)))
	return &domain.DocumentText{
		DocumentID: doc.ID,
		Text:       text,
		SourceURL:  doc.SourceURL,
		UpdatedAt:  time.Now(),
	}, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (io.Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return strings.NewReader(strings.ToValidUTF8(string(body), "")), nil
}

// Extract returns the text of the document container, one text node per
// line. The whole page is used when no container is found.
func Extract(page io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	container := doc.Find("div.text").First()
	if container.Length() == 0 {
		container = doc.Find("div.Section1").First()
	}
	if container.Length() == 0 {
		container = doc.Selection
	}
	container.Find("script, style, meta, link").Remove()

	var lines []string
	collectText(container, &lines)
	return strings.Join(lines, "\n"), nil
}

func collectText(s *goquery.Selection, lines *[]string) {
	s.Contents().Each(func(_ int, node *goquery.Selection) {
		switch goquery.NodeName(node) {
		case "#text":
			if text := strings.TrimSpace(node.Text()); text != "" {
				*lines = append(*lines, text)
			}
		case "#comment", "script", "style":
		default:
			collectText(node, lines)
		}
	})
}

// Clean trims portal chrome around the official text of a known document
// and collapses runs of blank lines.
func Clean(documentID, text string) string {
	switch documentID {
	case domain.DocumentConstitution:
		text = trimToSignature(text, []string{constitutionStart})
	case domain.DocumentChildRights:
		text = trimToSignature(text, childRightsStarts)
	}
	return blankLines.ReplaceAllString(text, "\n\n")
}

// trimToSignature keeps the text from the first start marker found through
// the signature. Text is returned unchanged when either end is missing.
func trimToSignature(text string, starts []string) string {
	start := -1
	for _, marker := range starts {
		if i := strings.Index(text, marker); i != -1 {
			start = i
			break
		}
	}
	end := strings.LastIndex(text, signatureMarker)
	if start == -1 || end == -1 || end < start {
		return text
	}

	text = text[start:end] + firstRunes(text[end:], signatureTail)
	if i := strings.Index(text, signatureName); i != -1 {
		text = text[:i+len(signatureName)]
	}
	return text
}

func firstRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func hasSanityMarker(text string, markers []string) bool {
	if len(markers) == 0 {
		return strings.TrimSpace(text) != ""
	}
	lower := strings.ToLower(text)
	for _, m := range markers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
