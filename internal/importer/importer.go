package importer

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"article-desk/internal/controller"
	"article-desk/internal/model"

	"github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

// MaxTextRunes caps the text taken from a scraped page.
const MaxTextRunes = 2000

// DefaultTimeout bounds the page download.
const DefaultTimeout = 30 * time.Second

// Scraper defines the interface for downloading web pages.
// This allows us to mock the "Download" step in tests.
type Scraper interface {
	Scrape(url string, timeout time.Duration) (*readability.Article, error)
}

// DefaultScraper is the real implementation that uses the internet
type DefaultScraper struct{}

func (s *DefaultScraper) Scrape(url string, timeout time.Duration) (*readability.Article, error) {
	art, err := readability.FromURL(url, timeout)
	return &art, err
}

// Poster is the controller operation the importer feeds.
type Poster interface {
	PostArticle(ctx context.Context, in model.ArticleInput) (controller.Outcome, error)
}

type Importer struct {
	poster  Poster
	logger  *zap.Logger
	scraper Scraper
	timeout time.Duration
}

func New(poster Poster, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		poster:  poster,
		logger:  logger,
		scraper: &DefaultScraper{},
		timeout: DefaultTimeout,
	}
}

// SetScraper replaces the page downloader.
func (im *Importer) SetScraper(s Scraper) {
	im.scraper = s
}

// Build downloads url and turns the readable part of the page into an
// article payload.
func (im *Importer) Build(url string, topic model.Topic) (model.ArticleInput, error) {
	logger := im.logger.With(zap.String("url", url))
	logger.Info("Downloading")

	page, err := im.scraper.Scrape(url, im.timeout)
	if err != nil {
		logger.Error("Scraping failed", zap.Error(err))
		return model.ArticleInput{}, fmt.Errorf("scrape %s: %w", url, err)
	}

	text := strings.TrimSpace(page.TextContent)
	if text == "" {
		text = strings.TrimSpace(page.Excerpt)
	}
	in := model.ArticleInput{
		Title: strings.TrimSpace(page.Title),
		Text:  truncate(collapseSpace(text), MaxTextRunes),
		Topic: topic,
	}
	return in.Normalize()
}

// Import scrapes url and posts the result through the controller.
func (im *Importer) Import(ctx context.Context, url string, topic model.Topic) (controller.Outcome, error) {
	in, err := im.Build(url, topic)
	if err != nil {
		return controller.OutcomeFailure, err
	}
	outcome, err := im.poster.PostArticle(ctx, in)
	if err == nil {
		im.logger.Info("Import complete", zap.String("url", url), zap.String("title", in.Title))
	}
	return outcome, err
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
