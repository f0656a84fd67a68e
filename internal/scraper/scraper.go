// Package scraper reads the Mercado Pago account statement with a real
// browser session.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArturZahn/OBBot/internal/models"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	homeURL      = "https://www.mercadopago.com.br/home"
	movementsURL = "https://www.mercadopago.com.br/banking/balance/movements"

	daySelector = ".binnacle-list .binnacle-rows-wrapper"
	pageTimeout = 30 * time.Second
)

var (
	// ErrLayoutChanged means the statement page no longer has the expected structure.
	ErrLayoutChanged = errors.New("no transactions found; page structure may have changed")
	ErrLoginRequired = errors.New("login required; run the browser once with the profile and sign in")
	ErrRateLimited   = errors.New("too many requests")
)

const extractDays = `Array.from(document.querySelectorAll('.binnacle-list .binnacle-rows-wrapper')).map(day => {
	const text = (root, sel) => { const el = root.querySelector(sel); return el ? el.textContent : ''; };
	return {
		title: text(day, '.binnacle-rows-wrapper__header .binnacle-rows-wrapper__title'),
		rows: Array.from(day.querySelectorAll('.binnacle-row')).map(row => ({
			primary: text(row, '.andes-list__item-first-column .andes-list__item-primary .binnacle-row__title'),
			secondary: text(row, '.andes-list__item-first-column .andes-list__item-secondary'),
			amount: text(row, '.andes-list__item-second-column .andes-money-amount'),
			time: text(row, '.andes-list__item-second-column .binnacle-row__time'),
		})),
	};
})`

const pageState = `(() => {
	const body = document.body ? document.body.innerText : '';
	if (body.includes('"local_rate_limited"')) return 'rate_limited';
	if (body.includes('Iniciar sessão')) return 'login';
	return 'ok';
})()`

type Config struct {
	ProfileDir string
	Headless   bool
}

type Scraper struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func New(cfg Config, logger *zap.Logger) *Scraper {
	return &Scraper{cfg: cfg, logger: logger, now: time.Now}
}

// Scrape reads up to maxPages statement pages. When minDate is set, rows from
// earlier days are dropped and paging stops at the first page with none left.
func (s *Scraper) Scrape(ctx context.Context, maxPages int, minDate *time.Time) ([]models.Candidate, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if s.cfg.ProfileDir != "" {
		opts = append(opts, chromedp.UserDataDir(s.cfg.ProfileDir))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(s.logger.Sugar().Debugf))
	defer cancelBrowser()

	if err := s.open(browserCtx, homeURL); err != nil {
		return nil, err
	}

	var candidates []models.Candidate
	for page := 1; page <= maxPages; page++ {
		url := movementsURL
		if page > 1 {
			url = fmt.Sprintf("%s?page=%d", movementsURL, page)
		}

		pageRows, err := s.readPage(browserCtx, url)
		if err != nil {
			return nil, err
		}
		if len(pageRows) == 0 {
			break
		}

		if minDate != nil {
			pageRows = sinceDay(pageRows, *minDate)
		}
		s.logger.Debug("statement page read", zap.Int("page", page), zap.Int("rows", len(pageRows)))

		candidates = append(candidates, pageRows...)
		if minDate != nil && len(pageRows) == 0 {
			break
		}
	}

	sortCandidates(candidates)
	return candidates, nil
}

func (s *Scraper) open(ctx context.Context, url string) error {
	var state string
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(pageState, &state),
	)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}

	switch state {
	case "rate_limited":
		return ErrRateLimited
	case "login":
		return ErrLoginRequired
	}
	return nil
}

func (s *Scraper) readPage(ctx context.Context, url string) ([]models.Candidate, error) {
	if err := s.open(ctx, url); err != nil {
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()
	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(daySelector, chromedp.ByQuery)); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrLayoutChanged
	}

	var days []rawDay
	if err := chromedp.Run(ctx, chromedp.Evaluate(extractDays, &days)); err != nil {
		return nil, fmt.Errorf("failed to read statement: %w", err)
	}
	if len(days) == 0 {
		return nil, ErrLayoutChanged
	}

	return buildCandidates(days, s.now())
}
