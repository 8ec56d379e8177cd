package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/bank-statement-processor/internal/metrics"
	"github.com/insightdelivered/bank-statement-processor/internal/models"
	"github.com/insightdelivered/bank-statement-processor/internal/parser"
)

// SentinelDescription is the description of the placeholder transaction
// returned when a document cannot be processed.
const SentinelDescription = "Procesamiento no disponible"

// ErrNoSource is returned in the result error when Process is called on a
// pipeline without a page source.
var ErrNoSource = errors.New("no page source configured")

// now stamps the sentinel transaction.
var now = time.Now

// PageSource turns raw document bytes into pages.
type PageSource interface {
	Pages(data []byte) ([]models.Page, error)
}

// Pipeline runs the statement parsing core over a document. A Pipeline
// holds no per-document state and is safe for concurrent use.
type Pipeline struct {
	source    PageSource
	extractor parser.Extractor
	log       zerolog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default logger is disabled.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithMetrics records every processed document on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithExtractor replaces the default Banregio statement parser.
func WithExtractor(e parser.Extractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// New returns a pipeline reading pages from source.
func New(source PageSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:    source,
		extractor: parser.New(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process extracts pages from data and runs the parsing core over them.
// It never returns nil and never panics; failures produce a result with
// Success false and a single sentinel transaction.
func (p *Pipeline) Process(data []byte, filename string) (result *models.Result) {
	start := time.Now()
	log := p.log.With().Str("filename", filename).Logger()

	defer func() {
		if r := recover(); r != nil {
			result = Failed(fmt.Errorf("panic: %v", r))
		}
		result.Metadata.Filename = filename
		p.metrics.Observe(result, time.Since(start))

		if result.Success {
			log.Info().
				Int("transactions", result.Metadata.TotalTransactions).
				Str("method", string(result.Metadata.ProcessingMethod)).
				Dur("elapsed", time.Since(start)).
				Msg("document processed")
		} else {
			log.Warn().Str("error", result.Error).Msg("document processing failed")
		}
	}()

	if p.source == nil {
		return Failed(ErrNoSource)
	}
	pages, err := p.source.Pages(data)
	if err != nil {
		return Failed(fmt.Errorf("extract pages: %w", err))
	}
	return p.run(pages, log)
}

// ProcessPages runs the parsing core over already extracted pages.
func (p *Pipeline) ProcessPages(pages []models.Page) (result *models.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Failed(fmt.Errorf("panic: %v", r))
		}
	}()
	return p.run(pages, p.log)
}

func (p *Pipeline) run(pages []models.Page, log zerolog.Logger) *models.Result {
	period := parser.CurrentPeriod()
	if len(pages) > 0 {
		period = parser.ResolvePeriod(pages[0].Text)
	}
	log.Debug().Int("month", period.Month).Int("year", period.Year).Msg("statement period")

	var all []models.Transaction
	var fromTable, fromText bool
	for _, page := range pages {
		var found []models.Transaction
		for _, rows := range page.Tables {
			found = append(found, p.extractor.Extract(models.TableContent{Rows: rows}, period)...)
		}
		method := models.MethodTable
		if len(found) == 0 {
			found = p.extractor.Extract(models.TextContent{Lines: parser.SplitLines(page.Text)}, period)
			method = models.MethodText
		}

		if len(found) > 0 {
			if method == models.MethodTable {
				fromTable = true
			} else {
				fromText = true
			}
		}
		log.Debug().
			Int("page", page.Number).
			Int("tables", len(page.Tables)).
			Str("method", string(method)).
			Int("transactions", len(found)).
			Msg("page parsed")

		all = append(all, found...)
	}

	transactions := Dedupe(all)
	SortByDate(transactions)

	return &models.Result{
		Success:      true,
		Transactions: transactions,
		Metadata: models.Metadata{
			StatementPeriod:   period,
			TotalTransactions: len(transactions),
			ProcessingMethod:  methodOf(fromTable, fromText),
			Pages:             len(pages),
		},
	}
}

func methodOf(fromTable, fromText bool) models.ProcessingMethod {
	switch {
	case fromTable && fromText:
		return models.MethodMixed
	case fromTable:
		return models.MethodTable
	case fromText:
		return models.MethodText
	default:
		return models.MethodNone
	}
}

// Dedupe drops transactions whose key was already seen. The first
// occurrence wins and order is preserved.
func Dedupe(txns []models.Transaction) []models.Transaction {
	seen := make(map[string]struct{}, len(txns))
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		k := t.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}

// SortByDate orders transactions by date ascending, keeping the extraction
// order of same-day transactions.
func SortByDate(txns []models.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})
}

// Failed builds the result reported when a document cannot be processed.
func Failed(err error) *models.Result {
	return &models.Result{
		Success: false,
		Transactions: []models.Transaction{{
			Date:        now(),
			Description: SentinelDescription,
			Amount:      decimal.Zero,
			Type:        models.Debit,
			Category:    models.CategoryOther,
		}},
		Metadata: models.Metadata{
			StatementPeriod:   parser.CurrentPeriod(),
			TotalTransactions: 1,
			ProcessingMethod:  models.MethodFallback,
		},
		Error: err.Error(),
	}
}
