package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

var (
	// ErrNoPages is returned for documents without any page.
	ErrNoPages = errors.New("PDF has no pages")
	// ErrUnreadable is returned when no method produced readable text. The
	// PDF may be image-based/scanned or use font encodings that cannot be
	// decoded.
	ErrUnreadable = errors.New("no readable text could be extracted from PDF")
)

// Extractor reads page text and table grids out of PDF bytes.
type Extractor struct {
	pdftotext bool
	log       zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPdftotext enables the poppler pdftotext fallback.
func WithPdftotext(enabled bool) Option {
	return func(e *Extractor) { e.pdftotext = enabled }
}

// WithLogger sets the logger. The default logger is disabled.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Extractor) { e.log = log }
}

// New returns an Extractor using the PDF library only.
func New(opts ...Option) *Extractor {
	e := &Extractor{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pages returns the text and table grids of every page in data.
// If the PDF library fails or returns garbage, pdftotext is tried when
// enabled. Garbage text is never returned.
func (e *Extractor) Pages(data []byte) ([]models.Page, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrUnreadable)
	}

	pages, libErr := e.extractWithLibrary(data)
	if libErr == nil && isReadableText(pageTexts(pages)) {
		return pages, nil
	}
	if errors.Is(libErr, ErrNoPages) {
		return nil, libErr
	}
	if libErr != nil {
		e.log.Debug().Err(libErr).Msg("pdf library extraction failed")
	}

	if e.pdftotext {
		texts, err := extractWithPdftotext(data)
		if err == nil && isReadableText(texts) {
			e.log.Debug().Int("pages", len(texts)).Msg("using pdftotext output")
			return textPages(texts), nil
		}
		if err != nil {
			e.log.Debug().Err(err).Msg("pdftotext extraction failed")
		}
	}

	if libErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, libErr)
	}
	return nil, ErrUnreadable
}

// extractWithLibrary uses the ledongthuc/pdf library with multiple methods.
// Table grids always come from positioned content; page text comes from
// the first method that yields readable text.
func (e *Extractor) extractWithLibrary(data []byte) (pages []models.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, ErrNoPages
	}

	var rowTexts, contentTexts []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		words := mergeGlyphs(page.Content().Text)
		p := models.Page{Number: i}
		if grid := BuildGrid(words); grid != nil {
			p.Tables = [][][]string{grid}
		}
		pages = append(pages, p)

		rowTexts = append(rowTexts, textByRow(page))
		contentTexts = append(contentTexts, strings.Join(rowLines(groupRows(words)), "\n"))
	}
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	// Method 1: GetTextByRow (best layout preservation)
	texts, method := rowTexts, "row"
	if !isReadableText(texts) {
		// Method 2: coordinate-based row reconstruction from Page.Content()
		texts, method = contentTexts, "content"
	}
	if !isReadableText(texts) {
		// Method 3: Page.GetPlainText with the page font map
		texts, method = plainTexts(r, pages), "plain"
	}
	if !isReadableText(texts) {
		// Method 4: Reader.GetPlainText, one text for the whole document
		if whole := readerPlainText(r); isReadableText([]string{whole}) {
			texts, method = make([]string, len(pages)), "reader"
			texts[0] = whole
		}
	}

	for i := range pages {
		pages[i].Text = texts[i]
	}
	e.log.Debug().Int("pages", len(pages)).Str("method", method).Msg("pdf text extracted")
	return pages, nil
}

// textByRow joins the text runs of each row, top to bottom.
func textByRow(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}
	// PDF Y goes bottom-to-top
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Position > rows[b].Position
	})

	var lines []string
	for _, row := range rows {
		content := row.Content
		sort.SliceStable(content, func(a, b int) bool {
			return content[a].X < content[b].X
		})
		var parts []string
		for _, word := range content {
			parts = append(parts, word.S)
		}
		if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func plainTexts(r *pdf.Reader, pages []models.Page) []string {
	texts := make([]string, len(pages))
	for i, p := range pages {
		page := r.Page(p.Number)
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		texts[i] = strings.TrimSpace(text)
	}
	return texts
}

func readerPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func pageTexts(pages []models.Page) []string {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return texts
}

func textPages(texts []string) []models.Page {
	pages := make([]models.Page, len(texts))
	for i, t := range texts {
		pages[i] = models.Page{Number: i + 1, Text: t}
	}
	return pages
}

// readableRunes are the non-ASCII characters expected in Spanish statements.
const readableRunes = "áéíóúüñÁÉÍÓÚÜÑ$€£%&@#!?¿¡+=*"

// textQuality returns the ratio of readable characters (ASCII letters,
// digits, whitespace, common punctuation and Spanish accented letters) to
// total characters. unicode.IsLetter is too broad: it matches the accented
// garbage produced by identity-encoded fonts.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"", r) ||
				strings.ContainsRune(readableRunes, r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords appear in virtually every bank statement. If the extracted
// text contains none of them, it's likely garbage.
var commonWords = []string{
	"saldo", "cuenta", "cargos", "abonos", "concepto", "fecha", "periodo",
	"banco", "deposito", "depósito", "retiro", "movimientos", "total",
	"bank", "account", "balance", "date", "payment", "statement",
	"amount", "credit", "debit", "transaction", "transfer", "page", "period",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires more than 50 characters, more than 60% readable
// characters and at least one common statement word.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

// IsReadableText is the exported version for use by other packages.
func IsReadableText(pages []string) bool {
	return isReadableText(pages)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
