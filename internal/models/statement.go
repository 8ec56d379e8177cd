package models

// StatementPeriod is the reporting month of a statement. It is resolved
// once per document and passed read-only to every extractor.
type StatementPeriod struct {
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	MonthName string `json:"month_name"`
}

// Page is what the PDF extractor yields for one page: its flat text and
// any table grids found on it.
type Page struct {
	Number int
	Text   string
	Tables [][][]string
}

// PageContent is one unit of extractable page content. It is either a
// TableContent or a TextContent.
type PageContent interface {
	pageContent()
}

// TableContent is a table grid: ordered rows of cell strings.
type TableContent struct {
	Rows [][]string
}

// TextContent is a page's raw text split into lines.
type TextContent struct {
	Lines []string
}

func (TableContent) pageContent() {}
func (TextContent) pageContent()  {}

// ProcessingMethod records which extraction path produced a result.
type ProcessingMethod string

const (
	MethodTable    ProcessingMethod = "table"
	MethodText     ProcessingMethod = "text"
	MethodMixed    ProcessingMethod = "mixed"
	MethodNone     ProcessingMethod = "none"
	MethodFallback ProcessingMethod = "fallback"
)

// Metadata describes a processed document.
type Metadata struct {
	StatementPeriod   StatementPeriod  `json:"statement_period"`
	TotalTransactions int              `json:"total_transactions"`
	ProcessingMethod  ProcessingMethod `json:"processing_method"`
	Filename          string           `json:"filename,omitempty"`
	Pages             int              `json:"pages"`
}

// Result is the pipeline output, serialized unchanged as the HTTP body.
type Result struct {
	Success      bool          `json:"success"`
	Transactions []Transaction `json:"transactions"`
	Metadata     Metadata      `json:"metadata"`
	Error        string        `json:"error,omitempty"`
}
