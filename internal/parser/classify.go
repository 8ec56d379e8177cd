package parser

import (
	"errors"

	"github.com/cloudflare/ahocorasick"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

// DirectionRule assigns a direction to descriptions containing Pattern.
// An empty Pattern is a terminal rule: it always matches.
type DirectionRule struct {
	Pattern string
	Type    models.TransactionType
}

// CategoryRule assigns a category to descriptions containing Pattern.
// An empty Pattern is a terminal rule. CreditCategory, when set,
// replaces Category for credit movements.
type CategoryRule struct {
	Pattern        string
	Category       models.Category
	CreditCategory models.Category
}

// DirectionRules is evaluated top to bottom; the first match wins.
var DirectionRules = []DirectionRule{
	// money coming in
	{Pattern: "transferencia a", Type: models.Credit},
	{Pattern: "transferencia recibida", Type: models.Credit},
	{Pattern: "spei recibido", Type: models.Credit},
	{Pattern: "deposito", Type: models.Credit},
	{Pattern: "abono", Type: models.Credit},
	{Pattern: "ingreso", Type: models.Credit},
	{Pattern: "recibida", Type: models.Credit},
	// money going out
	{Pattern: "transferencia de", Type: models.Debit},
	{Pattern: "spei enviado", Type: models.Debit},
	{Pattern: "enviada", Type: models.Debit},
	{Pattern: "pago", Type: models.Debit},
	{Pattern: "retiro", Type: models.Debit},
	{Pattern: "cargo", Type: models.Debit},
	{Pattern: "comision", Type: models.Debit},
	// unclassified movements are outflows
	{Pattern: "", Type: models.Debit},
}

// TextCategoryRules label movements parsed from page text.
var TextCategoryRules = []CategoryRule{
	{Pattern: "transferencia", Category: models.CategoryTransfers},
	{Pattern: "spei", Category: models.CategoryTransfers},
	{Pattern: "pago", Category: models.CategoryPayments},
	{Pattern: "deposito", Category: models.CategoryDeposits},
	{Pattern: "retiro", Category: models.CategoryWithdrawals},
	{Pattern: "comision", Category: models.CategoryBanking},
	{Pattern: "administracion", Category: models.CategoryBanking},
	{Pattern: "", Category: models.CategoryOther},
}

// TableCategoryRules label movements read from charge/credit tables.
var TableCategoryRules = []CategoryRule{
	{Pattern: "transferencia", Category: models.CategoryTransfers},
	{Pattern: "spei", Category: models.CategoryTransfers},
	{Pattern: "pago", Category: models.CategoryPayments},
	{Pattern: "deposito", Category: models.CategoryDeposits},
	{Pattern: "retiro", Category: models.CategoryWithdrawals},
	{Pattern: "comision", Category: models.CategoryFees},
	{Pattern: "administracion", Category: models.CategoryFees},
	{Pattern: "", Category: models.CategoryExpenses, CreditCategory: models.CategoryIncome},
}

var errNoTerminalRule = errors.New("rule list must end with a terminal rule")

var (
	TextClassifier  = mustClassifier(DirectionRules, TextCategoryRules)
	TableClassifier = mustClassifier(DirectionRules, TableCategoryRules)
)

// Classifier resolves direction and category for a description. Both
// resolutions are independent, so a transfer carrying a commission-like
// concept is still a transfer. Safe for concurrent use.
type Classifier struct {
	directions       []DirectionRule
	categories       []CategoryRule
	directionMatcher *ruleMatcher
	categoryMatcher  *ruleMatcher
}

// NewClassifier compiles both rule lists. Each list must contain a
// terminal rule so that every description resolves.
func NewClassifier(directions []DirectionRule, categories []CategoryRule) (*Classifier, error) {
	dirPatterns := make([]string, len(directions))
	for i, r := range directions {
		dirPatterns[i] = r.Pattern
	}
	catPatterns := make([]string, len(categories))
	for i, r := range categories {
		catPatterns[i] = r.Pattern
	}

	dm := newRuleMatcher(dirPatterns)
	cm := newRuleMatcher(catPatterns)
	if dm.terminal < 0 || cm.terminal < 0 {
		return nil, errNoTerminalRule
	}

	return &Classifier{
		directions:       directions,
		categories:       categories,
		directionMatcher: dm,
		categoryMatcher:  cm,
	}, nil
}

func mustClassifier(directions []DirectionRule, categories []CategoryRule) *Classifier {
	c, err := NewClassifier(directions, categories)
	if err != nil {
		panic(err)
	}
	return c
}

// Direction reports whether the description is money in or out.
func (c *Classifier) Direction(description string) models.TransactionType {
	return c.directions[c.directionMatcher.match(description)].Type
}

// Category labels the description. The direction only matters for rules
// with a CreditCategory.
func (c *Classifier) Category(description string, direction models.TransactionType) models.Category {
	rule := c.categories[c.categoryMatcher.match(description)]
	if direction == models.Credit && rule.CreditCategory != "" {
		return rule.CreditCategory
	}
	return rule.Category
}

// Classify resolves both direction and category.
func (c *Classifier) Classify(description string) (models.TransactionType, models.Category) {
	direction := c.Direction(description)
	return direction, c.Category(description, direction)
}

// ruleMatcher finds the highest-priority rule whose pattern occurs in a
// text with one Aho-Corasick pass. Rule priority is list order.
type ruleMatcher struct {
	matcher  *ahocorasick.Matcher
	rules    []int // dictionary index -> first rule index using that pattern
	terminal int   // first rule with an empty pattern, -1 if none
}

func newRuleMatcher(patterns []string) *ruleMatcher {
	m := &ruleMatcher{terminal: -1}
	seen := make(map[string]bool)
	var dictionary []string
	for i, p := range patterns {
		if p == "" {
			if m.terminal < 0 {
				m.terminal = i
			}
			continue
		}
		p = fold(p)
		if seen[p] {
			continue
		}
		seen[p] = true
		dictionary = append(dictionary, p)
		m.rules = append(m.rules, i)
	}
	if len(dictionary) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(dictionary)
	}
	return m
}

func (m *ruleMatcher) match(text string) int {
	best := m.terminal
	if m.matcher == nil {
		return best
	}
	for _, hit := range m.matcher.MatchThreadSafe([]byte(fold(text))) {
		if idx := m.rules[hit]; best < 0 || idx < best {
			best = idx
		}
	}
	return best
}
