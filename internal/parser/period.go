package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

// spanishMonths maps month numbers (index+1) to their Spanish names.
var spanishMonths = [12]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// periodPattern matches "de ENERO 2024", including the tail of
// "del 01 al 31 de ENERO 2024" and "de enero de 2024".
var periodPattern = regexp.MustCompile(
	`(?i)\bde\s+(` + strings.Join(spanishMonths[:], "|") + `)\s+(?:del?\s+)?(\d{4})\b`,
)

// ResolvePeriod extracts the statement month and year from page text.
// When no period phrase is present the current month is used.
func ResolvePeriod(text string) models.StatementPeriod {
	m := periodPattern.FindStringSubmatch(text)
	if m == nil {
		return periodOf(clock())
	}

	name := strings.ToLower(m[1])
	month := 0
	for i, candidate := range spanishMonths {
		if candidate == name {
			month = i + 1
			break
		}
	}
	year, err := strconv.Atoi(m[2])
	if month == 0 || err != nil {
		return periodOf(clock())
	}

	return models.StatementPeriod{Month: month, Year: year, MonthName: name}
}

func periodOf(t time.Time) models.StatementPeriod {
	return models.StatementPeriod{
		Month:     int(t.Month()),
		Year:      t.Year(),
		MonthName: spanishMonths[t.Month()-1],
	}
}

// CurrentPeriod returns the period of the current month.
func CurrentPeriod() models.StatementPeriod {
	return periodOf(clock())
}
