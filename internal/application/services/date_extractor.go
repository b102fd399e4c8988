package services

import (
	"regexp"
	"strconv"
	"time"

	"github.com/villamare/concierge-nlu/internal/domain/providers"
)

// DateMatch is a resolved date with its span in the matched text.
type DateMatch struct {
	Date  time.Time
	Start int
	End   int
}

// DateExtractor resolves absolute, relative, weekday, and holiday date
// expressions in pt and en. Patterns are independent and evaluated in a fixed
// order; overlapping matches each produce their own result. Malformed dates
// (day 32, unknown month names) are dropped without error.
type DateExtractor struct {
	clock providers.Clock
}

// NewDateExtractor creates a date extractor anchored to the given clock.
func NewDateExtractor(clock providers.Clock) *DateExtractor {
	return &DateExtractor{clock: clock}
}

type dateResolver func(today time.Time, groups []string) (time.Time, bool)

type datePattern struct {
	re      *regexp.Regexp
	resolve dateResolver
}

// Keyword patterns ending in an accented letter omit the trailing \b: Go's
// RE2 word boundary is ASCII-only and would never match after "amanhã".
var datePatterns = []datePattern{
	// Relative literals
	{regexp.MustCompile(`\b(?:hoje|today)\b`), relativeDays(0)},
	{regexp.MustCompile(`\b(?:amanhã|tomorrow\b)`), relativeDays(1)},
	{regexp.MustCompile(`\b(?:depois de amanhã|day after tomorrow\b)`), relativeDays(2)},

	// Weekdays (pt + en)
	{regexp.MustCompile(`\b(?:segunda|segunda-feira|monday)\b`), weekday(time.Monday)},
	{regexp.MustCompile(`\b(?:terça|terça-feira|tuesday)\b`), weekday(time.Tuesday)},
	{regexp.MustCompile(`\b(?:quarta|quarta-feira|wednesday)\b`), weekday(time.Wednesday)},
	{regexp.MustCompile(`\b(?:quinta|quinta-feira|thursday)\b`), weekday(time.Thursday)},
	{regexp.MustCompile(`\b(?:sexta|sexta-feira|friday)\b`), weekday(time.Friday)},
	{regexp.MustCompile(`\b(?:sábado|saturday)\b`), weekday(time.Saturday)},
	{regexp.MustCompile(`\b(?:domingo|sunday)\b`), weekday(time.Sunday)},

	// Relative periods
	{regexp.MustCompile(`\b(?:este|essa|this)\s+(?:fim de semana|weekend)\b`), thisWeekend},
	{regexp.MustCompile(`\b(?:próximo|next)\s+(?:fim de semana|weekend)\b`), nextWeekend},
	{regexp.MustCompile(`\b(?:próxima|next)\s+semana\b`), nextWeek},

	// Specific dates
	{regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?`), numericDate},
	{regexp.MustCompile(`(\d{1,2})\s+de\s+(\p{L}+)(?:\s+de\s+(\d{2,4}))?`), textualDate},

	// Holidays
	{regexp.MustCompile(`\b(?:páscoa|easter)\b`), easterDate},
	{regexp.MustCompile(`\b(?:natal|christmas)\b`), christmasDate},
	{regexp.MustCompile(`\b(?:ano novo|new year)\b`), newYearDate},
}

// ExtractDates finds all date expressions in normalized text. Offsets are
// relative to the text passed in.
func (e *DateExtractor) ExtractDates(normalized string) []DateMatch {
	today := e.clock.Today()
	var matches []DateMatch

	for _, p := range datePatterns {
		for _, idx := range p.re.FindAllStringSubmatchIndex(normalized, -1) {
			groups := submatchStrings(normalized, idx)
			resolved, ok := p.resolve(today, groups)
			if !ok {
				continue
			}
			matches = append(matches, DateMatch{
				Date:  resolved,
				Start: idx[0],
				End:   idx[1],
			})
		}
	}

	return matches
}

func submatchStrings(text string, idx []int) []string {
	groups := make([]string, 0, len(idx)/2-1)
	for i := 2; i < len(idx); i += 2 {
		if idx[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, text[idx[i]:idx[i+1]])
	}
	return groups
}

func relativeDays(n int) dateResolver {
	return func(today time.Time, _ []string) (time.Time, bool) {
		return today.AddDate(0, 0, n), true
	}
}

// weekday resolves to the next occurrence strictly after today: a message
// sent on a Friday saying "friday" means the following week's Friday.
func weekday(w time.Weekday) dateResolver {
	return func(today time.Time, _ []string) (time.Time, bool) {
		return nextWeekday(today, w), true
	}
}

func nextWeekday(today time.Time, w time.Weekday) time.Time {
	daysAhead := int(w - today.Weekday())
	if daysAhead <= 0 {
		daysAhead += 7
	}
	return today.AddDate(0, 0, daysAhead)
}

// thisWeekend resolves to the upcoming Saturday, which is today when the
// message arrives on a Saturday.
func thisWeekend(today time.Time, _ []string) (time.Time, bool) {
	daysAhead := int(time.Saturday - today.Weekday())
	if daysAhead < 0 {
		daysAhead += 7
	}
	return today.AddDate(0, 0, daysAhead), true
}

func nextWeekend(today time.Time, groups []string) (time.Time, bool) {
	saturday, _ := thisWeekend(today, groups)
	return saturday.AddDate(0, 0, 7), true
}

func nextWeek(today time.Time, _ []string) (time.Time, bool) {
	return nextWeekday(today, time.Monday), true
}

func numericDate(today time.Time, groups []string) (time.Time, bool) {
	day, err := strconv.Atoi(groups[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(groups[1])
	if err != nil {
		return time.Time{}, false
	}

	year := today.Year()
	if groups[2] != "" {
		parsed, err := strconv.Atoi(groups[2])
		if err != nil {
			return time.Time{}, false
		}
		if len(groups[2]) == 2 {
			parsed += 2000
		}
		year = parsed
	}

	return makeDate(year, month, day, today.Location())
}

func textualDate(today time.Time, groups []string) (time.Time, bool) {
	day, err := strconv.Atoi(groups[0])
	if err != nil {
		return time.Time{}, false
	}
	month, ok := monthNames[groups[1]]
	if !ok {
		return time.Time{}, false
	}

	year := today.Year()
	if groups[2] != "" {
		parsed, err := strconv.Atoi(groups[2])
		if err != nil {
			return time.Time{}, false
		}
		year = parsed
	}

	return makeDate(year, month, day, today.Location())
}

// easterDate is only exact for 2025; other years use a rough mid-April
// placeholder carried over from the production rule set.
func easterDate(today time.Time, _ []string) (time.Time, bool) {
	if today.Year() == 2025 {
		return time.Date(2025, time.April, 20, 0, 0, 0, 0, today.Location()), true
	}
	return time.Date(today.Year(), time.April, 15, 0, 0, 0, 0, today.Location()), true
}

func christmasDate(today time.Time, _ []string) (time.Time, bool) {
	return time.Date(today.Year(), time.December, 25, 0, 0, 0, 0, today.Location()), true
}

func newYearDate(today time.Time, _ []string) (time.Time, bool) {
	return time.Date(today.Year()+1, time.January, 1, 0, 0, 0, 0, today.Location()), true
}

// makeDate rejects values time.Date would silently normalize, such as 32/01.
func makeDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

var monthNames = map[string]int{
	"janeiro": 1, "jan": 1, "january": 1,
	"fevereiro": 2, "fev": 2, "february": 2,
	"março": 3, "mar": 3, "march": 3,
	"abril": 4, "abr": 4, "april": 4,
	"maio": 5, "mai": 5, "may": 5,
	"junho": 6, "jun": 6, "june": 6,
	"julho": 7, "jul": 7, "july": 7,
	"agosto": 8, "ago": 8, "august": 8,
	"setembro": 9, "set": 9, "september": 9,
	"outubro": 10, "out": 10, "october": 10,
	"novembro": 11, "nov": 11, "november": 11,
	"dezembro": 12, "dez": 12, "december": 12,
}
