package receipt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/abhiatluri/NutritionTracker/internal/model"
)

// linePattern matches a receipt item line: a run of letters and spaces
// (the name) followed by whitespace and a decimal number (the
// quantity). Lines that print anything else first, such as totals with
// currency symbols or barcode digits, do not match.
var linePattern = regexp.MustCompile(`^([A-Za-z][A-Za-z ]*?)\s+(\d+(?:\.\d+)?)\b`)

// boilerplateNames are receipt lines that match linePattern but are
// never food items.
var boilerplateNames = map[string]bool{
	"total":    true,
	"subtotal": true,
	"tax":      true,
	"cash":     true,
	"change":   true,
	"balance":  true,
	"credit":   true,
	"debit":    true,
	"visa":     true,
	"tend":     true,
}

// ItemParser converts raw receipt text into line items. It is stateless
// and safe for concurrent use.
type ItemParser struct{}

// NewItemParser creates an ItemParser.
func NewItemParser() *ItemParser {
	return &ItemParser{}
}

// Parse extracts line items from receipt text, one line at a time.
// Non-matching lines (store name, headers, totals) are silently
// skipped. Names are lowercased and trimmed; the unit defaults to
// model.DefaultUnit since receipts rarely print units. An empty result
// is valid: a receipt with no recognizable items is uninteresting, not
// an error.
func (p *ItemParser) Parse(text string) []model.RawLineItem {
	items := make([]model.RawLineItem, 0)

	for _, line := range strings.Split(text, "\n") {
		m := linePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		name := strings.Join(strings.Fields(strings.ToLower(m[1])), " ")
		if name == "" || boilerplateNames[name] {
			continue
		}

		quantity, err := strconv.ParseFloat(m[2], 64)
		if err != nil || quantity <= 0 {
			continue
		}

		items = append(items, model.RawLineItem{
			Name:     name,
			Quantity: quantity,
			Unit:     model.DefaultUnit,
		})
	}

	return items
}
