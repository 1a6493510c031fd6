package coinpan

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sig-0/kpremium/numeric"
	"github.com/sig-0/kpremium/storage/types"
)

const (
	tableSelector   = "table.coin_currency"
	rowSelector     = "tbody tr.exchange_info"
	nameSelector    = "th.exchange_name"
	premiumSelector = "td.price.korea_premium"
)

var (
	ErrTableNotFound = errors.New("premium table not found")
	ErrNoPremiums    = errors.New("no premiums extracted")
)

var (
	krwPattern = regexp.MustCompile(`[+-]?\d[\d,]*`)
	pctPattern = regexp.MustCompile(`[+-]?\d+(?:\.\d+)?\s*%`)
)

// ParseTable extracts the KRW premium of every venue row in the premium table.
// Venues without a value map to nil
func ParseTable(doc *goquery.Document) (map[types.Venue]*int64, error) {
	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return nil, ErrTableNotFound
	}

	out := make(map[types.Venue]*int64)

	table.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		name, ok := row.Attr("data-exchange")
		if !ok || strings.TrimSpace(name) == "" {
			name = row.Find(nameSelector).First().Text()
		}

		name = strings.TrimSpace(name)
		if name == "" {
			return
		}

		cell := row.Find(premiumSelector).First()
		if cell.Length() == 0 {
			return
		}

		out[types.Venue(name)] = ParsePremiumText(cell.Text())
	})

	if len(out) == 0 {
		return nil, ErrNoPremiums
	}

	return out, nil
}

// ParsePremiumText parses the KRW amount of a premium cell such as "+587,305 +0.44%".
// A dash, an empty cell or a cell without an amount yields nil
func ParsePremiumText(text string) *int64 {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" || text == "-" {
		return nil
	}

	// The amount precedes the percentage
	amount := text
	if loc := pctPattern.FindStringIndex(text); loc != nil {
		amount = text[:loc[0]]
	}

	krw, ok := numeric.Int(krwPattern.FindString(amount))
	if !ok {
		return nil
	}

	return &krw
}
