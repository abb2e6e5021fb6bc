package reform

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/coolbeans/billdraft/pkg/extract"
)

// FormattedValue renders the value of the change at index i for prose
// output, with type-dependent rules:
//
//   - rates (Type is TaxRate, or the path contains "rate") render as a
//     percentage: values below 1 are multiplied by 100 and shown with one
//     decimal place, values of 1 and above are shown with one decimal
//     place as-is;
//   - dollar figures (path contains "amount" or "benefit") render as
//     currency with thousands separators and no decimal places;
//   - other numerics render with thousands separators;
//   - text values render unchanged.
//
// An out-of-range index yields the placeholder "modified value".
func (p *PolicyParameter) FormattedValue(i int) string {
	if i < 0 || i >= len(p.Changes) {
		return "modified value"
	}
	value := p.Changes[i].Value
	if !value.IsNumeric() {
		return value.Text()
	}

	lowerPath := strings.ToLower(p.Path)
	n := value.Number()

	switch {
	case p.Type == TaxRate || strings.Contains(lowerPath, "rate"):
		if n < 1 {
			return fmt.Sprintf("%.1f%%", n*100)
		}
		return fmt.Sprintf("%.1f%%", n)

	case strings.Contains(lowerPath, "amount") || strings.Contains(lowerPath, "benefit"):
		return "$" + humanize.Comma(int64(math.Round(n)))

	case value.Kind() == extract.ValueFloat:
		return humanize.Commaf(n)

	default:
		return humanize.Comma(value.Int())
	}
}
