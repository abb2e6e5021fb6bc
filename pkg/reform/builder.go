package reform

import (
	"strings"
	"time"

	"github.com/coolbeans/billdraft/pkg/extract"
	"github.com/coolbeans/billdraft/pkg/parampath"
)

// DefaultCountry is the jurisdiction assumed when the caller does not
// override it.
const DefaultCountry = "United States"

// isoDateLayout is the date format date-range keys must use.
const isoDateLayout = "2006-01-02"

// BuildError reports a reform that could not be normalized. Extraction
// failures are caught upstream, so in practice this only fires when a
// caller hands the builder an empty raw mapping directly.
type BuildError struct {
	Reason string
}

func (e *BuildError) Error() string {
	return "reform normalization failed: " + e.Reason
}

// Builder normalizes raw extractor output into a PolicyReform. Country
// and Year are plain fields so tests and callers can pin them instead of
// depending on ambient process state.
type Builder struct {
	Country string
	Year    int
}

// NewBuilder returns a Builder with the default country and the current
// calendar year.
func NewBuilder() Builder {
	return Builder{Country: DefaultCountry, Year: time.Now().Year()}
}

// Build normalizes a raw reform mapping. Parameters appear in the same
// order as the raw mapping. Each date-range key is split on "." and both
// halves are validated as ISO dates; a key that fails validation becomes
// an opaque change carrying the raw key, independently of its siblings.
// The first successfully dated change fixes the parameter's year; later
// changes never overwrite it.
func (b Builder) Build(raw extract.RawReform) (*PolicyReform, error) {
	if len(raw) == 0 {
		return nil, &BuildError{Reason: "no parameters in reform mapping"}
	}

	r := &PolicyReform{
		Parameters: make([]PolicyParameter, 0, len(raw)),
		Country:    b.Country,
		Year:       b.Year,
	}

	for _, change := range raw {
		param := PolicyParameter{
			Path:   change.Path,
			Name:   parampath.ReadableName(change.Path),
			Agency: parampath.Agency(change.Path),
			Type:   TypeForPath(change.Path),
		}

		for _, entry := range change.Entries {
			policyChange := normalizeChange(entry)
			if param.Year == 0 {
				if year, ok := policyChange.Year(); ok {
					param.Year = year
				}
			}
			param.Changes = append(param.Changes, policyChange)
		}

		r.Parameters = append(r.Parameters, param)
	}

	return r, nil
}

// BuildWithImpact normalizes a raw reform mapping and attaches simulation
// context recovered from the surrounding code.
func (b Builder) BuildWithImpact(raw extract.RawReform, info extract.ImpactInfo) (*PolicyReform, error) {
	r, err := b.Build(raw)
	if err != nil {
		return nil, err
	}
	r.Metrics = info.Metrics
	r.SimulationYear = info.SimulationYear
	r.DifferenceVariable = info.DifferenceVariable
	return r, nil
}

// normalizeChange converts one raw entry into a dated PolicyChange, or an
// opaque one when the range key is not a pair of ISO dates.
func normalizeChange(entry extract.ChangeEntry) PolicyChange {
	parts := strings.Split(entry.RangeKey, ".")
	if len(parts) >= 2 && isISODate(parts[0]) && isISODate(parts[1]) {
		return PolicyChange{StartDate: parts[0], EndDate: parts[1], Value: entry.Value}
	}
	return PolicyChange{RawRange: entry.RangeKey, Value: entry.Value}
}

func isISODate(s string) bool {
	_, err := time.Parse(isoDateLayout, s)
	return err == nil
}
