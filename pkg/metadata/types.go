// Package metadata enriches normalized policy parameters with descriptive
// and legal-reference metadata from a local tree of parameter descriptor
// files. Lookup never fails: a missing or malformed descriptor degrades to
// a minimal stub, so enrichment can never abort a drafting request.
package metadata

// Reference is one legal or documentary citation for a parameter.
type Reference struct {
	Title string `yaml:"title" json:"title"`
	Href  string `yaml:"href" json:"href"`
}

// Meta is the free-form metadata block of a descriptor.
type Meta struct {
	Unit      string      `yaml:"unit,omitempty" json:"unit,omitempty"`
	Period    string      `yaml:"period,omitempty" json:"period,omitempty"`
	Label     string      `yaml:"label,omitempty" json:"label,omitempty"`
	Type      string      `yaml:"type,omitempty" json:"type,omitempty"`
	Reference []Reference `yaml:"reference,omitempty" json:"reference,omitempty"`
}

// Bracket is one threshold/amount pair of a bracketed parameter (tax
// brackets, phase-out schedules). Threshold and Amount are left untyped:
// descriptor files mix scalars with per-date mappings.
type Bracket struct {
	Threshold interface{} `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Amount    interface{} `yaml:"amount,omitempty" json:"amount,omitempty"`
}

// Descriptor is the external record describing one parameter (or one
// bracketed parameter list). All fields are optional.
type Descriptor struct {
	Description string                 `yaml:"description,omitempty" json:"description,omitempty"`
	Values      map[string]interface{} `yaml:"values,omitempty" json:"values,omitempty"`
	Brackets    []Bracket              `yaml:"brackets,omitempty" json:"brackets,omitempty"`
	Metadata    Meta                   `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// References returns the descriptor's legal references, never nil-panics.
func (d *Descriptor) References() []Reference {
	if d == nil {
		return nil
	}
	return d.Metadata.Reference
}

// Stub returns the minimal descriptor used when no record exists for a
// path: a placeholder description and an empty reference list.
func Stub(path string) *Descriptor {
	return &Descriptor{
		Description: "Parameter at " + path,
		Metadata:    Meta{Reference: []Reference{}},
	}
}
