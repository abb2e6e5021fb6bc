package render

import (
	"strings"

	"github.com/coolbeans/billdraft/pkg/metadata"
	"github.com/coolbeans/billdraft/pkg/reform"
)

// ContextBlock renders descriptor metadata for every parameter in the
// reform as a reference block for the drafting prompt: the description,
// label and unit when present, and legal references as "- Title: URL"
// lines. Returns the empty string for a reform with no parameters.
func ContextBlock(r *reform.PolicyReform, enrichment *metadata.Enrichment) string {
	if len(r.Parameters) == 0 || enrichment == nil {
		return ""
	}

	var blocks []string
	for i := range r.Parameters {
		param := &r.Parameters[i]
		desc := enrichment.For(param.Path)

		var lines []string
		lines = append(lines, param.Path+": "+desc.Description)
		if desc.Metadata.Label != "" {
			lines = append(lines, "Label: "+desc.Metadata.Label)
		}
		if desc.Metadata.Unit != "" {
			lines = append(lines, "Unit: "+desc.Metadata.Unit)
		}
		if refs := desc.References(); len(refs) > 0 {
			lines = append(lines, "References:")
			for _, ref := range refs {
				lines = append(lines, "- "+ref.Title+": "+ref.Href)
			}
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	return strings.Join(blocks, "\n\n")
}
