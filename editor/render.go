package editor

import (
	"github.com/grovetools/coverlay/coverage"
)

// Highlight groups applied to covered and missed lines. Users can restyle
// them from their own config; the defaults only tint the line background.
const (
	hlCovered = "CoverlayCovered"
	hlMissed  = "CoverlayMissed"
)

// Renderer paints per-line coverage onto editor buffers through a dedicated
// highlight namespace, so clearing coverage never disturbs other plugins'
// decorations.
type Renderer struct {
	client *Client
	ns     int
}

// NewRenderer prepares the highlight namespace and default groups on the
// attached editor.
func NewRenderer(client *Client) (*Renderer, error) {
	ns, err := client.v.CreateNamespace("coverlay")
	if err != nil {
		return nil, err
	}

	// default define (not define!) so user overrides win
	for _, cmd := range []string{
		"highlight default " + hlCovered + " guibg=#2a3f32 ctermbg=22",
		"highlight default " + hlMissed + " guibg=#43242b ctermbg=52",
	} {
		if err := client.v.Command(cmd); err != nil {
			return nil, err
		}
	}

	return &Renderer{client: client, ns: ns}, nil
}

// Render applies the cache to the given buffers. It is idempotent: each
// buffer's namespace is cleared before new decorations are added, and an
// empty cache therefore clears everything. Failures are logged, never
// returned; rendering is fire-and-forget.
func (r *Renderer) Render(cache coverage.Cache, buffers []Buffer) {
	batch := r.client.v.NewBatch()

	for _, buffer := range buffers {
		batch.ClearBufferNamespace(buffer.Handle, r.ns, 0, -1)

		section := coverage.MergeAll(coverage.SectionsForFile(cache, buffer.File))
		if section == nil || section.LineHits == nil {
			continue
		}

		for line, hits := range section.LineHits {
			group := hlMissed
			if hits > 0 {
				group = hlCovered
			}
			// lcov lines are 1-based, buffer highlights 0-based.
			var id int
			batch.AddBufferHighlight(buffer.Handle, r.ns, group, line-1, 0, -1, &id)
		}
	}

	if err := batch.Execute(); err != nil {
		log.WithError(err).Warn("Failed to render coverage decorations")
	}
}
