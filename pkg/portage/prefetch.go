package portage

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/rdeps"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/triggers"
)

// Prefetcher warms the metadata cache for a whole dependee chain before the
// sequential analysis pass, so that pass runs against cache hits. Fetch
// failures are left for the analysis pass to surface per hop.
type Prefetcher struct {
	Source triggers.Source

	// Limit bounds concurrent fetches. Defaults to 4; portageq hits the
	// local VDB, so a small fan-out is enough.
	Limit int
}

// Warm fetches dependency variables for every concrete package in levels.
// Set names are skipped, duplicates fetched once. Returns early only when
// ctx is canceled.
func (p *Prefetcher) Warm(ctx context.Context, levels []rdeps.Level, names []string) error {
	limit := p.Limit
	if limit <= 0 {
		limit = 4
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	seen := make(map[string]bool)
	for _, lvl := range levels {
		if strings.HasPrefix(lvl.Name, rdeps.GroupPrefix) || seen[lvl.Name] {
			continue
		}
		seen[lvl.Name] = true

		pkg := lvl.Name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Best effort: a failed fetch is reported by the
			// sequential pass, not here.
			_, _ = p.Source.Depvars(ctx, pkg, names)
			return nil
		})
	}
	return g.Wait()
}
