package portage

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/cache"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/errors"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/triggers"
)

// DefaultTTL is how long cached portageq responses stay valid. Dependency
// variables only change when the package is re-merged, so a day is
// conservative.
const DefaultTTL = 24 * time.Hour

// Portageq fetches dependency-variable metadata through the portageq
// command, optionally caching responses.
type Portageq struct {
	// Runner executes portageq. Defaults to [ExecRunner].
	Runner Runner

	// Cache stores responses keyed by package and variable list.
	// Nil disables caching.
	Cache cache.Cache

	// TTL overrides DefaultTTL when positive.
	TTL time.Duration

	// Root is the EROOT passed to portageq, "/" when empty.
	Root string
}

// Depvars returns one metadata value per requested variable name, in order,
// for the given package. Implements [triggers.Source].
func (q *Portageq) Depvars(ctx context.Context, pkg string, names []string) ([]string, error) {
	key := cache.MetadataKey(pkg, names)
	if q.Cache != nil {
		if data, ok, err := q.Cache.Get(ctx, key); err == nil && ok {
			var vars []string
			if err := json.Unmarshal(data, &vars); err == nil {
				return vars, nil
			}
		}
	}

	runner := q.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	root := q.Root
	if root == "" {
		root = "/"
	}

	args := append([]string{"metadata", root, "ebuild", pkg}, names...)
	out, err := runner.Run(ctx, "portageq", args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMetadataUnavailable, err,
			"portageq metadata for %s", pkg)
	}

	// portageq prints one line per requested variable.
	vars := strings.Split(strings.TrimRight(string(out), "\n"), "\n")

	if q.Cache != nil {
		ttl := q.TTL
		if ttl <= 0 {
			ttl = DefaultTTL
		}
		if data, err := json.Marshal(vars); err == nil {
			_ = q.Cache.Set(ctx, key, data, ttl)
		}
	}
	return vars, nil
}

// Ensure Portageq implements the analyzer's metadata source.
var _ triggers.Source = (*Portageq)(nil)
