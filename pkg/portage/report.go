package portage

import (
	"context"
	"os"
	"time"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/cache"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/errors"
)

// DepcleanArgs are the emerge arguments producing the reverse-dependency
// report. The emptytree depclean pretend lists, for every installed package,
// the packages that pull it in.
var DepcleanArgs = []string{"--pretend", "--verbose", "--emptytree", "--depclean"}

// EmergeReport produces the raw depclean report text, either by running
// emerge or by reading a previously captured file.
type EmergeReport struct {
	// Runner executes emerge. Defaults to [ExecRunner].
	Runner Runner

	// Path, when set, names a captured report file read instead of
	// running emerge. Capturing the report once is common since the
	// emptytree depclean takes a while on a full system.
	Path string

	// Cache, when set, stores the emerge output keyed by the depclean
	// arguments. The emptytree depclean is by far the slowest call this
	// tool makes. Report files named by Path are never cached.
	Cache cache.Cache

	// TTL bounds the cached report's lifetime. Zero or negative falls
	// back to [DefaultTTL].
	TTL time.Duration
}

// Text returns the report text.
func (r *EmergeReport) Text(ctx context.Context) (string, error) {
	if r.Path != "" {
		data, err := os.ReadFile(r.Path)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeReportUnavailable, err,
				"reading report file %s", r.Path)
		}
		return string(data), nil
	}

	key := cache.ReportKey(DepcleanArgs)
	if r.Cache != nil {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			return string(data), nil
		}
	}

	runner := r.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	out, err := runner.Run(ctx, "emerge", DepcleanArgs...)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeReportUnavailable, err, "running emerge")
	}

	if r.Cache != nil {
		ttl := r.TTL
		if ttl <= 0 {
			ttl = DefaultTTL
		}
		_ = r.Cache.Set(ctx, key, out, ttl)
	}
	return string(out), nil
}
