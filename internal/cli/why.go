package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/cache"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/errors"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/portage"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/rdeps"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/triggers"
)

// whyOpts holds the command-line flags for the why command.
type whyOpts struct {
	report   string // captured report file instead of running emerge
	fullAtom bool   // show full atom texts in trigger leaves
	noCache  bool   // disable the portageq response cache
	jobs     int    // concurrent metadata prefetch fan-out (0 disables)
}

// newWhyCmd creates the why command, the main analysis entry point.
func newWhyCmd() *cobra.Command {
	opts := whyOpts{jobs: 4}

	cmd := &cobra.Command{
		Use:   "why [pattern]",
		Short: "Show the reverse-dependency chain that pulls a package in",
		Long: `Walk the reverse-dependency chain of an installed package and show,
for every dependee hop, the dependency-variable syntax that triggers the
previous hop's installation.

The pattern is a regular expression matched against the package names in the
depclean report. A unique match is analyzed directly; multiple matches open
an interactive picker on a terminal.

Examples:
  rdep-analyzer why openssl
  rdep-analyzer why 'dev-lang/python$' --full-atom
  rdep-analyzer why -r ~/emerge_rdeps.txt libffi`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			pattern := ""
			if len(args) > 0 {
				pattern = args[0]
			}

			m, err := loadMap(ctx, cfg, opts.report, opts.noCache)
			if err != nil {
				return err
			}
			name, err := selectPackage(m, pattern)
			if err != nil {
				return err
			}

			source, cleanup := newMetadataSource(ctx, cfg, opts.noCache)
			defer cleanup()

			analyzer := &triggers.Analyzer{
				Map:      m,
				Source:   source,
				Depvars:  cfg.Depvars,
				FullAtom: opts.fullAtom || cfg.FullAtom,
				Log:      logger,
			}

			levels := m.Levels(name)
			if opts.jobs > 0 {
				prog := newProgress(logger)
				pf := &portage.Prefetcher{Source: source, Limit: opts.jobs}
				if err := pf.Warm(ctx, levels, cfg.Depvars); err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Prefetched metadata for %d chain levels", len(levels)))
			}

			return analyzer.Examine(ctx, name, func(h triggers.Hop) error {
				fmt.Println(renderHop(h, cfg.Indent))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.report, "report", "r", "", "captured depclean report file (default: run emerge)")
	cmd.Flags().BoolVar(&opts.fullAtom, "full-atom", false, "show full atoms instead of bare package names")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the portageq response cache")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "concurrent metadata prefetch jobs (0 disables prefetch)")

	return cmd
}

// loadMap produces the dependee map: report text (file or emerge run),
// section extraction, indentation parse. Reports produced by running emerge
// are cached; the depclean run dominates the tool's wall-clock time.
func loadMap(ctx context.Context, cfg *Config, reportPath string, noCache bool) (rdeps.Map, error) {
	logger := loggerFromContext(ctx)

	if reportPath == "" {
		reportPath = cfg.Report.Path
	}

	report := &portage.EmergeReport{Path: reportPath}
	if reportPath == "" {
		logger.Info("Running emerge depclean pretend, this can take a while")
		if !noCache && !cfg.Cache.Disabled {
			if dir, err := cfg.cacheDir(); err == nil {
				if c, err := cache.NewFileCache(dir); err == nil {
					defer c.Close()
					report.Cache = c
					report.TTL = cfg.CacheTTL()
				}
			}
		}
	}

	prog := newProgress(logger)
	text, err := report.Text(ctx)
	if err != nil {
		return rdeps.Map{}, err
	}

	lines := rdeps.Section(text)
	if len(lines) == 0 {
		return rdeps.Map{}, errors.New(errors.ErrCodeReportMalformed,
			"report has no 'pulled in by' section")
	}
	m := rdeps.BuildMap(lines)
	if m.Len() == 0 {
		return rdeps.Map{}, errors.New(errors.ErrCodeReportMalformed,
			"report section has no dependee entries")
	}
	prog.done(fmt.Sprintf("Indexed %d packages from report", m.Len()))
	return m, nil
}

// newMetadataSource builds the portageq source with the configured cache.
// A cache that cannot be opened degrades to no caching with a warning.
func newMetadataSource(ctx context.Context, cfg *Config, noCache bool) (*portage.Portageq, func()) {
	var c cache.Cache
	if noCache || cfg.Cache.Disabled {
		c = cache.NewNullCache()
	} else {
		dir, err := cfg.cacheDir()
		if err == nil {
			c, err = cache.NewFileCache(dir)
		}
		if err != nil {
			printWarning("Response cache disabled: %v", err)
			c = cache.NewNullCache()
		}
	}

	q := &portage.Portageq{Cache: c, TTL: cfg.CacheTTL()}
	return q, func() { _ = c.Close() }
}
