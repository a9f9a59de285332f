package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/vtree/internal/demo"
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/internal/scenario"
	"github.com/vango-dev/vtree/internal/snapshot"
)

// defaultPublishConcurrency bounds parallel uploads.
const defaultPublishConcurrency = 4

func publishCmd(g *globalFlags) *cobra.Command {
	var (
		root        string
		store       string
		concurrency int
		allSteps    bool
	)

	cmd := &cobra.Command{
		Use:   "publish [scenario.yaml]",
		Short: "Render pages and publish them to the snapshot store",
		Long: `Render the root component as a full HTML page and store it in the
configured snapshot store (a directory or an S3 bucket).

With a scenario file the page after the last step is published. Use
--all-steps to publish one page per step.

Examples:
  vtree publish
  vtree publish steps.yaml --all-steps
  vtree publish --store s3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if store != "" {
				e.cfg.Snapshot.Store = store
				if err := e.cfg.Validate(); err != nil {
					return err
				}
			}

			if allSteps && len(args) == 0 {
				warn("--all-steps has no effect without a scenario file")
			}

			sc := &scenario.Scenario{}
			if len(args) == 1 {
				if sc, err = scenario.Load(args[0]); err != nil {
					return err
				}
			}
			if root == "" {
				root = sc.Root
			}
			desc, err := e.root(root)
			if err != nil {
				return err
			}

			page := e.page()
			results, err := sc.Run(scenario.Options{
				Root:       desc,
				Render:     e.renderConfig(),
				Page:       &page,
				Dispatch:   demo.Dispatch,
				Reconciler: e.reconcilerOptions(),
			})
			if err != nil {
				return err
			}
			if !allSteps {
				results = results[len(results)-1:]
			}

			st, err := snapshot.Open(e.cfg)
			if err != nil {
				return errors.New("E124").Wrap(err)
			}
			name := e.cfg.Name
			if name == "" {
				name = desc.Name
			}
			return publishResults(cmd.Context(), cmd.OutOrStdout(), st, e.cfg.Snapshot.Prefix, name, results, concurrency)
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Component to mount (default from vtree.json or the scenario)")
	cmd.Flags().StringVar(&store, "store", "", "Snapshot store: dir or s3 (default from vtree.json)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", defaultPublishConcurrency, "Maximum parallel uploads")
	cmd.Flags().BoolVar(&allSteps, "all-steps", false, "Publish a page for every scenario step")

	return cmd
}

// publishResults uploads one snapshot per result. Locations are printed in
// result order once every upload has finished.
func publishResults(ctx context.Context, w io.Writer, st snapshot.Store, prefix, name string, results []scenario.Result, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}
	now := time.Now()
	locations := make([]string, len(results))

	var mu sync.Mutex
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(concurrency)
	for i, r := range results {
		grp.Go(func() error {
			s := snapshot.Snapshot{Name: name, HTML: r.Page, CreatedAt: now}
			if len(results) > 1 {
				s.Step = r.Step
			}
			loc, err := snapshot.Publish(gctx, st, prefix, s)
			if err != nil {
				return errors.New("E141").WithDetail(fmt.Sprintf("Step %q could not be stored.", r.Step)).Wrap(err)
			}
			mu.Lock()
			locations[i] = loc
			mu.Unlock()
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	for i, loc := range locations {
		fmt.Fprintf(w, "\033[32m✓\033[0m %s → %s\n", results[i].Step, loc)
	}
	return nil
}
