package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/demo"
	"github.com/vango-dev/vtree/internal/scenario"
	"github.com/vango-dev/vtree/pkg/render"
)

func renderCmd(g *globalFlags) *cobra.Command {
	var (
		root   string
		pretty bool
		stats  bool
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "render [scenario.yaml]",
		Short: "Render the root component, optionally replaying a scenario",
		Long: `Mount the root component and print its markup.

With a scenario file, every step is applied in order and the markup
after each step is printed along with the document operations it took.

Examples:
  vtree render
  vtree render --root Footer
  vtree render steps.yaml --stats`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if pretty {
				e.cfg.Render.Pretty = true
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

			results, err := sc.Run(scenario.Options{
				Root:       desc,
				Render:     e.renderConfig(),
				Dispatch:   demo.Dispatch,
				Reconciler: e.reconcilerOptions(),
			})
			printResults(cmd.OutOrStdout(), results, len(args) == 1 && !quiet, stats)
			return err
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Component to mount (default from vtree.json or the scenario)")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the output")
	cmd.Flags().BoolVarP(&stats, "stats", "s", false, "Print document operation counts per step")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the final markup")

	return cmd
}

func printResults(w io.Writer, results []scenario.Result, all, stats bool) {
	if len(results) == 0 {
		return
	}
	if !all {
		last := results[len(results)-1]
		fmt.Fprintln(w, last.HTML)
		if stats {
			printStats(w, last.Stats)
		}
		return
	}
	for _, r := range results {
		fmt.Fprintf(w, "── %s\n", r.Step)
		fmt.Fprintln(w, r.HTML)
		if stats {
			printStats(w, r.Stats)
		}
	}
}

func printStats(w io.Writer, s render.Stats) {
	fmt.Fprintf(w, "   ops=%d mutations=%d (clear=%d materialize=%d childAnchor=%d append=%d anchorAfter=%d remove=%d)\n",
		s.Total(), s.Mutations(), s.Clears, s.Materialized, s.ChildAnchors, s.Appends, s.AnchorsAfter, s.Removes)
}
