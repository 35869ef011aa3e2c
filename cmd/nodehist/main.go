package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nodehist/nodehist/pkg/config"
	"github.com/nodehist/nodehist/pkg/enrich"
	"github.com/nodehist/nodehist/pkg/history"
	"github.com/nodehist/nodehist/pkg/logger"
	"github.com/nodehist/nodehist/pkg/models"
	"github.com/nodehist/nodehist/pkg/report"
	"github.com/nodehist/nodehist/pkg/schema"
	"github.com/nodehist/nodehist/pkg/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nodehist: %v\n", err)
		os.Exit(1)
	}
}

type queryFlags struct {
	configPath string
	count      int
	fromStart  bool
	from       int64
	to         int64
	nodes      []string
	mode       string
	verbose    bool
	field      string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nodehist",
		Short:         "Report historical validator statistics from per-node stores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newQueryCmd(), newListCmd())

	return root
}

func newQueryCmd() *cobra.Command {
	flags := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Select and render stored statistics records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to config file")
	cmd.Flags().IntVarP(&flags.count, "count", "n", 1, "Number of most recent records (0 for all)")
	cmd.Flags().BoolVar(&flags.fromStart, "from-start", false, "Return all records from the beginning")
	cmd.Flags().Int64Var(&flags.from, "from", -1, "Window lower bound as a unix timestamp")
	cmd.Flags().Int64Var(&flags.to, "to", -1, "Window upper bound as a unix timestamp")
	cmd.Flags().StringSliceVar(&flags.nodes, "node", nil, "Node name to report on (repeatable; default all)")
	cmd.Flags().StringVar(&flags.mode, "mode", string(models.RenderNarrative), "Output mode: json, tree, or narrative")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Include verbose report lines")
	cmd.Flags().StringVar(&flags.field, "field", "", "Render only this dotted field path")

	return cmd
}

func runQuery(cmd *cobra.Command, flags *queryFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging, "nodehist")
	if err != nil {
		return err
	}

	req := models.QueryRequest{
		Count:     flags.count,
		FromStart: flags.fromStart,
		Nodes:     flags.nodes,
	}

	if flags.from >= 0 {
		from := uint64(flags.from)
		req.From = &from
	}

	if flags.to >= 0 {
		to := uint64(flags.to)
		req.To = &to
	}

	results, err := history.NewService(cfg.StoreDir, log).Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	enricher, err := newEnricher(cfg, log)
	if err != nil {
		return err
	}

	renderReq := models.RenderRequest{
		Mode:    models.RenderMode(flags.mode),
		Verbose: flags.verbose,
		Field:   flags.field,
	}

	sch := schema.Validator(cfg.Packages)
	out := cmd.OutOrStdout()
	failed := false

	for _, res := range results {
		if res.Err != nil {
			failed = true
			continue
		}

		for _, rec := range res.Records {
			tree := sch.Build(rec.Data, log)
			enricher.Apply(cmd.Context(), tree)

			if err := report.Render(out, rec, tree, renderReq); err != nil {
				return err
			}
		}
	}

	if failed {
		return errPartialFailure
	}

	return nil
}

func newEnricher(cfg *config.Config, log logger.Logger) (*enrich.Enricher, error) {
	control, err := enrich.NewProcessControl(cfg.NodeControl, cfg.Service, log)
	if err != nil {
		return nil, err
	}

	return enrich.New(control, enrich.NewSystemSocketTable(log), enrich.NewDpkgVersions(log), log), nil
}

func newListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available node stores with record counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			return runList(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	return cmd
}

func runList(cmd *cobra.Command, cfg *config.Config) error {
	nodes, err := store.ListNodes(cfg.StoreDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	for _, node := range nodes {
		st, err := store.OpenNode(cfg.StoreDir, node)
		if err != nil {
			return err
		}

		count, first, last, err := st.Summary()
		cerr := st.Close()

		if err != nil {
			return err
		}

		if cerr != nil {
			return cerr
		}

		if count == 0 {
			fmt.Fprintf(out, "%s: no records\n", node)
			continue
		}

		fmt.Fprintf(out, "%s: %d records, %s .. %s\n",
			node, count, history.FormatTimestamp(first), history.FormatTimestamp(last))
	}

	return nil
}
