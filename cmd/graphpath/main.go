// Package main implements the graphpath command line tool, a thin
// wrapper around the client library for smoke-testing a graph service
// deployment: build and run a path query from flags, or submit a raw
// wire query.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360/graphpath/config"
	"github.com/c360/graphpath/graph"
	"github.com/c360/graphpath/path"
	"github.com/c360/graphpath/selector"
	"github.com/c360/graphpath/wire"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "graphpath"
)

type cliOptions struct {
	configFile string
	host       string
	port       int
	version    string
	timeout    time.Duration
	verbose    bool

	out   []string
	in    []string
	has   []string
	tags  []string
	limit int
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Typed client for a Gremlin-style graph query service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "path to a JSON or YAML config file")
	flags.StringVar(&opts.host, "host", "", "graph service host (overrides config)")
	flags.IntVar(&opts.port, "port", 0, "graph service port (overrides config)")
	flags.StringVar(&opts.version, "api-version", "", "API version selector (overrides config)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "request timeout (overrides config)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newQueryCommand(opts))
	root.AddCommand(newExecCommand(opts))
	return root
}

func newQueryCommand(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [start-node...]",
		Short: "Build a path query from flags and execute it",
		Long: `Build a path query from flags and execute it.

The starting selector is the positional node IDs, or every node when
none are given. Traversal flags apply in fixed order: --out, --in,
--has, --tag. Use --limit for a bounded fetch; the default fetches all
results.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := path.NewVertex(startSelector(args))
			for _, pred := range opts.out {
				expr = expr.Out(predicateSelector(pred))
			}
			for _, pred := range opts.in {
				expr = expr.In(predicateSelector(pred))
			}
			for _, clause := range opts.has {
				pred, value, ok := strings.Cut(clause, "=")
				if !ok {
					return fmt.Errorf("--has expects predicate=value, got %q", clause)
				}
				expr = expr.Has(selector.Predicate(pred), selector.Node(value))
			}
			if len(opts.tags) > 0 {
				expr = expr.Tag(selector.Tags(opts.tags...))
			}
			if opts.limit > 0 {
				expr = expr.GetLimit(opts.limit)
			} else {
				expr = expr.All()
			}

			client, err := newClient(opts)
			if err != nil {
				return err
			}
			nodes, err := client.Find(cmd.Context(), expr)
			if err != nil {
				return err
			}
			return printNodes(cmd, nodes)
		},
	}

	cmd.Flags().StringArrayVar(&opts.out, "out", nil, "follow outgoing edges by predicate (repeatable)")
	cmd.Flags().StringArrayVar(&opts.in, "in", nil, "follow incoming edges by predicate (repeatable)")
	cmd.Flags().StringArrayVar(&opts.has, "has", nil, "filter by predicate=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.tags, "tag", nil, "tag the final set (repeatable)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "bound the fetch to N results (0 fetches all)")
	return cmd
}

func newExecCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <wire-query-json>",
		Short: "Submit a raw wire query and print the decoded result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query wire.Query
			if err := json.Unmarshal([]byte(args[0]), &query); err != nil {
				return fmt.Errorf("parsing wire query: %w", err)
			}

			client, err := newClient(opts)
			if err != nil {
				return err
			}
			body, err := client.Execute(cmd.Context(), query)
			if err != nil {
				return err
			}
			nodes, err := graph.DecodeResponse(body)
			if err != nil {
				return err
			}
			return printNodes(cmd, nodes)
		},
	}
}

func newClient(opts *cliOptions) (*graph.Client, error) {
	cfg := config.DefaultConfig()
	if opts.configFile != "" {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.host != "" {
		cfg.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Port = opts.port
	}
	if opts.version != "" {
		cfg.Version = opts.version
	}
	if opts.timeout != 0 {
		cfg.RequestTimeout = opts.timeout
	}
	return graph.NewClient(cfg)
}

func startSelector(args []string) selector.NodeSelector {
	switch len(args) {
	case 0:
		return selector.AnyNode()
	case 1:
		return selector.Node(args[0])
	default:
		return selector.Nodes(args...)
	}
}

func predicateSelector(spec string) selector.PredicateSelector {
	if spec == "" || spec == "*" {
		return selector.AnyPredicate()
	}
	if names := strings.Split(spec, ","); len(names) > 1 {
		return selector.Predicates(names...)
	}
	return selector.Predicate(spec)
}

func printNodes(cmd *cobra.Command, nodes graph.NodeSet) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, node := range nodes {
		if err := enc.Encode(node); err != nil {
			return err
		}
	}
	slog.Debug("query finished", "results", len(nodes))
	return nil
}
