package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/seola0114/ux-writing-plugin/internal/classify"
	"github.com/seola0114/ux-writing-plugin/internal/config"
	"github.com/seola0114/ux-writing-plugin/internal/domain"
	"github.com/seola0114/ux-writing-plugin/internal/host"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
	"github.com/seola0114/ux-writing-plugin/internal/rules"
	"github.com/seola0114/ux-writing-plugin/internal/service"
)

// errLintFailed makes the process exit non-zero under --strict.
var errLintFailed = errors.New("lint failed")

type rootOptions struct {
	configFile string
	rulesDir   string
	strict     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "uxlint",
		Short:         "Lint modal and toast copy in a design node tree",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (defaults to ./config.yaml when present)")
	root.PersistentFlags().StringVar(&opts.rulesDir, "rules", "", "directory holding the rule tables (embedded tables when empty)")
	root.PersistentFlags().BoolVar(&opts.strict, "strict", false, "exit non-zero when the result severity is fail")

	root.AddCommand(newScanCmd(opts), newRecommendCmd(opts))
	return root
}

func newScanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <tree.json>",
		Short: "Print the scan result for the first selected container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := scanFile(cmd, opts, args[0])
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if opts.strict && res.Severity == domain.SeverityFail {
				return errLintFailed
			}
			return nil
		},
	}
}

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <tree.json>",
		Short: "Print the component recommendation and its rewritten copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := scanFile(cmd, opts, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res.Recommendation)
		},
	}
}

func scanFile(cmd *cobra.Command, opts *rootOptions, path string) (*service.ScanResult, error) {
	svc, err := newService(opts)
	if err != nil {
		return nil, err
	}
	snap, err := readSnapshot(path)
	if err != nil {
		return nil, err
	}
	doc := host.NewMemoryDocument(snap)
	res, err := svc.Scan(cmd.Context(), doc)
	if err != nil {
		for _, n := range doc.Notices() {
			fmt.Fprintln(cmd.ErrOrStderr(), n)
		}
		return nil, err
	}
	return res, nil
}

func newService(opts *rootOptions) (*service.Service, error) {
	cfg, err := config.LoadFile(opts.configFile)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	if opts.rulesDir != "" {
		cfg.Rules.Dir = opts.rulesDir
	}

	store := rules.NewStore(cfg.Rules.Source())
	if _, err := store.EnsureLoaded(); err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	classifier := classify.New(classify.Options{DangerRedNibbleMin: cfg.Classify.DangerRedNibbleMin})
	return service.New(store, classifier, nil, nil), nil
}

// readSnapshot accepts either a host snapshot ({"selection": [...]}) or a
// single root node.
func readSnapshot(path string) (host.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return host.Snapshot{}, fmt.Errorf("read tree: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return host.Snapshot{}, fmt.Errorf("parse tree %s: %w", path, err)
	}
	if _, ok := fields["selection"]; ok {
		var snap host.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return host.Snapshot{}, fmt.Errorf("parse snapshot %s: %w", path, err)
		}
		return snap, nil
	}

	var node domain.Node
	if err := json.Unmarshal(data, &node); err != nil {
		return host.Snapshot{}, fmt.Errorf("parse node %s: %w", path, err)
	}
	return host.Snapshot{Selection: []*domain.Node{&node}}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
