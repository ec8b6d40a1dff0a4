package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jaleel-zhu/crewAI/pkg/flow"
	"github.com/Jaleel-zhu/crewAI/pkg/flow/analysis"
	"github.com/Jaleel-zhu/crewAI/pkg/flow/viz"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flowgraph",
		Short: "flowgraph — workflow dependency-graph analyzer",
		Long: `Flowgraph analyzes the structural relationships between workflow steps
connected through trigger conditions: hierarchical levels, ancestor sets,
fan-out, and router-path edges inferred from step source.

Flow definitions are read from DOT (.dot) or YAML (.yaml/.yml) files.`,
	}
	root.AddCommand(inspectCmd())
	root.AddCommand(plotCmd())
	root.AddCommand(lintCmd())
	root.AddCommand(analyzeCmd())
	return root
}

// ─── inspect ──────────────────────────────────────────────────────────────────

func inspectCmd() *cobra.Command {
	var srcFile string

	cmd := &cobra.Command{
		Use:   "inspect <flow file>",
		Short: "Print a human-readable summary of a flow graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			reg, err := loadFlow(args[0])
			if err != nil {
				return err
			}
			if err := mergeInferredPaths(reg, srcFile); err != nil {
				return err
			}
			snap := reg.Snapshot()
			fmt.Print(renderText(flow.Analyze(snap), snap))
			return nil
		},
	}

	cmd.Flags().StringVar(&srcFile, "src", "", "Go source file to infer router path labels from")
	return cmd
}

// ─── plot ─────────────────────────────────────────────────────────────────────

func plotCmd() *cobra.Command {
	var (
		srcFile string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "plot <flow file>",
		Short: "Render a flow graph as a Graphviz DOT diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			reg, err := loadFlow(args[0])
			if err != nil {
				return err
			}
			if err := mergeInferredPaths(reg, srcFile); err != nil {
				return err
			}
			snap := reg.Snapshot()
			dot, err := viz.BuildDOT(flow.Analyze(snap), snap)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			if outPath == "" {
				fmt.Print(dot)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(dot), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&srcFile, "src", "", "Go source file to infer router path labels from")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write DOT output to file instead of stdout")
	return cmd
}

// ─── lint ─────────────────────────────────────────────────────────────────────

func lintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <flow file>",
		Short: "Validate a flow definition without analyzing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			reg, err := loadFlow(args[0])
			if err != nil {
				return err
			}
			errs := flow.Validate(reg.Snapshot())
			if len(errs) == 0 {
				fmt.Println("flow is valid")
				return nil
			}
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "  %v\n", e)
			}
			return fmt.Errorf("%d problem(s) found", len(errs))
		},
	}
	return cmd
}

// ─── analyze ──────────────────────────────────────────────────────────────────

func analyzeCmd() *cobra.Command {
	var funcName string

	cmd := &cobra.Command{
		Use:   "analyze <file.go>",
		Short: "Infer the literal return labels of router functions",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			results := analysis.New(nil).FileReturns(args[0])
			if funcName != "" {
				returns, ok := results[funcName]
				if !ok {
					fmt.Printf("%s: unknown\n", funcName)
					return nil
				}
				fmt.Printf("%s: %s\n", funcName, strings.Join(returns, ", "))
				return nil
			}
			names := make([]string, 0, len(results))
			for name := range results {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("%s: %s\n", name, strings.Join(results[name], ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&funcName, "func", "", "report a single function only")
	return cmd
}

// ─── helpers ──────────────────────────────────────────────────────────────────

// loadFlow reads a flow definition, choosing the loader by file extension.
func loadFlow(path string) (*flow.Registry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		reg, err := flow.ParseDOT(string(src))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return reg, nil
	case ".yaml", ".yml":
		reg, err := flow.LoadYAML(src)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return reg, nil
	default:
		return nil, fmt.Errorf("unknown flow file extension %q: use .dot or .yaml", filepath.Ext(path))
	}
}

// mergeInferredPaths runs literal-return inference over srcFile and extends
// every router step that declares no path labels with the labels inferred
// for its same-named function. Routers with nothing inferred stay unknown
// and contribute no edges.
func mergeInferredPaths(reg *flow.Registry, srcFile string) error {
	if srcFile == "" {
		return nil
	}
	if _, err := os.Stat(srcFile); err != nil {
		return fmt.Errorf("source file: %w", err)
	}
	results := analysis.New(nil).FileReturns(srcFile)
	snap := reg.Snapshot()
	for _, name := range snap.StepOrder {
		step := snap.Steps[name]
		if !step.Router || len(snap.RouterPaths[name]) > 0 {
			continue
		}
		if returns, ok := results[name]; ok {
			reg.AddRouter(name, returns...)
		}
	}
	return nil
}
