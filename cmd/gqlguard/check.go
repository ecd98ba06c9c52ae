package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	guard "github.com/graph-gophers/graphql-guard"
	"github.com/graph-gophers/graphql-guard/validation"
)

var errRejected = stderrors.New("query rejected")

type checkOptions struct {
	operationName string
	variables     string
	verbose       bool
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Check a query against the configured limits",
		Long: `Check reads a GraphQL query from file, or from stdin when no file is given, and runs
the same checks as the gateway. It exits with a non-zero status when the query is rejected.

Examples:
  # Check a query file
  gqlguard check query.graphql

  # Check one operation of a document with variables
  gqlguard check --operation GetProducts --variables '{"first": 50}' products.graphql

  # Print field count, alias count, depth and complexity as JSON
  gqlguard check --verbose < query.graphql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, root, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.operationName, "operation", "", "operation to check")
	cmd.Flags().StringVar(&opts.variables, "variables", "", "operation variables as a JSON object")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "print the full report as JSON")
	return cmd
}

func runCheck(cmd *cobra.Command, root *rootOptions, opts *checkOptions, args []string) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}

	query, err := readQuery(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	req := guard.Request{Query: query, OperationName: opts.operationName}
	if opts.variables != "" {
		if err := json.Unmarshal([]byte(opts.variables), &req.Variables); err != nil {
			return fmt.Errorf("invalid --variables: %w", err)
		}
	}

	limiter, err := guard.New(cfg.Limits, guard.QueryParser{}, validation.NewRuleSet())
	if err != nil {
		return err
	}
	report := limiter.Report(cmd.Context(), req)

	out := cmd.OutOrStdout()
	if opts.verbose {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else if len(report.Errors) == 0 {
		fmt.Fprintf(out, "ok: %d fields, %d aliases\n", report.FieldCount, report.AliasCount)
	}

	if len(report.Errors) == 0 {
		return nil
	}
	if !opts.verbose {
		for _, qErr := range report.Errors {
			if len(qErr.Locations) > 0 {
				loc := qErr.Locations[0]
				fmt.Fprintf(out, "%d:%d: ", loc.Line, loc.Column)
			}
			if qErr.Rule != "" {
				fmt.Fprintf(out, "[%s] ", qErr.Rule)
			}
			fmt.Fprintln(out, qErr.Message)
		}
	}
	return errRejected
}

func readQuery(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading query: %w", err)
	}
	return string(data), nil
}
