package main

import (
	"github.com/spf13/cobra"

	"github.com/graph-gophers/graphql-guard/config"
)

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gqlguard",
		Short: "Query complexity guard for GraphQL servers",
		Long: `gqlguard rejects GraphQL queries that go over the configured limits: the number of
fields, the number of aliases, the nesting depth and the complexity of each operation.
Introspection queries can be refused as well.

Configuration is read from a YAML file and can be overridden with GQLGUARD_* environment
variables, e.g. GQLGUARD_LIMITS_QUERY_DEPTH=10.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file path (defaults are used when empty)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))
	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	return config.LoadWithEnvOverrides(o.configFile)
}
