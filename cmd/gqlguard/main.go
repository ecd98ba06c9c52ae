// gqlguard guards a GraphQL server against expensive queries.
//
// It runs as a reverse proxy that rejects queries going over the configured field, alias,
// depth and complexity limits before they reach the upstream server, or checks single
// queries from the command line.
//
// Usage:
//
//	# Start the gateway
//	gqlguard serve --config /etc/gqlguard/config.yaml
//
//	# Check a query file against the configured limits
//	gqlguard check --config config.yaml query.graphql
//
//	# Check a query from stdin and print the measures as JSON
//	cat query.graphql | gqlguard check --verbose
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
