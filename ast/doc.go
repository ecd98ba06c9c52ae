/*
Package ast represents executable GraphQL documents (operations and fragments) in code.

The names of the Go types, whenever possible, match 1:1 with the names from
the [GraphQL specification]. Nodes are immutable once produced by the parser and
can be traversed with [Walk] or [Inspect].

[GraphQL specification]: https://spec.graphql.org
*/
package ast
