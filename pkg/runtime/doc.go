// Package runtime evaluates syntax trees. A Session walks one tree against
// one root context, resolving names through the scope stacks, invoking
// helpers, partials and decorators from an Environment, and accumulating
// the rendered text.
package runtime
