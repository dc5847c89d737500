// Package application aggregates component classes under a root component,
// owns the alias and flag tables for one process run, and exposes the
// resolution, access and help surfaces used by the host program.
package application
