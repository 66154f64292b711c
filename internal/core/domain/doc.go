// Package domain defines the core business entities for the asset migrator.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Asset: One row of the local signage catalog
//   - AuthRequest: The credentials a migration run authenticates with
//   - Session: State owned by a single migration run
//   - RetryPolicy: Bounded, fixed-interval polling
//   - MigrationReport: The per-asset outcome of a run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
