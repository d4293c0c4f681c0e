// Package strategy provides built-in rank strategy implementations.
//
// Rank strategies determine who is responsible for each occurrence of a
// shared recurring task. The package includes two built-in strategies:
//
//   - FairRotation: Rotation while completion counts are balanced, catch-up
//     ordering when they drift apart (recommended, the engine default)
//   - StrictRotation: Pure initial-order rotation regardless of counts
//
// # Strategy Selection Guide
//
// FairRotation:
//   - Use when completions may be skipped, reassigned, or rejected
//   - Keeps every user's completion count within 1 of the mean over time
//   - Tie-breaks by hybrid timestamp so recently active users yield to
//     users who have waited longest (absent timestamps win outright)
//
// StrictRotation:
//   - Use when the roster must be fully predictable
//   - The assignee of occurrence g is always users[(g-1) mod len(users)]
//   - Ignores completion counts entirely
//
// Custom strategies can be implemented by satisfying the types.RankStrategy
// interface. Implementations must be deterministic and stateless: identical
// inputs always yield identical output.
package strategy
