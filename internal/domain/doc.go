// Package domain contains the core entities and value objects for ddhremover.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (file system, logging, CLI) and
// contains only the data model and its invariants.
//
// # Entities
//
//   - [DuplicateGroup]: one group of paths from a duplicate report
//   - [RetentionPolicy]: how many duplicates to keep and where removed files go
//   - [WorkItem]: the removal set resolved for a single eligible group
//   - [PathResult] and [GroupResult]: the outcome of disposing a group
//   - [RunReport]: the persisted summary of a whole run
//
// # Design Principles
//
// Domain values are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Testable without mocks or external systems
package domain
