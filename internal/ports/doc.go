// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [FileSystem]: removes and moves the files selected for disposition
//   - [ReportSource]: supplies the duplicate groups of one report
//   - [RunJournal]: persists the report of a finished run
//   - [Logger]: structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) and the disposer depend only on these
// interfaces. Infrastructure adapters (internal/adapters) implement them with
// the operating system, encoding/json, zerolog and so on.
package ports
