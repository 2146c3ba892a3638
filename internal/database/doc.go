// Package database provides SQLite-based storage for crawl history.
//
// Every crawl run appends one record plus its discovered URL set, which
// the history subcommand reads to list past crawls and diff the URL
// sets of consecutive runs against the same host.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
