// Package store owns the database connection and entity persistence.
//
// Two engines are supported through database/sql: SQLite (mattn/go-sqlite3,
// the default) and PostgreSQL (pgx stdlib). The schema lives in embedded
// goose migrations, one directory per dialect, applied by Open.
//
// # Identity
//
// Identities are assigned by the database on insert (RETURNING) and copied
// back onto the entity. Saving an entity with an assigned ID updates it in
// place; an ID that no longer exists yields ErrUnknownID.
//
// # Text
//
// Names are stored in Unicode NFC, so canonically equivalent spellings
// compare equal in filters.
//
// # Database Configuration (SQLite)
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - A single connection: SQLite allows one writer
//
// Reads go through Query, which the fetch package uses to run compiled
// queries.
package store
