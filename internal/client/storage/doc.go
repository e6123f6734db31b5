// Package storage is the persistent key-value store behind the session
// manager: a single SQLite table of key → JSON value, created by embedded
// goose migrations.
//
// Reads of a missing key return (nil, nil). Multi-key writes that must be
// observed all-or-nothing go through Store.Update, which binds a fresh
// store to one transaction.
package storage
