// Package store is the single write path to Postgres. Every multi-statement
// write runs inside one transaction with bounded retry on transient
// conflicts, and every write is idempotent: replaying the same input leaves
// the database in the same logical state.
//
// Aggregation inputs are read through repeatable-read snapshot transactions
// so a bucket, its novelty lookback, and its velocity baseline are always
// mutually consistent.
package store
