// Package refdata maintains the in-memory ticker reference set used for
// symbol resolution. The set is loaded from the database at startup and
// reconciled periodically in the background.
package refdata
