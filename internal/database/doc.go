// Package database provides connection pool management for the Market Pulse
// PostgreSQL/TimescaleDB instance.
//
// One database holds everything: relational data (article, ticker,
// article_ticker) and time-series data (signal, price_bar) as hypertables,
// with pgvector for article embeddings.
package database
