// Package ingest implements the Identity & Dedup Resolver and the per-article
// ingestion pipeline.
//
// The pipeline:
//   - Validates inbound payloads (url and published_at required, UTC normalized)
//   - Computes the content fingerprint (SHA-1 of title+host, or full text)
//   - Upserts by canonical URL: one identifier per URL, stable across retries
//   - Resolves and replaces ticker links, stores the article embedding
//
// Concurrent first-inserts of the same URL are resolved by the store's upsert;
// the ingestor never creates two identifiers for one URL.
package ingest
