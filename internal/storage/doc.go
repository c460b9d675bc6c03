// Package storage provides the persistence backends used by the news stores.
//
// It currently supports:
//   - A document store (collections of JSON documents) acting as the remote
//     backend. Drivers: "sqlite" (modernc, pure Go) and "memory".
//   - A local fallback key/value store holding serialized values under fixed
//     keys. Drivers: "file" (single JSON object on disk) and "memory".
package storage
