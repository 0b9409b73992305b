// Package storage provides the storage abstraction for work items.
//
// The ItemRepository interface decouples the placement and search packages
// from the persistence engine. A repository is a hierarchy.Relations graph,
// a vector.Index and a search corpus at once, so a single instance can back
// every core component:
//
//	repo, err := badger.Open("/path/to/db", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// Use in tests with in-memory storage:
//
//	repo, err := badger.NewMemoryRepository()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
