package badger

// NewMemoryRepository creates an in-memory item repository for testing.
// Closing the repository also closes its backend.
func NewMemoryRepository() (*ItemRepository, error) {
	return OpenInMemory(nil)
}
