package port

type KeyValue interface {
	// Get returns the blob stored under key, if any.
	Get(key string) ([]byte, bool)

	// Set stores the blob under key. Best effort: failures are logged by
	// the implementation, never surfaced to the caller.
	Set(key string, value []byte)
}
