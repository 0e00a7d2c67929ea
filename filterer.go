package skitter

// Filterer decides whether a discovered URL should be crawled.
type Filterer interface {
	// Process returns the URL unchanged and true if every registered filter
	// passes, or false to signal rejection.
	Process(u URL) (URL, bool)
}
