package skitter

// LinkExtractor extracts outbound links from a document body.
// The returned strings are raw: unparsed, unresolved, and unfiltered.
// Resolution against the base URL and filtering happen in the scheduler.
type LinkExtractor interface {
	ExtractLinks(baseURL, body string) ([]string, error)
}
