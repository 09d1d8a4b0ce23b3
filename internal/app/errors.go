package app

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat rejects an upload before any pipeline work begins.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtractionFailure means the format was recognized but parsing failed;
	// terminal for the upload attempt, nothing is retained.
	ErrExtractionFailure = errors.New("document text extraction failed")

	// ErrProviderUnavailable means the embedding or completion backend stayed
	// unreachable after retries; terminal for the current step only, the
	// uploaded document and its index remain intact.
	ErrProviderUnavailable = errors.New("model provider unavailable, please retry")

	// ErrStorageFailure means a chat-history read or write failed; it is never
	// reported as success and never corrupts the in-memory index.
	ErrStorageFailure = errors.New("chat history storage failed")

	// ErrNoActiveDocument means a question arrived before any successful upload
	// in this session.
	ErrNoActiveDocument = errors.New("no active document, upload one first")
)
