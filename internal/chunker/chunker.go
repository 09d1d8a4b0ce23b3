// Package chunker splits extracted text into overlapping fixed-size segments.
package chunker

const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 100
)

// Split cuts text into chunks of at most size runes, each sharing overlap
// runes with its successor. The split is deterministic and lossless: dropping
// the first overlap runes of every chunk after the first reassembles the
// input exactly. Empty text yields no chunks.
func Split(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}

	runes := []rune(text)
	step := size - overlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
