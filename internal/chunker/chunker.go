// Package chunker splits raw document text into overlapping fixed-size
// segments for embedding and retrieval.
package chunker

import "iter"

// Chunks returns a lazy sequence of substrings of at most size characters.
// Each subsequent chunk starts size-overlap characters after the previous
// chunk's start, so consecutive chunks share overlap characters. The sequence
// preserves input order, keeps trailing partial content, and is restartable:
// ranging over it twice yields identical chunks.
//
// Degenerate parameters are clamped: size < 1 becomes 1, overlap < 0 becomes
// 0, and overlap >= size is reduced to size-1 so the window always advances.
func Chunks(text string, size, overlap int) iter.Seq[string] {
	if size < 1 {
		size = 1
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}
	step := size - overlap

	// Windows advance over runes, not bytes, so multi-byte input never
	// splits mid-sequence.
	return func(yield func(string) bool) {
		runes := []rune(text)
		for start := 0; start < len(runes); start += step {
			end := start + size
			if end >= len(runes) {
				yield(string(runes[start:]))
				return
			}
			if !yield(string(runes[start:end])) {
				return
			}
		}
	}
}

// Split collects Chunks into a slice. Empty input yields no chunks.
func Split(text string, size, overlap int) []string {
	var chunks []string
	for c := range Chunks(text, size, overlap) {
		chunks = append(chunks, c)
	}
	return chunks
}
