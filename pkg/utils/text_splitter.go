package utils

import "unicode"

// SplitText splits a long string into chunks of approximately 'chunkSize' characters
// with an 'overlap' to preserve context at boundaries. When a chunk would cut a word
// in half, the boundary is pulled back to the nearest whitespace within a small
// window. This is a character-based splitter, not a tokenizer-aware one.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	if overlap < 0 || overlap >= chunkSize {
		overlap = 0 // fallback for degenerate overlap
	}

	// The next chunk starts relative to the ADJUSTED end of the current one, so
	// a whitespace back-off can never open a gap of uncovered runes.
	for i := 0; i < totalLen; {
		end := i + chunkSize
		if end >= totalLen {
			chunks = append(chunks, string(runes[i:totalLen]))
			break
		}
		end = backoffToBoundary(runes, i, end)

		chunks = append(chunks, string(runes[i:end]))

		next := end - overlap
		if next <= i {
			next = end
		}
		i = next
	}

	return chunks
}

// backoffToBoundary moves 'end' back to the nearest whitespace, searching at most
// 64 runes. If no whitespace is found the original cut point is kept rather than
// losing data.
func backoffToBoundary(runes []rune, start, end int) int {
	limit := end - 64
	if limit < start+1 {
		limit = start + 1
	}
	for i := end; i > limit; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}
