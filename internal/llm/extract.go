package llm

import "strings"

// ExtractJSON pulls a JSON payload out of a model response that may wrap it
// in markdown. It tries a ```json fence, then a plain ``` fence, then falls
// back to brace matching from the first { or [. The input is returned
// unchanged when nothing looks like JSON.
func ExtractJSON(s string) string {
	if body, ok := fencedBlock(s, "```json"); ok {
		return body
	}
	if body, ok := fencedBlock(s, "```"); ok {
		return body
	}

	for i := 0; i < len(s); i++ {
		if s[i] != '{' && s[i] != '[' {
			continue
		}
		depth := 0
		for j := i; j < len(s); j++ {
			switch s[j] {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
				if depth == 0 {
					return s[i : j+1]
				}
			}
		}
	}

	return s
}

// fencedBlock returns the content of the first code fence opened by marker.
func fencedBlock(s, marker string) (string, bool) {
	idx := strings.Index(s, marker)
	if idx == -1 {
		return "", false
	}
	start := idx + len(marker)
	for start < len(s) && (s[start] == '\n' || s[start] == '\r') {
		start++
	}
	end := strings.Index(s[start:], "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimRight(s[start:start+end], "\r\n"), true
}
