package engine

import (
	"regexp"
	"strings"
)

var (
	replBlock   = regexp.MustCompile("(?s)```repl\\s*\\n(.*?)```")
	fencedBlock = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n(.*?)```")
)

// codeMarkers are tokens that distinguish an executable fragment from a
// fenced block that merely quotes text.
var codeMarkers = []string{"print(", "FINAL", "llm_query(", "findall(", "="}

// extractFragment pulls the code fragment out of a model response. A
// ```repl block wins; otherwise any fenced block containing executable
// tokens is taken. A response with no such block carries no code, and
// the caller treats the whole response as the final answer.
func extractFragment(response string) (string, bool) {
	if m := replBlock.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := fencedBlock.FindStringSubmatch(response); m != nil {
		body := strings.TrimSpace(m[1])
		for _, marker := range codeMarkers {
			if strings.Contains(body, marker) {
				return body, true
			}
		}
	}
	return "", false
}
