package prompts

import "strings"

// templateVars is the closed set of placeholders the templates may carry.
// Translation between the local format ({var}, literal braces doubled) and
// the managed store's format ({{var}}, literal braces single) only rewrites
// these names, so arbitrary braces in prompt prose survive a round trip.
var templateVars = []string{
	"ticker",
	"analysis_data",
	"facts",
	"confidence",
	"signals",
	"allowed",
	"context",
	"company_context_block",
}

const (
	openSentinel  = "\x00"
	closeSentinel = "\x01"
)

// ToRemoteContent converts local template content to the managed store's
// placeholder format.
func ToRemoteContent(local string) string {
	s := strings.ReplaceAll(local, "{{", openSentinel)
	s = strings.ReplaceAll(s, "}}", closeSentinel)
	for _, v := range templateVars {
		s = strings.ReplaceAll(s, "{"+v+"}", "{{"+v+"}}")
	}
	s = strings.ReplaceAll(s, openSentinel, "{")
	s = strings.ReplaceAll(s, closeSentinel, "}")
	return s
}

// ToLocalContent converts managed-store content to the local template format.
func ToLocalContent(remote string) string {
	s := remote
	for _, v := range templateVars {
		s = strings.ReplaceAll(s, "{{"+v+"}}", openSentinel+v+closeSentinel)
	}
	s = strings.ReplaceAll(s, "{", "{{")
	s = strings.ReplaceAll(s, "}", "}}")
	for _, v := range templateVars {
		s = strings.ReplaceAll(s, openSentinel+v+closeSentinel, "{"+v+"}")
	}
	return s
}

// MessagesEqual reports whether two templates are identical: same length and
// pairwise-equal roles and contents. Equality is deliberately strict, so a
// whitespace change counts as a difference and triggers a push.
func MessagesEqual(a, b []Message) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Role != b[i].Role || a[i].Content != b[i].Content {
			return false
		}
	}
	return true
}
