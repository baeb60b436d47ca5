// Package intent classifies free-text command-bar input into one of four
// routing categories. Classification is a pure function over the input
// string; rules are evaluated in order and the first match wins.
package intent

import (
	"regexp"
	"strings"
)

// Type is the routing category of a piece of user input.
type Type string

const (
	// Navigation routes the input to a page or view.
	Navigation Type = "navigation"
	// Action triggers a command such as creating an RFQ.
	Action Type = "action"
	// Search runs a catalog/entity search. Default for short input.
	Search Type = "search"
	// Conversation sends the input to the assistant.
	Conversation Type = "conversation"
)

var (
	actionRe   = regexp.MustCompile(`^(create|add|new|export|import)\b`)
	questionRe = regexp.MustCompile(`^(who|what|why|how|when|where|which|can|should|is there|do we|tell me)\b`)
)

// conversationMinLen is the input length at which free text is assumed to be
// addressed to the assistant rather than the search box.
const conversationMinLen = 60

// Classify maps input text to its Type. Deterministic and side-effect free;
// empty input falls through every rule to Search.
func Classify(text string) Type {
	t := strings.ToLower(strings.TrimSpace(text))

	if strings.HasPrefix(t, "/") || strings.HasPrefix(t, "go to") || strings.HasPrefix(t, "open") {
		return Navigation
	}
	if actionRe.MatchString(t) {
		return Action
	}
	if len(t) >= conversationMinLen || questionRe.MatchString(t) || strings.Contains(t, "?") {
		return Conversation
	}
	return Search
}
