package transcript

import (
	"strings"
)

// actionCues mark sentences worth surfacing as action item candidates.
var actionCues = []string{
	"i will", "i'll", "let's", "action item", "we need to", "todo", "follow up",
}

// ActionCandidate is a sentence flagged as a possible commitment. Candidates
// are suggestions only, the summarizer decides what becomes a real action.
type ActionCandidate struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Cue     string `json:"cue"`
}

// DetectActionCandidates scans an utterance sentence by sentence and returns
// every sentence containing an action cue.
func DetectActionCandidates(speaker, text string) []ActionCandidate {
	var candidates []ActionCandidate
	for _, sentence := range splitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, cue := range actionCues {
			if containsCue(lower, cue) {
				candidates = append(candidates, ActionCandidate{
					Speaker: speaker,
					Text:    sentence,
					Cue:     cue,
				})
				break
			}
		}
	}
	return candidates
}

func containsCue(lower, cue string) bool {
	idx := strings.Index(lower, cue)
	for idx >= 0 {
		end := idx + len(cue)
		if boundaryBefore(lower, idx) && boundaryAfter(lower, end) {
			return true
		}
		next := strings.Index(lower[end:], cue)
		if next < 0 {
			return false
		}
		idx = end + next
	}
	return false
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
