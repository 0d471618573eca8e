package transcript

import (
	"strings"
	"time"
	"unicode"
)

// FillerWords are the disfluencies tracked by the coach. Multi-word phrases
// are matched across word boundaries.
var FillerWords = []string{"um", "uh", "hmm", "like", "you know", "actually"}

var questionStarters = []string{
	"who", "what", "where", "when", "why", "how",
	"can you", "could you", "tell me",
}

const speakingRateWindow = 10 * time.Second

// Metrics is the coaching snapshot emitted alongside transcript updates.
type Metrics struct {
	WPM           float64  `json:"wpm"`
	FillerTotal   int      `json:"filler_total"`
	RecentFillers []string `json:"recent_fillers"`
}

type wordSample struct {
	at    time.Time
	words int
}

// Coach tracks speaking rate and disfluencies for the user's own speech.
// Rate is computed over a sliding window so the number reacts to the last
// few sentences, not the whole meeting. Interim hypotheses contribute
// provisionally: each new observation of the same utterance retracts the
// previous interim's contribution first, so a growing hypothesis and its
// confirming final count once.
type Coach struct {
	samples       []wordSample
	fillerTotal   int
	recentFillers []string

	// Trailing contributions of the last interim, retracted on the next
	// observation.
	provisionalSamples int
	provisionalFillers int
}

func NewCoach() *Coach {
	return &Coach{}
}

// Observe ingests one final utterance and returns the updated metrics.
func (c *Coach) Observe(text string, at time.Time) Metrics {
	c.retractProvisional()
	c.apply(text, at, false)
	return c.Snapshot()
}

// ObserveInterim ingests a provisional hypothesis. Its contribution is
// replaced by the next observation, interim or final.
func (c *Coach) ObserveInterim(text string, at time.Time) Metrics {
	c.retractProvisional()
	c.apply(text, at, true)
	return c.Snapshot()
}

func (c *Coach) retractProvisional() {
	if c.provisionalSamples > 0 {
		c.samples = c.samples[:len(c.samples)-c.provisionalSamples]
	}
	if c.provisionalFillers > 0 {
		c.fillerTotal -= c.provisionalFillers
		c.recentFillers = c.recentFillers[:len(c.recentFillers)-c.provisionalFillers]
	}
	c.provisionalSamples = 0
	c.provisionalFillers = 0
}

func (c *Coach) apply(text string, at time.Time, provisional bool) {
	words := countWords(text)
	if words > 0 {
		c.samples = append(c.samples, wordSample{at: at, words: words})
		if provisional {
			c.provisionalSamples = 1
		}
	}

	// Expire samples older than the window.
	cutoff := at.Add(-speakingRateWindow)
	for len(c.samples) > 0 && c.samples[0].at.Before(cutoff) {
		c.samples = c.samples[1:]
	}

	for _, filler := range FillerWords {
		n := countOccurrences(text, filler)
		c.fillerTotal += n
		for i := 0; i < n; i++ {
			c.recentFillers = append(c.recentFillers, filler)
		}
		if provisional {
			c.provisionalFillers += n
		}
	}
	// The stored list is trimmed only once the contribution is confirmed,
	// so a pending interim's entries stay retractable.
	if !provisional && len(c.recentFillers) > 5 {
		c.recentFillers = c.recentFillers[len(c.recentFillers)-5:]
	}
}

func (c *Coach) Snapshot() Metrics {
	windowWords := 0
	for _, s := range c.samples {
		windowWords += s.words
	}

	// A 10 second window scales to a per-minute rate by a factor of 6.
	wpm := float64(windowWords) * (60 / speakingRateWindow.Seconds())

	recent := c.recentFillers
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	out := make([]string, len(recent))
	copy(out, recent)

	return Metrics{
		WPM:           wpm,
		FillerTotal:   c.fillerTotal,
		RecentFillers: out,
	}
}

// IsQuestion reports whether an utterance reads as a question, either by a
// trailing question mark or a typical interrogative opener.
func IsQuestion(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if strings.HasSuffix(trimmed, "?") {
		return true
	}

	lower := strings.ToLower(trimmed)
	for _, starter := range questionStarters {
		if lower == starter || strings.HasPrefix(lower, starter+" ") {
			return true
		}
	}
	return false
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

// countOccurrences counts whole-word (or whole-phrase) occurrences of needle
// in text, case-insensitive.
func countOccurrences(text, needle string) int {
	lower := strings.ToLower(text)
	count := 0
	start := 0
	for {
		idx := strings.Index(lower[start:], needle)
		if idx < 0 {
			break
		}
		abs := start + idx
		end := abs + len(needle)
		if boundaryBefore(lower, abs) && boundaryAfter(lower, end) {
			count++
		}
		start = end
	}
	return count
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	return !isWordRune(rune(s[i-1]))
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	return !isWordRune(rune(s[i]))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\''
}
