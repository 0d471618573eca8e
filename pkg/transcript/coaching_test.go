package transcript

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoachSpeakingRateInWindow(t *testing.T) {
	c := NewCoach()

	c.Observe("one two three four five", t0)
	m := c.Observe("six seven eight nine ten", t0.Add(5*time.Second))

	// 10 words inside the 10s window scale to 60 wpm.
	assert.InDelta(t, 60.0, m.WPM, 0.01)
}

func TestCoachExpiresOldSamples(t *testing.T) {
	c := NewCoach()

	c.Observe("one two three four five six seven eight nine ten", t0)
	m := c.Observe("fresh words here", t0.Add(15*time.Second))

	// Only the 3 fresh words remain in the window.
	assert.InDelta(t, 18.0, m.WPM, 0.01)
}

func TestCoachCountsFillers(t *testing.T) {
	c := NewCoach()

	m := c.Observe("um so we should, uh, actually ship it you know", t0)

	assert.Equal(t, 4, m.FillerTotal)
	assert.Contains(t, m.RecentFillers, "um")
	assert.Contains(t, m.RecentFillers, "uh")
	assert.Contains(t, m.RecentFillers, "actually")
	assert.Contains(t, m.RecentFillers, "you know")
}

func TestCoachFillersAreCumulative(t *testing.T) {
	c := NewCoach()

	c.Observe("um right", t0)
	m := c.Observe("uh okay", t0.Add(time.Second))

	assert.Equal(t, 2, m.FillerTotal)
}

func TestCoachInterimIsRetractedByNextObservation(t *testing.T) {
	c := NewCoach()

	c.ObserveInterim("um so I", t0)
	c.ObserveInterim("um so I think we", t0.Add(time.Second))
	m := c.Observe("um so I think we should ship", t0.Add(2*time.Second))

	// Growing hypotheses of one utterance count once.
	assert.Equal(t, 1, m.FillerTotal)
	assert.InDelta(t, 7*6.0, m.WPM, 0.01)
}

func TestCoachInterimFeedsMetricsImmediately(t *testing.T) {
	c := NewCoach()

	m := c.ObserveInterim("um so I", t0)

	assert.Equal(t, 1, m.FillerTotal)
	assert.InDelta(t, 3*6.0, m.WPM, 0.01)
}

func TestCoachInterimDoesNotRetractConfirmed(t *testing.T) {
	c := NewCoach()

	c.Observe("um right", t0)
	c.ObserveInterim("uh okay", t0.Add(time.Second))
	m := c.Observe("uh okay then", t0.Add(2*time.Second))

	assert.Equal(t, 2, m.FillerTotal)
}

func TestCoachRecentFillersCapped(t *testing.T) {
	c := NewCoach()

	m := c.Observe("um um um um um um um", t0)

	assert.Equal(t, 7, m.FillerTotal)
	assert.Len(t, m.RecentFillers, 5)
}

func TestCoachFillerWholeWordOnly(t *testing.T) {
	c := NewCoach()

	// "unlike" and "actually" share substrings with fillers but only
	// whole-word hits count.
	m := c.Observe("it is unlike the summary", t0)

	assert.Equal(t, 0, m.FillerTotal)
}

func TestIsQuestion(t *testing.T) {
	assert.True(t, IsQuestion("What went wrong last sprint?"))
	assert.True(t, IsQuestion("how does the retry queue work"))
	assert.True(t, IsQuestion("Can you walk me through the design"))
	assert.True(t, IsQuestion("tell me about your experience"))
	assert.False(t, IsQuestion("We shipped the release."))
	assert.False(t, IsQuestion("however it went fine"))
	assert.False(t, IsQuestion(""))
}

func TestDetectActionCandidates(t *testing.T) {
	candidates := DetectActionCandidates("alice", "Great meeting. I'll send the deck tomorrow. We need to fix staging.")

	assert.Len(t, candidates, 2)
	assert.Equal(t, "I'll send the deck tomorrow.", candidates[0].Text)
	assert.Equal(t, "i'll", candidates[0].Cue)
	assert.Equal(t, "we need to", candidates[1].Cue)
}

func TestDetectActionCandidatesNoCue(t *testing.T) {
	candidates := DetectActionCandidates("bob", "The weather was nice. Nothing else happened.")
	assert.Empty(t, candidates)
}

func TestDetectActionCandidatesCueIsWordBounded(t *testing.T) {
	// "willing" must not trigger the "i will" cue.
	candidates := DetectActionCandidates("bob", "I willingly agreed.")
	assert.Empty(t, candidates)
}
