package transcript

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestPipelineMergesSameSpeakerWithinWindow(t *testing.T) {
	p := NewPipeline()

	p.Push(Fragment{Speaker: "alice", Text: "we shipped the release", Final: true, At: t0})
	entry, merged := p.Push(Fragment{Speaker: "alice", Text: "last night", Final: true, At: t0.Add(2 * time.Second)})

	assert.True(t, merged)
	assert.Equal(t, "we shipped the release last night", entry.Text)
	assert.Len(t, p.Entries(), 1)
}

func TestPipelineSplitsAfterWindow(t *testing.T) {
	p := NewPipeline()

	p.Push(Fragment{Speaker: "alice", Text: "first thought", Final: true, At: t0})
	_, merged := p.Push(Fragment{Speaker: "alice", Text: "second thought", Final: true, At: t0.Add(10 * time.Second)})

	assert.False(t, merged)
	assert.Len(t, p.Entries(), 2)
}

func TestPipelineSpeakerChangeBreaksMerge(t *testing.T) {
	p := NewPipeline()

	p.Push(Fragment{Speaker: "alice", Text: "my update", Final: true, At: t0})
	_, merged := p.Push(Fragment{Speaker: "bob", Text: "my reply", Final: true, At: t0.Add(time.Second)})

	assert.False(t, merged)
	require.Len(t, p.Entries(), 2)
	assert.Equal(t, "bob", p.Entries()[1].Speaker)
}

func TestPipelineInterimReplacedNotAppended(t *testing.T) {
	p := NewPipeline()

	p.Push(Fragment{Speaker: "alice", Text: "we sh", Final: false, At: t0})
	p.Push(Fragment{Speaker: "alice", Text: "we shipped", Final: false, At: t0.Add(time.Second)})

	view := p.View()
	require.Len(t, view, 1)
	assert.Equal(t, "we shipped", view[0].Text)
	assert.Empty(t, p.Entries())
}

func TestPipelineFinalClearsInterim(t *testing.T) {
	p := NewPipeline()

	p.Push(Fragment{Speaker: "alice", Text: "we shi", Final: false, At: t0})
	p.Push(Fragment{Speaker: "alice", Text: "we shipped it", Final: true, At: t0.Add(time.Second)})

	view := p.View()
	require.Len(t, view, 1)
	assert.Equal(t, "we shipped it", view[0].Text)
	require.Len(t, p.Entries(), 1)
}

func TestPipelineBoundedView(t *testing.T) {
	p := NewPipelineWith(DefaultMergeWindow, 50)

	for i := 0; i < 60; i++ {
		// Alternate speakers so nothing merges.
		speaker := "alice"
		if i%2 == 1 {
			speaker = "bob"
		}
		p.Push(Fragment{Speaker: speaker, Text: fmt.Sprintf("line %d", i), Final: true, At: t0.Add(time.Duration(i) * time.Minute)})
	}

	entries := p.Entries()
	assert.Len(t, entries, 50)
	assert.Equal(t, "line 10", entries[0].Text)
	assert.Equal(t, 10, p.Dropped())
}

func TestPipelineIgnoresEmptyFragment(t *testing.T) {
	p := NewPipeline()
	entry, merged := p.Push(Fragment{Speaker: "alice", Text: "   ", Final: true, At: t0})
	assert.Nil(t, entry)
	assert.False(t, merged)
	assert.Empty(t, p.Entries())
}

func TestBufferShedsOldestInterimFirst(t *testing.T) {
	b := NewBuffer(3)

	b.Offer(Fragment{Text: "interim one", Final: false})
	b.Offer(Fragment{Text: "final one", Final: true})
	b.Offer(Fragment{Text: "interim two", Final: false})

	evicted := b.Offer(Fragment{Text: "final two", Final: true})
	assert.True(t, evicted)

	frags := b.Drain()
	require.Len(t, frags, 3)
	assert.Equal(t, "final one", frags[0].Text)
	assert.Equal(t, "interim two", frags[1].Text)
	assert.Equal(t, "final two", frags[2].Text)
	assert.Equal(t, 1, b.Dropped())
}

func TestBufferIncomingInterimLosesToQueuedFinals(t *testing.T) {
	b := NewBuffer(2)

	b.Offer(Fragment{Text: "final one", Final: true})
	b.Offer(Fragment{Text: "final two", Final: true})
	evicted := b.Offer(Fragment{Text: "interim", Final: false})

	assert.True(t, evicted)
	frags := b.Drain()
	require.Len(t, frags, 2)
	assert.Equal(t, "final one", frags[0].Text)
	assert.Equal(t, "final two", frags[1].Text)
}

func TestBufferFinalDisplacesOldestFinal(t *testing.T) {
	b := NewBuffer(2)

	b.Offer(Fragment{Text: "final one", Final: true})
	b.Offer(Fragment{Text: "final two", Final: true})
	b.Offer(Fragment{Text: "final three", Final: true})

	frags := b.Drain()
	require.Len(t, frags, 2)
	assert.Equal(t, "final two", frags[0].Text)
	assert.Equal(t, "final three", frags[1].Text)
}
