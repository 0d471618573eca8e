package transcript

import (
	"strings"
	"time"
)

// Fragment is a single recognizer emission. Interim fragments are provisional
// and may be replaced, final fragments are durable.
type Fragment struct {
	Speaker string
	Text    string
	Final   bool
	At      time.Time
}

// Entry is a merged line in the live view. Consecutive final fragments from
// the same speaker inside the merge window collapse into one entry.
type Entry struct {
	Speaker   string
	Text      string
	StartedAt time.Time
	UpdatedAt time.Time
}

const (
	// DefaultMergeWindow is how long a speaker's entry stays open for
	// appending further fragments.
	DefaultMergeWindow = 5 * time.Second

	// DefaultMaxEntries bounds the live view, older entries fall off.
	DefaultMaxEntries = 50
)

// Pipeline folds recognizer fragments into a bounded live transcript view.
// Not safe for concurrent use, callers serialize through the session loop.
type Pipeline struct {
	mergeWindow time.Duration
	maxEntries  int

	entries []*Entry
	interim *Entry // at most one provisional line, always rendered last
	dropped int    // entries pushed out of the bounded view
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		mergeWindow: DefaultMergeWindow,
		maxEntries:  DefaultMaxEntries,
	}
}

func NewPipelineWith(mergeWindow time.Duration, maxEntries int) *Pipeline {
	if mergeWindow <= 0 {
		mergeWindow = DefaultMergeWindow
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Pipeline{
		mergeWindow: mergeWindow,
		maxEntries:  maxEntries,
	}
}

// Push processes one fragment. It returns the entry the fragment landed in
// and whether the fragment extended an existing entry rather than opening a
// new one.
func (p *Pipeline) Push(frag Fragment) (entry *Entry, merged bool) {
	text := strings.TrimSpace(frag.Text)
	if text == "" {
		return nil, false
	}

	if !frag.Final {
		// A newer interim always replaces the previous one, the
		// recognizer refines its guess rather than appending.
		p.interim = &Entry{
			Speaker:   frag.Speaker,
			Text:      text,
			StartedAt: frag.At,
			UpdatedAt: frag.At,
		}
		return p.interim, false
	}

	// A final fragment supersedes whatever provisional line was showing.
	p.interim = nil

	last := p.lastEntry()
	if last != nil && last.Speaker == frag.Speaker && frag.At.Sub(last.UpdatedAt) <= p.mergeWindow {
		last.Text = last.Text + " " + text
		last.UpdatedAt = frag.At
		return last, true
	}

	entry = &Entry{
		Speaker:   frag.Speaker,
		Text:      text,
		StartedAt: frag.At,
		UpdatedAt: frag.At,
	}
	p.entries = append(p.entries, entry)
	if len(p.entries) > p.maxEntries {
		over := len(p.entries) - p.maxEntries
		p.entries = p.entries[over:]
		p.dropped += over
	}
	return entry, false
}

func (p *Pipeline) lastEntry() *Entry {
	if len(p.entries) == 0 {
		return nil
	}
	return p.entries[len(p.entries)-1]
}

// View returns the current live entries, provisional line last.
func (p *Pipeline) View() []*Entry {
	view := make([]*Entry, 0, len(p.entries)+1)
	view = append(view, p.entries...)
	if p.interim != nil {
		view = append(view, p.interim)
	}
	return view
}

// Entries returns only the durable entries.
func (p *Pipeline) Entries() []*Entry {
	out := make([]*Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Dropped reports how many durable entries have aged out of the view.
func (p *Pipeline) Dropped() int {
	return p.dropped
}

// FullText concatenates the durable entries, speaker-tagged, newest last.
func (p *Pipeline) FullText() string {
	var sb strings.Builder
	for i, e := range p.entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.Speaker)
		sb.WriteString(": ")
		sb.WriteString(e.Text)
	}
	return sb.String()
}
