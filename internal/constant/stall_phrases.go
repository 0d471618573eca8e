package constant

// StallPhrases are canned lines the client can voice while a suggestion is
// still generating. Served round-robin per connection.
var StallPhrases = []string{
	"That's a great question, let me think about that for a second.",
	"Let me gather my thoughts on that.",
	"Good point. Give me a moment to frame this properly.",
	"I want to make sure I answer that accurately, one moment.",
	"Interesting, let me walk through that.",
}
