package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Answer string `json:"answer"`
	Score  int    `json:"score"`
}

func TestExtractJSONDirect(t *testing.T) {
	var p payload
	err := ExtractJSON(`{"answer":"yes","score":3}`, &p)
	require.NoError(t, err)
	assert.Equal(t, "yes", p.Answer)
	assert.Equal(t, 3, p.Score)
}

func TestExtractJSONFencedBlock(t *testing.T) {
	raw := "Sure, here is the result:\n```json\n{\"answer\":\"fenced\",\"score\":1}\n```\nLet me know if you need more."
	var p payload
	err := ExtractJSON(raw, &p)
	require.NoError(t, err)
	assert.Equal(t, "fenced", p.Answer)
}

func TestExtractJSONFenceWithoutLanguage(t *testing.T) {
	raw := "```\n{\"answer\":\"plain\",\"score\":2}\n```"
	var p payload
	err := ExtractJSON(raw, &p)
	require.NoError(t, err)
	assert.Equal(t, "plain", p.Answer)
}

func TestExtractJSONBraceFallback(t *testing.T) {
	raw := `The summary follows. {"answer":"braces","score":7} Hope that helps!`
	var p payload
	err := ExtractJSON(raw, &p)
	require.NoError(t, err)
	assert.Equal(t, "braces", p.Answer)
	assert.Equal(t, 7, p.Score)
}

func TestExtractJSONNoObject(t *testing.T) {
	var p payload
	err := ExtractJSON("I could not produce a summary for this meeting.", &p)
	assert.Error(t, err)
}
