package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScriptBareJSON(t *testing.T) {
	script, err := ParseScript(`{"title":"Tiny hops","description":"A newborn goat discovers hopping.","prompt":"Handheld smartphone video of a newborn goat.","hashtags":"#goats #cute"}`)
	require.NoError(t, err)
	assert.Equal(t, "Tiny hops", script.Title)
	assert.Equal(t, "A newborn goat discovers hopping. #goats #cute", script.PostContent())
}

func TestParseScriptFencedReply(t *testing.T) {
	content := "Here is your script:\n```json\n{\"title\":\"Tiny hops\",\"description\":\"d\",\"prompt\":\"p\",\"hashtags\":\"#x\"}\n```\nEnjoy!"

	script, err := ParseScript(content)
	require.NoError(t, err)
	assert.Equal(t, "Tiny hops", script.Title)
	assert.Equal(t, "p", script.Prompt)
}

func TestParseScriptNoJSON(t *testing.T) {
	_, err := ParseScript("Sorry, I cannot help with that.")
	require.Error(t, err)
}

func TestParseScriptMissingFields(t *testing.T) {
	_, err := ParseScript(`{"description":"d","hashtags":"#x"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing title or prompt")
}
