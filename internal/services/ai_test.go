package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieluxury88/BotsTeam/internal/config"
)

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello", "hello"},
		{"json fence", "```json\n{\"a\": 1}\n```", "{\"a\": 1}"},
		{"markdown fence", "```markdown\n# Title\n```", "# Title"},
		{"bare fence", "```\ntext\n```", "text"},
		{"surrounding whitespace", "  \n```json\n[]\n```\n  ", "[]"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripCodeFences(tc.in))
		})
	}
}

func TestChatRequiresAPIKey(t *testing.T) {
	svc := NewAIService(&config.AnthropicConfig{
		Model:          "claude-test",
		TimeoutSeconds: 5,
		RetryCount:     1,
	})

	_, err := svc.Chat(context.Background(), "system", "user", 100, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}
