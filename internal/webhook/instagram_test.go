package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cebimedya/messaging-dashboard/internal/model"
)

func TestParseInstagram_TextMessage(t *testing.T) {
	payload := []byte(`{
		"entry": [{
			"messaging": [{
				"sender": {"id": "17841400000001"},
				"recipient": {"id": "17841400000099"},
				"message": {"mid": "mid.abc123", "text": "selam"}
			}]
		}]
	}`)

	in, err := ParseInstagram(payload)
	require.NoError(t, err)

	assert.Equal(t, model.PlatformInstagram, in.Platform)
	assert.Equal(t, "mid.abc123", in.ProviderMessageID)
	assert.Equal(t, "Instagram User 17841400000001", in.ContactName)
	assert.Equal(t, "17841400000001", in.ContactInstagramID)
	assert.Equal(t, "17841400000001", in.ContactKey())
	assert.Equal(t, "selam", in.Content)
	assert.Equal(t, model.MessageTypeText, in.MessageType)
}

func TestParseInstagram_InvalidPayloads(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
	}{
		{"not json", `]`},
		{"empty object", `{}`},
		{"empty entry", `{"entry": []}`},
		{"no messaging", `{"entry": [{}]}`},
		{"missing sender", `{"entry": [{"messaging": [{"message": {"mid": "m", "text": "hi"}}]}]}`},
		{"missing text", `{"entry": [{"messaging": [{"sender": {"id": "1"}, "message": {"mid": "m"}}]}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := ParseInstagram([]byte(tc.payload))
			assert.Nil(t, in)
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}
