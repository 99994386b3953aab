package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cebimedya/messaging-dashboard/internal/model"
)

const testMediaBase = "https://media.example.com"

func TestParseWhatsApp_TextMessage(t *testing.T) {
	payload := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"contacts": [{"wa_id": "905551112233", "profile": {"name": "Ali Veli"}}],
					"messages": [{
						"id": "wamid.HBgLOTA1NTUxMTEyMjMz",
						"from": "905551112233",
						"type": "text",
						"text": {"body": "merhaba"}
					}]
				}
			}]
		}]
	}`)

	in, err := ParseWhatsApp(payload, testMediaBase)
	require.NoError(t, err)

	assert.Equal(t, model.PlatformWhatsApp, in.Platform)
	assert.Equal(t, "wamid.HBgLOTA1NTUxMTEyMjMz", in.ProviderMessageID)
	assert.Equal(t, "Ali Veli", in.ContactName)
	assert.Equal(t, "905551112233", in.ContactPhoneNumber)
	assert.Equal(t, "905551112233", in.ContactKey())
	assert.Equal(t, "merhaba", in.Content)
	assert.Equal(t, model.MessageTypeText, in.MessageType)
	assert.Empty(t, in.MediaURL)
	assert.JSONEq(t, string(payload), string(in.Raw))
}

func TestParseWhatsApp_NamelessContactFallsBackToPhone(t *testing.T) {
	payload := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"contacts": [{"wa_id": "905551112233", "profile": {}}],
					"messages": [{"id": "wamid.x", "from": "905551112233", "type": "text", "text": {"body": "hi"}}]
				}
			}]
		}]
	}`)

	in, err := ParseWhatsApp(payload, testMediaBase)
	require.NoError(t, err)
	assert.Equal(t, "905551112233", in.ContactName)
}

func TestParseWhatsApp_ImageWithCaption(t *testing.T) {
	payload := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"contacts": [{"wa_id": "905551112233", "profile": {"name": "Ali"}}],
					"messages": [{
						"id": "wamid.img",
						"from": "905551112233",
						"type": "image",
						"image": {"id": "media-123", "caption": "tatil", "mime_type": "image/jpeg"}
					}]
				}
			}]
		}]
	}`)

	in, err := ParseWhatsApp(payload, testMediaBase)
	require.NoError(t, err)

	assert.Equal(t, model.MessageTypeImage, in.MessageType)
	assert.Equal(t, "tatil", in.Content)
	assert.Equal(t, testMediaBase+"/whatsapp_images/media-123.jpg", in.MediaURL)
}

func TestParseWhatsApp_ImageWithoutCaption(t *testing.T) {
	payload := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"contacts": [{"wa_id": "905551112233", "profile": {"name": "Ali"}}],
					"messages": [{
						"id": "wamid.img2",
						"from": "905551112233",
						"type": "image",
						"image": {"id": "media-456"}
					}]
				}
			}]
		}]
	}`)

	in, err := ParseWhatsApp(payload, testMediaBase)
	require.NoError(t, err)
	assert.Equal(t, "Image", in.Content)
}

func TestParseWhatsApp_Audio(t *testing.T) {
	payload := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"contacts": [{"wa_id": "905551112233", "profile": {"name": "Ali"}}],
					"messages": [{
						"id": "wamid.aud",
						"from": "905551112233",
						"type": "audio",
						"audio": {"id": "media-789", "mime_type": "audio/ogg"}
					}]
				}
			}]
		}]
	}`)

	in, err := ParseWhatsApp(payload, testMediaBase)
	require.NoError(t, err)

	assert.Equal(t, model.MessageTypeAudio, in.MessageType)
	assert.Equal(t, "Audio message", in.Content)
	assert.Equal(t, testMediaBase+"/whatsapp_audio/media-789.mp3", in.MediaURL)
}

func TestParseWhatsApp_UnsupportedType(t *testing.T) {
	payload := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"contacts": [{"wa_id": "905551112233", "profile": {"name": "Ali"}}],
					"messages": [{"id": "wamid.loc", "from": "905551112233", "type": "location"}]
				}
			}]
		}]
	}`)

	in, err := ParseWhatsApp(payload, testMediaBase)
	require.NoError(t, err)

	assert.Equal(t, model.MessageTypeUnknown, in.MessageType)
	assert.Equal(t, "Unsupported message type: location", in.Content)
}

func TestParseWhatsApp_StatusOnly(t *testing.T) {
	payload := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"statuses": [{"id": "wamid.x", "status": "delivered", "recipient_id": "905551112233"}]
				}
			}]
		}]
	}`)

	in, err := ParseWhatsApp(payload, testMediaBase)
	assert.Nil(t, in)
	assert.ErrorIs(t, err, ErrStatusOnly)
}

func TestParseWhatsApp_InvalidPayloads(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
	}{
		{"not json", `{{`},
		{"empty object", `{}`},
		{"empty entry", `{"entry": []}`},
		{"no changes", `{"entry": [{}]}`},
		{"no messages or statuses", `{"entry": [{"changes": [{"value": {}}]}]}`},
		{"message without contact", `{"entry": [{"changes": [{"value": {"messages": [{"id": "x", "from": "1", "type": "text", "text": {"body": "hi"}}]}}]}]}`},
		{"missing sender", `{"entry": [{"changes": [{"value": {"contacts": [{"wa_id": "1"}], "messages": [{"id": "x", "type": "text", "text": {"body": "hi"}}]}}]}]}`},
		{"text without body", `{"entry": [{"changes": [{"value": {"contacts": [{"wa_id": "1"}], "messages": [{"id": "x", "from": "1", "type": "text"}]}}]}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := ParseWhatsApp([]byte(tc.payload), testMediaBase)
			assert.Nil(t, in)
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}
