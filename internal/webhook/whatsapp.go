package webhook

import (
	"encoding/json"
	"fmt"

	"github.com/cebimedya/messaging-dashboard/internal/model"
)

// Wire shapes for the WhatsApp Business API webhook
// (entry -> changes -> value -> messages/contacts/statuses).
type waEnvelope struct {
	Entry []struct {
		Changes []struct {
			Value waValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type waValue struct {
	Messages []waMessage       `json:"messages"`
	Contacts []waContact       `json:"contacts"`
	Statuses []json.RawMessage `json:"statuses"`
}

type waMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Image    *waMedia `json:"image"`
	Audio    *waMedia `json:"audio"`
	Video    *waMedia `json:"video"`
	Document *waMedia `json:"document"`
	Sticker  *waMedia `json:"sticker"`
}

type waMedia struct {
	ID       string `json:"id"`
	Caption  string `json:"caption"`
	MimeType string `json:"mime_type"`
}

type waContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

// ParseWhatsApp extracts the first message of a WhatsApp webhook delivery.
// Status-only callbacks return ErrStatusOnly; payloads without a usable
// message and contact return ErrInvalidPayload. Media URLs for image and
// audio messages are derived from mediaBaseURL and the provider media id.
func ParseWhatsApp(data []byte, mediaBaseURL string) (*Inbound, error) {
	var envelope waEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	if len(envelope.Entry) == 0 || len(envelope.Entry[0].Changes) == 0 {
		return nil, ErrInvalidPayload
	}
	value := envelope.Entry[0].Changes[0].Value

	if len(value.Messages) == 0 || len(value.Contacts) == 0 {
		if len(value.Statuses) > 0 {
			return nil, ErrStatusOnly
		}
		return nil, ErrInvalidPayload
	}

	message := value.Messages[0]
	contact := value.Contacts[0]

	if message.From == "" {
		return nil, ErrInvalidPayload
	}

	senderName := contact.Profile.Name
	if senderName == "" {
		senderName = message.From
	}

	in := &Inbound{
		Platform:           model.PlatformWhatsApp,
		ProviderMessageID:  message.ID,
		ContactName:        senderName,
		ContactPhoneNumber: message.From,
		Raw:                json.RawMessage(data),
	}

	switch message.Type {
	case model.MessageTypeText:
		if message.Text == nil {
			return nil, ErrInvalidPayload
		}
		in.Content = message.Text.Body
		in.MessageType = model.MessageTypeText
	case model.MessageTypeImage:
		in.MessageType = model.MessageTypeImage
		in.Content = "Image"
		if message.Image != nil {
			if message.Image.Caption != "" {
				in.Content = message.Image.Caption
			}
			in.MediaURL = fmt.Sprintf("%s/whatsapp_images/%s.jpg", mediaBaseURL, message.Image.ID)
		}
	case model.MessageTypeAudio:
		in.MessageType = model.MessageTypeAudio
		in.Content = "Audio message"
		if message.Audio != nil {
			in.MediaURL = fmt.Sprintf("%s/whatsapp_audio/%s.mp3", mediaBaseURL, message.Audio.ID)
		}
	default:
		in.MessageType = model.NormalizeMessageType(message.Type)
		in.Content = fmt.Sprintf("Unsupported message type: %s", message.Type)
	}

	return in, nil
}
