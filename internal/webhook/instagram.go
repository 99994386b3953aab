package webhook

import (
	"encoding/json"
	"fmt"

	"github.com/cebimedya/messaging-dashboard/internal/model"
)

// Wire shapes for the Instagram Messaging webhook
// (entry -> messaging -> sender/message).
type igEnvelope struct {
	Entry []struct {
		Messaging []igMessaging `json:"messaging"`
	} `json:"entry"`
}

type igMessaging struct {
	Sender struct {
		ID string `json:"id"`
	} `json:"sender"`
	Message struct {
		MID  string `json:"mid"`
		Text string `json:"text"`
	} `json:"message"`
}

// ParseInstagram extracts the first messaging event of an Instagram webhook
// delivery. Only text messages are supported; events without a sender id and
// text body return ErrInvalidPayload.
func ParseInstagram(data []byte) (*Inbound, error) {
	var envelope igEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	if len(envelope.Entry) == 0 || len(envelope.Entry[0].Messaging) == 0 {
		return nil, ErrInvalidPayload
	}
	event := envelope.Entry[0].Messaging[0]

	if event.Sender.ID == "" || event.Message.Text == "" {
		return nil, ErrInvalidPayload
	}

	return &Inbound{
		Platform:           model.PlatformInstagram,
		ProviderMessageID:  event.Message.MID,
		ContactName:        fmt.Sprintf("Instagram User %s", event.Sender.ID),
		ContactInstagramID: event.Sender.ID,
		Content:            event.Message.Text,
		MessageType:        model.MessageTypeText,
		Raw:                json.RawMessage(data),
	}, nil
}
