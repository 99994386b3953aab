// Package webhook translates Meta webhook payloads (WhatsApp Business API,
// Instagram Messaging API) into the dashboard's inbound message form. The
// payloads are loosely typed on the wire; parsing is defensive and anything
// that does not carry a deliverable message is rejected with a sentinel.
package webhook

import (
	"encoding/json"
	"errors"

	"github.com/cebimedya/messaging-dashboard/internal/model"
)

var (
	// ErrInvalidPayload indicates the delivery is missing the message or
	// sender fields the ingestion flow requires.
	ErrInvalidPayload = errors.New("invalid webhook payload")
	// ErrStatusOnly indicates a WhatsApp delivery that carries only status
	// callbacks and no messages. It is acknowledged and ignored.
	ErrStatusOnly = errors.New("status-only webhook payload")
)

// Inbound is one provider message normalized for ingestion.
type Inbound struct {
	Platform           model.Platform
	ProviderMessageID  string
	ContactName        string
	ContactPhoneNumber string
	ContactInstagramID string
	Content            string
	MessageType        string
	MediaURL           string
	Raw                json.RawMessage
}

// ContactKey returns the platform-specific contact identifier.
func (in *Inbound) ContactKey() string {
	return model.ContactKeyFor(in.Platform, in.ContactPhoneNumber, in.ContactInstagramID)
}
