package httpapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/internal/webhook"
)

func whatsappTextPayload(messageID, from, text string) []byte {
	return []byte(fmt.Sprintf(`{
		"entry": [{"changes": [{"value": {
			"contacts": [{"profile": {"name": "Mehmet"}, "wa_id": "%s"}],
			"messages": [{"id": "%s", "from": "%s", "type": "text", "text": {"body": "%s"}}]
		}}]}]
	}`, from, messageID, from, text))
}

func TestWhatsAppWebhook_SubscriptionHandshake(t *testing.T) {
	server, service, _ := newTestServer(t)

	w := doRequest(server, http.MethodGet,
		"/api/conversations/whatsapp-incoming?hub.mode=subscribe&hub.verify_token=wa-secret&hub.challenge=12345", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())
	service.AssertNotCalled(t, "RecordInbound", mock.Anything, mock.Anything, mock.Anything)
}

func TestWhatsAppWebhook_SubscriptionBadToken(t *testing.T) {
	server, _, _ := newTestServer(t)

	w := doRequest(server, http.MethodGet,
		"/api/conversations/whatsapp-incoming?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=12345", nil, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "12345")
}

func TestWhatsAppWebhook_Ingests(t *testing.T) {
	server, service, _ := newTestServer(t)

	service.On("RecordInbound", mock.Anything, int64(1), mock.MatchedBy(func(in *webhook.Inbound) bool {
		return in.Platform == model.PlatformWhatsApp &&
			in.ProviderMessageID == "wamid.1" &&
			in.ContactName == "Mehmet" &&
			in.Content == "selam"
	})).Return(model.NewMessage(), nil)

	body := whatsappTextPayload("wamid.1", "905551112233", "selam")
	w := doRequest(server, http.MethodPost, "/api/conversations/whatsapp-incoming", body, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	service.AssertExpectations(t)
}

func TestWhatsAppWebhook_StatusOnlyAcknowledged(t *testing.T) {
	server, service, _ := newTestServer(t)

	body := []byte(`{"entry": [{"changes": [{"value": {"statuses": [{"id": "wamid.1", "status": "delivered"}]}}]}]}`)
	w := doRequest(server, http.MethodPost, "/api/conversations/whatsapp-incoming", body, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK (Status Update)", w.Body.String())
	service.AssertNotCalled(t, "RecordInbound", mock.Anything, mock.Anything, mock.Anything)
}

func TestWhatsAppWebhook_InvalidPayload(t *testing.T) {
	server, service, _ := newTestServer(t)

	w := doRequest(server, http.MethodPost, "/api/conversations/whatsapp-incoming", []byte(`{"entry": []}`), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "RecordInbound", mock.Anything, mock.Anything, mock.Anything)
}

func TestInstagramWebhook_SubscriptionHandshake(t *testing.T) {
	server, _, _ := newTestServer(t)

	w := doRequest(server, http.MethodGet,
		"/api/conversations/instagram-incoming?hub.mode=subscribe&hub.verify_token=ig-secret&hub.challenge=777", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "777", w.Body.String())
}

func TestInstagramWebhook_Ingests(t *testing.T) {
	server, service, _ := newTestServer(t)

	service.On("RecordInbound", mock.Anything, int64(1), mock.MatchedBy(func(in *webhook.Inbound) bool {
		return in.Platform == model.PlatformInstagram &&
			in.ProviderMessageID == "mid.99" &&
			in.ContactInstagramID == "ig-user-5" &&
			in.Content == "hi"
	})).Return(model.NewMessage(), nil)

	body := []byte(`{"entry": [{"messaging": [{"sender": {"id": "ig-user-5"}, "message": {"mid": "mid.99", "text": "hi"}}]}]}`)
	w := doRequest(server, http.MethodPost, "/api/conversations/instagram-incoming", body, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	service.AssertExpectations(t)
}

func TestInstagramWebhook_InvalidPayload(t *testing.T) {
	server, service, _ := newTestServer(t)

	body := []byte(`{"entry": [{"messaging": [{"sender": {"id": "ig-user-5"}, "message": {"mid": "mid.99"}}]}]}`)
	w := doRequest(server, http.MethodPost, "/api/conversations/instagram-incoming", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "RecordInbound", mock.Anything, mock.Anything, mock.Anything)
}
