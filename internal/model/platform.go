package model

// Platform identifies the messaging channel a conversation lives on.
type Platform string

const (
	PlatformWhatsApp  Platform = "whatsapp"
	PlatformInstagram Platform = "instagram"
	PlatformMessenger Platform = "messenger"
)

// KnownPlatforms lists every platform the dashboard can display.
var KnownPlatforms = []Platform{PlatformWhatsApp, PlatformInstagram, PlatformMessenger}

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformWhatsApp, PlatformInstagram, PlatformMessenger:
		return true
	}
	return false
}

func (p Platform) String() string {
	return string(p)
}

// Message type tags as delivered by the provider webhooks.
const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeAudio    = "audio"
	MessageTypeVideo    = "video"
	MessageTypeDocument = "document"
	MessageTypeSticker  = "sticker"
	MessageTypeUnknown  = "unknown"
)

// NormalizeMessageType maps a provider tag onto the stored message type set.
func NormalizeMessageType(tag string) string {
	switch tag {
	case MessageTypeText, MessageTypeImage, MessageTypeAudio,
		MessageTypeVideo, MessageTypeDocument, MessageTypeSticker:
		return tag
	}
	return MessageTypeUnknown
}
