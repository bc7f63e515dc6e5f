package domain

// Webhook event names sent by the broker on channel lifecycle changes.
const (
	ChannelOccupied = "channel_occupied"
	ChannelVacated  = "channel_vacated"
)

// BroadcastEvent is the event name used by the recurring feed of an occupied channel.
const BroadcastEvent = "data"

// WebhookPayload is the body of a broker webhook.
type WebhookPayload struct {
	TimeMs int64          `json:"time_ms"`
	Events []WebhookEvent `json:"events"`
}

// WebhookEvent is one lifecycle notification. Extra fields (user_id, socket_id, ...)
// depend on the event name and are not needed by the gate.
type WebhookEvent struct {
	Name    string      `json:"name"`
	Channel ChannelName `json:"channel"`
}
