package session

const (
	NotificationReward  = "reward"
	NotificationJoined  = "joined"
	NotificationSession = "session"
)

type Notification struct {
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Notifier decouples the session core from the transport pushing events
// to the presentation layer.
type Notifier interface {
	Notify(userID string, n Notification)
}
