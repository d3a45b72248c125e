package service

// Live-push event names. The client discriminates structured payloads by the
// notificationType tag inside the payload argument.
const (
	EventReceiveNotification         = "ReceiveNotification"
	EventReceiveDetailedNotification = "ReceiveDetailedNotification"
)

// Pusher delivers named events to the live connections of a user. Delivery
// is best effort: a user with no connections is a silent no-op, and
// implementations never return an error to the caller. The durable
// notification row is always written first and is the source of truth.
type Pusher interface {
	DeliverToUser(userID string, event string, args ...interface{})
	Broadcast(event string, args ...interface{})
}
