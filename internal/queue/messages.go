package queue

// Exchange and queue topology for week lifecycle events. Window-open
// announcements travel through the delayed exchange: the scheduler publishes
// them at week rollover with an x-delay that holds each one until its
// window actually opens.
const (
	ExchangeWeekEvents  = "kidflex.week.events"
	ExchangeWeekDelayed = "kidflex.week.delayed"

	QueueWeekReset     = "kidflex.week.reset"
	QueueViewingWindow = "kidflex.viewing.window"

	RoutingKeyWeekReset  = "week.reset"
	RoutingKeyWindowOpen = "week.window.open"
)

// EventTopology maps immediate-delivery queues to their routing keys.
var EventTopology = map[string]string{
	QueueWeekReset: RoutingKeyWeekReset,
}

// DelayedTopology maps delayed-delivery queues to their routing keys.
var DelayedTopology = map[string]string{
	QueueViewingWindow: RoutingKeyWindowOpen,
}

// WeekResetMessage announces that the reward week rolled over.
type WeekResetMessage struct {
	MessageID  string `json:"message_id"`
	WeekID     string `json:"week_id"`
	PrevWeekID string `json:"prev_week_id"`
	WeekStart  string `json:"week_start"`
	OccurredAt string `json:"occurred_at"`
}

// ViewingWindowMessage announces that the reward viewing window opened.
type ViewingWindowMessage struct {
	MessageID  string `json:"message_id"`
	WeekID     string `json:"week_id"`
	Day        string `json:"day"`
	OpensAt    string `json:"opens_at"`
	ClosesAt   string `json:"closes_at"`
	OccurredAt string `json:"occurred_at"`
}
