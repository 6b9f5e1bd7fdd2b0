package structs

type MetricConst string

const (
	MetricOrderPlaced     MetricConst = "order_placed"
	MetricOrderRejected   MetricConst = "order_rejected"
	MetricOrderFilled     MetricConst = "order_filled"
	MetricOrderDeferred   MetricConst = "order_deferred"
	MetricOrderConflict   MetricConst = "order_conflict"
	MetricOrderCancelled  MetricConst = "order_cancelled"
	MetricExecutionFailed MetricConst = "execution_failed"

	MetricTickProcessed MetricConst = "tick_processed"
	MetricTickFailed    MetricConst = "tick_failed"
	MetricTickDropped   MetricConst = "tick_dropped"
	MetricTickNoLane    MetricConst = "tick_no_lane"
	MetricLaneReclaimed MetricConst = "lane_reclaimed"

	MetricNotificationSent    MetricConst = "notification_sent"
	MetricNotificationDropped MetricConst = "notification_dropped"
	MetricNotificationFailed  MetricConst = "notification_failed"
)

var MetricList = []MetricConst{
	MetricOrderPlaced,
	MetricOrderRejected,
	MetricOrderFilled,
	MetricOrderDeferred,
	MetricOrderConflict,
	MetricOrderCancelled,
	MetricExecutionFailed,
	MetricTickProcessed,
	MetricTickFailed,
	MetricTickDropped,
	MetricTickNoLane,
	MetricLaneReclaimed,
	MetricNotificationSent,
	MetricNotificationDropped,
	MetricNotificationFailed,
}

func (m MetricConst) ToString() string {
	return string(m)
}
