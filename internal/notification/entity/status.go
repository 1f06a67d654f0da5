package entity

type DeliveryStatus int16

const (
	DeliveryStatusUnknown   DeliveryStatus = 0
	DeliveryStatusSent      DeliveryStatus = 1
	DeliveryStatusFailed    DeliveryStatus = 2
	DeliveryStatusDuplicate DeliveryStatus = 3
	DeliveryStatusExpired   DeliveryStatus = 4
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryStatusSent:
		return "sent"
	case DeliveryStatusFailed:
		return "failed"
	case DeliveryStatusDuplicate:
		return "duplicate"
	case DeliveryStatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}
