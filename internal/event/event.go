package event

type EventType string

// Enum values for crawl lifecycle events
const (
	DeviceProcessing EventType = "DEVICE_PROCESSING"
	DeviceDiscovered EventType = "DEVICE_DISCOVERED"
	DeviceFailed     EventType = "DEVICE_FAILED"
	CrawlComplete    EventType = "CRAWL_COMPLETE"
)

// Event data structure representing any crawl event we may want to react to
type Event struct {
	Type    EventType
	Payload any
}

// Progress is the payload attached to device lifecycle events
type Progress struct {
	Address           string
	Identity          string
	DevicesDiscovered int
	DevicesFailed     int
	DevicesQueued     int
}
