package core

type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// A wipe started running.
	/* Context usage:
	 * data = *WipeEvent
	 */
	EVENT_CODE_WIPE_STARTED SystemEventCode = 0x02

	// A wipe frame was composited.
	/* Context usage:
	 * data = *WipeEvent
	 */
	EVENT_CODE_WIPE_FRAME SystemEventCode = 0x03

	// The last frame of a wipe was composited.
	/* Context usage:
	 * data = *WipeEvent
	 */
	EVENT_CODE_WIPE_FINISHED SystemEventCode = 0x04

	// The lump store picked up a change on disk.
	/* Context usage:
	 * data = string (lump name)
	 */
	EVENT_CODE_LUMP_CHANGED SystemEventCode = 0x05

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// WipeEvent is the payload of the wipe event codes.
type WipeEvent struct {
	Name  string
	Type  uint8
	Frame uint8
	Tic   uint64
}

// Should return true if handled.
type FnOnEvent func(sender interface{}, listener interface{}, context EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventSystem dispatches engine events to registered listeners, in registration order.
type EventSystem struct {
	registered map[SystemEventCode][]*registeredEvent
}

func NewEventSystem() *EventSystem {
	return &EventSystem{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return false.
 */
func (es *EventSystem) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	for _, e := range es.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	es.registered[code] = append(es.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns false.
 */
func (es *EventSystem) Unregister(code SystemEventCode, listener interface{}) bool {
	events := es.registered[code]
	for i, e := range events {
		if e.listener == listener {
			es.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	// Not found.
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 */
func (es *EventSystem) Fire(code SystemEventCode, sender interface{}, data interface{}) bool {
	ctx := EventContext{Type: code, Data: data}
	for _, e := range es.registered[code] {
		if e.callback(sender, e.listener, ctx) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

func (es *EventSystem) Shutdown() {
	es.registered = make(map[SystemEventCode][]*registeredEvent)
}
