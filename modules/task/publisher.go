package task

import (
	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
)

// BusPublisher publishes task events on the mono event bus.
type BusPublisher struct {
	bus mono.EventBus
}

var _ Publisher = (*BusPublisher)(nil)

// NewBusPublisher creates a new BusPublisher.
func NewBusPublisher(bus mono.EventBus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

func (p *BusPublisher) TaskCreated(ev events.TaskCreatedEvent) error {
	return events.TaskCreatedV1.Publish(p.bus, ev, nil)
}

func (p *BusPublisher) TaskUpdated(ev events.TaskUpdatedEvent) error {
	return events.TaskUpdatedV1.Publish(p.bus, ev, nil)
}

func (p *BusPublisher) TaskDeleted(ev events.TaskDeletedEvent) error {
	return events.TaskDeletedV1.Publish(p.bus, ev, nil)
}

func (p *BusPublisher) TaskRestored(ev events.TaskRestoredEvent) error {
	return events.TaskRestoredV1.Publish(p.bus, ev, nil)
}
