package event

import (
	"github.com/sirupsen/logrus"
)

// EventHandler returns nil when the event is not supported.
type EventHandler func(e *EventRecord) *EventHandleResult

type EventHandleResult struct {
	Success           bool
	Message           string
	HandlerIdentifier string
}

// EventHandlers run after the transaction that recorded the event commits.
var EventHandlers []EventHandler

var InvokeHandlersFunc = invokeHandlers

func invokeHandlers(record *EventRecord) []EventHandleResult {
	results := []EventHandleResult{}
	for _, handle := range EventHandlers {
		r := handle(record)
		if r == nil {
			continue
		}
		results = append(results, *r)

		if r.Success {
			logrus.WithField("handler", r.HandlerIdentifier).Info("event handled ", record.EventCategory, " ", record.SourceDesc)
		} else {
			logrus.WithField("handler", r.HandlerIdentifier).Error("event handling failed: ", r.Message)
		}
	}
	return results
}
