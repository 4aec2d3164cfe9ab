// Package events provides the audit event bus. Every engine invocation is
// published as an event so the compliance trail survives beyond the HTTP
// response; subscribers include the websocket hub and the database sink.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventRateFetched        EventType = "RATE_FETCHED"
	EventThinCapCalculated  EventType = "THINCAP_CALCULATED"
	EventCarryforwardRun    EventType = "CARRYFORWARD_SIMULATED"
	EventBenchmarkCompleted EventType = "BENCHMARK_COMPLETED"
	EventComparableSearch   EventType = "COMPARABLE_SEARCH"
	EventDeadlineComputed   EventType = "DEADLINE_COMPUTED"
	EventEligibilityChecked EventType = "ELIGIBILITY_CHECKED"
	EventPenaltyAssessed    EventType = "PENALTY_ASSESSED"
	EventServerStarted      EventType = "SERVER_STARTED"
	EventError              EventType = "ERROR"
)

// Event is one audit record.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Subscriber is a function that handles events
type Subscriber func(Event)

// EventBus manages event publishing and subscriptions
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Subscriber
	allSubs     []Subscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]Subscriber),
		allSubs:     make([]Subscriber, 0),
	}
}

// Subscribe registers a subscriber for a specific event type
func (eb *EventBus) Subscribe(eventType EventType, subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
}

// SubscribeAll registers a subscriber for all events
func (eb *EventBus) SubscribeAll(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.allSubs = append(eb.allSubs, subscriber)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if subs, ok := eb.subscribers[event.Type]; ok {
		for _, sub := range subs {
			go sub(event) // Run in goroutine to avoid blocking
		}
	}

	for _, sub := range eb.allSubs {
		go sub(event)
	}
}

// PublishRateFetched records a forex rate resolution.
func (eb *EventBus) PublishRateFetched(base, quote string, rate float64, source string, synthetic bool) {
	eb.Publish(Event{
		Type: EventRateFetched,
		Data: map[string]interface{}{
			"base":      base,
			"quote":     quote,
			"rate":      rate,
			"source":    source,
			"synthetic": synthetic,
		},
	})
}

// PublishThinCapCalculated records an interest limitation run.
func (eb *EventBus) PublishThinCapCalculated(assessmentYear string, ebitda, allowable, disallowed float64, exempt bool) {
	eb.Publish(Event{
		Type: EventThinCapCalculated,
		Data: map[string]interface{}{
			"assessment_year":     assessmentYear,
			"ebitda":              ebitda,
			"allowable_interest":  allowable,
			"disallowed_interest": disallowed,
			"exempt":              exempt,
		},
	})
}

// PublishCarryforwardRun records a carryforward simulation.
func (eb *EventBus) PublishCarryforwardRun(disallowed, utilized, expired float64, startYear, years int) {
	eb.Publish(Event{
		Type: EventCarryforwardRun,
		Data: map[string]interface{}{
			"disallowed":     disallowed,
			"total_utilized": utilized,
			"expired":        expired,
			"starting_year":  startYear,
			"years":          years,
		},
	})
}

// PublishBenchmarkCompleted records a benchmarking aggregation.
func (eb *EventBus) PublishBenchmarkCompleted(pliType string, companyCount int, q1, median, q3 float64, classification string) {
	eb.Publish(Event{
		Type: EventBenchmarkCompleted,
		Data: map[string]interface{}{
			"pli_type":       pliType,
			"company_count":  companyCount,
			"quartile1":      q1,
			"median":         median,
			"quartile3":      q3,
			"classification": classification,
		},
	})
}

// PublishComparableSearch records a comparable search with its filter trail.
func (eb *EventBus) PublishComparableSearch(totalFound int, appliedFilters []string) {
	eb.Publish(Event{
		Type: EventComparableSearch,
		Data: map[string]interface{}{
			"total_found":     totalFound,
			"applied_filters": appliedFilters,
		},
	})
}

// PublishDeadlineComputed records a statutory deadline computation.
func (eb *EventBus) PublishDeadlineComputed(stage string, deadline time.Time) {
	eb.Publish(Event{
		Type: EventDeadlineComputed,
		Data: map[string]interface{}{
			"stage":    stage,
			"deadline": deadline.Format("2006-01-02"),
		},
	})
}

// PublishEligibilityChecked records an eligibility gate evaluation.
func (eb *EventBus) PublishEligibilityChecked(eligible bool, reasons []string) {
	eb.Publish(Event{
		Type: EventEligibilityChecked,
		Data: map[string]interface{}{
			"eligible": eligible,
			"reasons":  reasons,
		},
	})
}

// PublishPenaltyAssessed records a penalty exposure calculation.
func (eb *EventBus) PublishPenaltyAssessed(minimum, maximum, mostLikely float64) {
	eb.Publish(Event{
		Type: EventPenaltyAssessed,
		Data: map[string]interface{}{
			"minimum":     minimum,
			"maximum":     maximum,
			"most_likely": mostLikely,
		},
	})
}

// PublishError publishes an error event
func (eb *EventBus) PublishError(source, message string, err error) {
	data := map[string]interface{}{
		"source":  source,
		"message": message,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	eb.Publish(Event{
		Type: EventError,
		Data: data,
	})
}
