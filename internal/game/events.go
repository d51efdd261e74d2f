package game

import (
	"maps"
	"time"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeVisitRecorded    EventType = "visit_recorded"
	EventTypeLegWon           EventType = "leg_won"
	EventTypeMatchFinished    EventType = "match_finished"
	EventTypeDartRegistered   EventType = "dart_registered"
	EventTypePracticeFinished EventType = "practice_finished"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens during a match or practice round
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// VisitRecordedEvent is published after a visit has been applied to the active leg
type VisitRecordedEvent struct {
	MatchID   string
	Visit     Visit
	timestamp time.Time
}

func (e VisitRecordedEvent) EventType() EventType { return EventTypeVisitRecorded }
func (e VisitRecordedEvent) Timestamp() time.Time { return e.timestamp }

// NewVisitRecordedEvent creates a new visit recorded event
func NewVisitRecordedEvent(matchID string, visit Visit, at time.Time) VisitRecordedEvent {
	return VisitRecordedEvent{MatchID: matchID, Visit: visit, timestamp: at}
}

// LegWonEvent is published when a leg is sealed
type LegWonEvent struct {
	MatchID   string
	Leg       Leg
	LegWins   map[string]int
	timestamp time.Time
}

func (e LegWonEvent) EventType() EventType { return EventTypeLegWon }
func (e LegWonEvent) Timestamp() time.Time { return e.timestamp }

// NewLegWonEvent creates a new leg won event
func NewLegWonEvent(matchID string, leg Leg, legWins map[string]int, at time.Time) LegWonEvent {
	return LegWonEvent{
		MatchID:   matchID,
		Leg:       leg,
		LegWins:   maps.Clone(legWins),
		timestamp: at,
	}
}

// MatchFinishedEvent is published when a player has taken enough legs
type MatchFinishedEvent struct {
	Match          Match
	WinnerPlayerID string
	timestamp      time.Time
}

func (e MatchFinishedEvent) EventType() EventType { return EventTypeMatchFinished }
func (e MatchFinishedEvent) Timestamp() time.Time { return e.timestamp }

// NewMatchFinishedEvent creates a new match finished event
func NewMatchFinishedEvent(match Match, winnerID string, at time.Time) MatchFinishedEvent {
	return MatchFinishedEvent{Match: match, WinnerPlayerID: winnerID, timestamp: at}
}

// DartRegisteredEvent is published for every Around the Clock dart
type DartRegisteredEvent struct {
	PlayerID  string
	Target    int // target aimed at
	Hit       bool
	State     ClockState
	timestamp time.Time
}

func (e DartRegisteredEvent) EventType() EventType { return EventTypeDartRegistered }
func (e DartRegisteredEvent) Timestamp() time.Time { return e.timestamp }

// NewDartRegisteredEvent creates a new dart registered event
func NewDartRegisteredEvent(playerID string, target int, hit bool, state ClockState, at time.Time) DartRegisteredEvent {
	return DartRegisteredEvent{
		PlayerID:  playerID,
		Target:    target,
		Hit:       hit,
		State:     state,
		timestamp: at,
	}
}

// PracticeFinishedEvent is published when a player completes the clock
type PracticeFinishedEvent struct {
	Session   PracticeSession
	timestamp time.Time
}

func (e PracticeFinishedEvent) EventType() EventType { return EventTypePracticeFinished }
func (e PracticeFinishedEvent) Timestamp() time.Time { return e.timestamp }

// NewPracticeFinishedEvent creates a new practice finished event
func NewPracticeFinishedEvent(session PracticeSession, at time.Time) PracticeFinishedEvent {
	return PracticeFinishedEvent{Session: session, timestamp: at}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a plain function to EventSubscriber.
type EventSubscriberFunc func(event GameEvent)

func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber) (unsubscribe func())
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus. Subscribers run on the
// publishing goroutine in subscription order.
type SimpleEventBus struct {
	nextID      int
	subscribers []subscription
}

type subscription struct {
	id  int
	sub EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber and returns a function that removes it again
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) func() {
	bus.nextID++
	id := bus.nextID
	bus.subscribers = append(bus.subscribers, subscription{id: id, sub: subscriber})
	return func() {
		for i, s := range bus.subscribers {
			if s.id == id {
				bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, s := range bus.subscribers {
		s.sub.OnEvent(event)
	}
}
