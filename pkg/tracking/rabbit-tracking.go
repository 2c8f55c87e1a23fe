package tracking

import (
	"context"
	"net/http"
	"time"

	"github.com/matst80/slask-facets/pkg/common"
	"github.com/matst80/slask-facets/pkg/messaging"
	"github.com/matst80/slask-facets/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	EventSession  uint16 = 0
	EventFilter   uint16 = 1
	EventLocation uint16 = 2
)

const sendTimeout = 5 * time.Second

// RabbitTracking publishes session and filter events. Events are queued and
// sent in the background.
type RabbitTracking struct {
	country    string
	connection connection
	logger     *zap.Logger
	queue      *common.QueueHandler[any]
}

func NewRabbitTracking(url, country string, logger *zap.Logger) (*RabbitTracking, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ret := &RabbitTracking{
		country: country,
		logger:  logger,
	}
	err := ret.connect(url)
	if err != nil {
		return nil, err
	}
	ret.queue = common.NewQueueHandler(ret.publish, 50, time.Second)
	return ret, nil
}

type connection interface {
	messaging.Connection
	Close() error
}

var dial = func(url string) (connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := dial(url)
	if err != nil {
		return err
	}
	if err = defineTrackingTopic(conn, t.country); err != nil {
		conn.Close()
		return err
	}
	t.connection = conn
	return nil
}

func defineTrackingTopic(conn messaging.Connection, country string) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return messaging.DefineTopic(ch, country, messaging.TrackingTopic)
}

// Close flushes queued events and closes the connection.
func (t *RabbitTracking) Close() error {
	t.queue.Close()
	return t.connection.Close()
}

func (t *RabbitTracking) publish(events []any) {
	for _, data := range events {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := messaging.SendChange(ctx, t.connection, t.country, messaging.TrackingTopic, data); err != nil {
			t.logger.Warn("failed to send tracking event", zap.Error(err))
		}
		cancel()
	}
}

func (t *RabbitTracking) send(data any) {
	t.queue.Add(data)
}

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Country   string `json:"country,omitempty"`
	Event     uint16 `json:"event"`
}

type SessionEvent struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	Ip        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
	Referer   string `json:"referer,omitempty"`
}

type FilterEvent struct {
	*BaseEvent
	types.FilterChange
	LocationId      string                       `json:"location_id,omitempty"`
	Selection       map[types.FacetName][]string `json:"selection"`
	NumberOfResults int                          `json:"noi"`
}

type LocationEvent struct {
	*BaseEvent
	LocationId      string `json:"location_id"`
	NumberOfResults int    `json:"noi"`
}

func clientIp(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

func (t *RabbitTracking) base(sessionId string, event uint16) *BaseEvent {
	return &BaseEvent{SessionId: sessionId, Country: t.country, Event: event}
}

func NewSessionEvent(base *BaseEvent, r *http.Request) SessionEvent {
	return SessionEvent{
		BaseEvent: base,
		UserAgent: r.UserAgent(),
		Ip:        clientIp(r),
		Language:  r.Header.Get("Accept-Language"),
		Referer:   r.Header.Get("Referer"),
	}
}

func NewFilterEvent(base *BaseEvent, locationId string, change types.FilterChange, selection types.Selection, resultLen int) FilterEvent {
	values := make(map[types.FacetName][]string, len(selection))
	for f := range selection {
		values[f] = selection.Values(f)
	}
	return FilterEvent{
		BaseEvent:       base,
		FilterChange:    change,
		LocationId:      locationId,
		Selection:       values,
		NumberOfResults: resultLen,
	}
}

func (t *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	t.send(NewSessionEvent(t.base(sessionId, EventSession), r))
}

func (t *RabbitTracking) TrackFilter(sessionId string, locationId string, change types.FilterChange, selection types.Selection, resultLen int) {
	t.send(NewFilterEvent(t.base(sessionId, EventFilter), locationId, change, selection, resultLen))
}

func (t *RabbitTracking) TrackLocation(sessionId string, locationId string, resultLen int) {
	t.send(LocationEvent{
		BaseEvent:       t.base(sessionId, EventLocation),
		LocationId:      locationId,
		NumberOfResults: resultLen,
	})
}
