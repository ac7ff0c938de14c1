package cache

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Jayveebrianibale/GereuOnlineHub-sub000/domain"
)

const subscriptionBuffer = 16

// ReservationFeed is the in-memory fan-out screens subscribe to. The
// service publishes an event after every successful write, subscribers
// drain their own buffered channel. A subscriber that falls behind
// loses events rather than blocking the writer.
type ReservationFeed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*Subscription
	logger *logrus.Logger
}

type Subscription struct {
	id     int
	C      chan domain.ReservationEvent
	closed bool
}

func NewReservationFeed(logger *logrus.Logger) *ReservationFeed {
	return &ReservationFeed{
		subs:   make(map[int]*Subscription),
		logger: logger,
	}
}

func (feed *ReservationFeed) Subscribe() *Subscription {
	feed.mu.Lock()
	defer feed.mu.Unlock()

	feed.nextID++
	sub := &Subscription{
		id: feed.nextID,
		C:  make(chan domain.ReservationEvent, subscriptionBuffer),
	}
	feed.subs[sub.id] = sub
	return sub
}

func (feed *ReservationFeed) Unsubscribe(sub *Subscription) {
	feed.mu.Lock()
	defer feed.mu.Unlock()

	if sub == nil || sub.closed {
		return
	}
	delete(feed.subs, sub.id)
	sub.closed = true
	close(sub.C)
}

func (feed *ReservationFeed) Publish(event domain.ReservationEvent) {
	feed.mu.Lock()
	defer feed.mu.Unlock()

	for _, sub := range feed.subs {
		select {
		case sub.C <- event:
		default:
			if feed.logger != nil {
				feed.logger.Warnf("Dropping %s event for slow subscriber %d", event.Kind, sub.id)
			}
		}
	}
}

func (feed *ReservationFeed) SubscriberCount() int {
	feed.mu.Lock()
	defer feed.mu.Unlock()

	return len(feed.subs)
}
