// Package notify holds the transient notification center surfacing
// recoverable failures (failed operations, corrected preferences, stale URL
// parameters) to the user.
package notify

import (
	"sync"
	"time"
)

const defaultTimeToLive = 3 * time.Second

type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
)

type Notification struct {
	Level   Level
	Title   string
	Message string
	// TimeToLive bounds how long the notification stays visible.
	TimeToLive time.Duration

	id uint64
}

// Center is an ordered store of live notifications with timeout eviction.
// It implements port.Notifier.
type Center struct {
	mu       sync.Mutex
	items    []Notification
	nextID   uint64
	onChange func([]Notification)
}

// NewCenter constructs a notification center. onChange, if non-nil, observes
// every change to the live set (the UI binding point); the slice passed to
// it must not be retained.
func NewCenter(onChange func([]Notification)) *Center {
	return &Center{onChange: onChange}
}

func (c *Center) Send(n Notification) {
	if n.TimeToLive <= 0 {
		n.TimeToLive = defaultTimeToLive
	}

	c.mu.Lock()
	c.nextID++
	n.id = c.nextID
	c.items = append(c.items, n)
	c.notifyLocked()
	ttl := n.TimeToLive
	id := n.id
	c.mu.Unlock()

	time.AfterFunc(ttl, func() {
		c.remove(id)
	})
}

func (c *Center) remove(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.id == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.notifyLocked()
			return
		}
	}
}

func (c *Center) notifyLocked() {
	if c.onChange == nil {
		return
	}
	snapshot := make([]Notification, len(c.items))
	copy(snapshot, c.items)
	c.onChange(snapshot)
}

// Active returns the currently visible notifications.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make([]Notification, len(c.items))
	copy(snapshot, c.items)
	return snapshot
}

func (c *Center) Error(message, title string) {
	c.Send(Notification{Level: LevelError, Title: title, Message: message})
}

func (c *Center) Warning(message, title string) {
	c.Send(Notification{Level: LevelWarning, Title: title, Message: message})
}

func (c *Center) Info(message, title string) {
	c.Send(Notification{Level: LevelInfo, Title: title, Message: message})
}

func (c *Center) Success(message, title string) {
	c.Send(Notification{Level: LevelSuccess, Title: title, Message: message})
}
