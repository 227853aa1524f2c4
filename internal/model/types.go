package model

// MessageType is the kind of payload a message carries.
type MessageType string

const (
	MessageTypeText    MessageType = "text"
	MessageTypeImage   MessageType = "image"
	MessageTypeVoice   MessageType = "voice"
	MessageTypeVideo   MessageType = "video"
	MessageTypeMissYou MessageType = "missYou"
	MessageTypeEmoji   MessageType = "emoji"
)

func (t MessageType) String() string {
	return string(t)
}

func (t MessageType) IsValid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeVoice, MessageTypeVideo, MessageTypeMissYou, MessageTypeEmoji:
		return true
	}
	return false
}

// IsTextual reports whether the message content is the payload itself.
func (t MessageType) IsTextual() bool {
	return t == MessageTypeText || t == MessageTypeMissYou || t == MessageTypeEmoji
}

// MessageStatus is ordered: sending < sent < delivered < read.
type MessageStatus string

const (
	MessageStatusSending   MessageStatus = "sending"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
)

var messageStatusRank = map[MessageStatus]int{
	MessageStatusSending:   1,
	MessageStatusSent:      2,
	MessageStatusDelivered: 3,
	MessageStatusRead:      4,
}

func (s MessageStatus) String() string {
	return string(s)
}

func (s MessageStatus) IsValid() bool {
	_, ok := messageStatusRank[s]
	return ok
}

// Rank returns the position of s in the delivery ordering, 0 for unknown values.
func (s MessageStatus) Rank() int {
	return messageStatusRank[s]
}

// After reports whether s is strictly later than other in the delivery ordering.
func (s MessageStatus) After(other MessageStatus) bool {
	return s.IsValid() && s.Rank() > other.Rank()
}

// DiaryStatus is the linear lifecycle writing -> locked -> shared -> read.
type DiaryStatus string

const (
	DiaryStatusWriting DiaryStatus = "writing"
	DiaryStatusLocked  DiaryStatus = "locked"
	DiaryStatusShared  DiaryStatus = "shared"
	DiaryStatusRead    DiaryStatus = "read"
)

var diaryNext = map[DiaryStatus]DiaryStatus{
	DiaryStatusWriting: DiaryStatusLocked,
	DiaryStatusLocked:  DiaryStatusShared,
	DiaryStatusShared:  DiaryStatusRead,
}

func (s DiaryStatus) String() string {
	return string(s)
}

func (s DiaryStatus) IsValid() bool {
	switch s {
	case DiaryStatusWriting, DiaryStatusLocked, DiaryStatusShared, DiaryStatusRead:
		return true
	}
	return false
}

// Next returns the only status reachable from s. ok is false at the terminal status.
func (s DiaryStatus) Next() (next DiaryStatus, ok bool) {
	next, ok = diaryNext[s]
	return next, ok
}

// SharingDuration controls how long a location share stays live.
type SharingDuration string

const (
	SharingOff             SharingDuration = "off"
	SharingOneHour         SharingDuration = "oneHour"
	SharingTwentyFourHours SharingDuration = "twentyFourHours"
	SharingPermanent       SharingDuration = "permanent"
)

func (d SharingDuration) String() string {
	return string(d)
}

func (d SharingDuration) IsValid() bool {
	switch d {
	case SharingOff, SharingOneHour, SharingTwentyFourHours, SharingPermanent:
		return true
	}
	return false
}

// EventType classifies a shared calendar event.
type EventType string

const (
	EventTypeAnniversary EventType = "anniversary"
	EventTypeDate        EventType = "date"
	EventTypeTravel      EventType = "travel"
	EventTypeTodo        EventType = "todo"
	EventTypeMilestone   EventType = "milestone"
)

func (t EventType) String() string {
	return string(t)
}

func (t EventType) IsValid() bool {
	switch t {
	case EventTypeAnniversary, EventTypeDate, EventTypeTravel, EventTypeTodo, EventTypeMilestone:
		return true
	}
	return false
}
