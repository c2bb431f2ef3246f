package chat

import (
	"time"

	"github.com/google/uuid"
)

// FrameType represents the type of a chat frame using a custom enum type
type FrameType string

const (
	// Client -> server
	FrameTypeDirect    FrameType = "message.direct"
	FrameTypeRoom      FrameType = "message.room"
	FrameTypeRoomJoin  FrameType = "room.join"
	FrameTypeRoomLeave FrameType = "room.leave"

	// Server -> client
	FrameTypeConnect FrameType = "connection.connect"
	FrameTypeNotice  FrameType = "notice"
	FrameTypeError   FrameType = "error"
)

func (ft FrameType) String() string {
	return string(ft)
}

// IsValid checks if the FrameType is a valid inbound enum value
func (ft FrameType) IsValid() bool {
	switch ft {
	case FrameTypeDirect, FrameTypeRoom, FrameTypeRoomJoin, FrameTypeRoomLeave:
		return true
	default:
		return false
	}
}

// Frame is the inbound wire envelope. Target is a user identity for direct
// messages; Room identifies the room for room traffic.
type Frame struct {
	Type    FrameType `json:"type"`
	Target  string    `json:"target,omitempty"`
	Room    string    `json:"room,omitempty"`
	Payload string    `json:"payload,omitempty"`
}

// Message is the outbound envelope. Seq is the per-sender logical sequence
// number; receivers can rely on Seq being monotonic per sender.
type Message struct {
	ID        string    `json:"id"`
	Type      FrameType `json:"type"`
	Sender    string    `json:"sender,omitempty"`
	Target    string    `json:"target,omitempty"`
	Room      string    `json:"room,omitempty"`
	Payload   string    `json:"payload,omitempty"`
	Seq       uint64    `json:"seq,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// Error codes carried in error/notice frames
const (
	CodeMalformedFrame = "MALFORMED_FRAME"
	CodeTargetOffline  = "TARGET_OFFLINE"
	CodeNotInRoom      = "NOT_IN_ROOM"
)

// Close codes used when a handshake is rejected or a connection is evicted.
// All rejection close frames carry the same reason text so the shape of the
// rejection does not reveal how close a credential was to working.
const (
	CloseMissingCredential = 4001
	CloseInvalidSession    = 4002
	CloseExpiredSession    = 4003
	CloseStoreUnavailable  = 4004
	CloseSlowConsumer      = 4008
)

const closeReason = "unauthorized"

func newMessage(msgType FrameType, sender string) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Sender:    sender,
		Timestamp: time.Now().Unix(),
	}
}

// NewErrorMessage creates an error frame addressed back to the sender only.
func NewErrorMessage(code, detail string) *Message {
	m := newMessage(FrameTypeError, "")
	m.Payload = code
	if detail != "" {
		m.Payload = code + ": " + detail
	}
	return m
}

// NewNoticeMessage creates an informational, non-fatal notice frame.
func NewNoticeMessage(code, about string) *Message {
	m := newMessage(FrameTypeNotice, "")
	m.Payload = code
	m.Target = about
	return m
}

// NewConnectMessage acknowledges a successful handshake.
func NewConnectMessage(clientID, userID string) *Message {
	m := newMessage(FrameTypeConnect, "")
	m.Target = userID
	m.Payload = clientID
	return m
}
