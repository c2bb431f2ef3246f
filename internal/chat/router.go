package chat

import (
	"encoding/json"
	"log/slog"
)

// Router applies delivery policy for inbound frames: direct user-to-user
// fan-out and room fan-out. Dispatch is called synchronously from each
// sender's serve loop, which combined with the ordered per-connection send
// buffers gives FIFO delivery per sender-to-target pair. Nothing the router
// does on behalf of one target may disturb another target or the sender.
type Router struct {
	registry *Registry
	rooms    *Rooms
	logger   *slog.Logger
}

func NewRouter(registry *Registry, rooms *Rooms, logger *slog.Logger) *Router {
	return &Router{
		registry: registry,
		rooms:    rooms,
		logger:   logger,
	}
}

// Dispatch decodes one inbound frame from sender and routes it. Decode
// failures are reported back to the sender only; the connection stays open.
func (rt *Router) Dispatch(sender *Client, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		rt.logger.Debug("malformed frame", "userID", sender.UserID(), "error", err)
		rt.reply(sender, NewErrorMessage(CodeMalformedFrame, "invalid frame"))
		return
	}
	if !frame.Type.IsValid() {
		rt.reply(sender, NewErrorMessage(CodeMalformedFrame, "unknown frame type"))
		return
	}

	switch frame.Type {
	case FrameTypeDirect:
		rt.dispatchDirect(sender, frame)
	case FrameTypeRoom:
		rt.dispatchRoom(sender, frame)
	case FrameTypeRoomJoin:
		if frame.Room == "" {
			rt.reply(sender, NewErrorMessage(CodeMalformedFrame, "missing room"))
			return
		}
		rt.rooms.Join(frame.Room, sender.UserID())
	case FrameTypeRoomLeave:
		if frame.Room == "" {
			rt.reply(sender, NewErrorMessage(CodeMalformedFrame, "missing room"))
			return
		}
		rt.rooms.Leave(frame.Room, sender.UserID())
	}
}

func (rt *Router) dispatchDirect(sender *Client, frame Frame) {
	if frame.Target == "" {
		rt.reply(sender, NewErrorMessage(CodeMalformedFrame, "missing target"))
		return
	}

	targets := rt.registry.Lookup(frame.Target)
	if len(targets) == 0 {
		// No store-and-forward; tell the sender and move on.
		rt.reply(sender, NewNoticeMessage(CodeTargetOffline, frame.Target))
		return
	}

	msg := newMessage(FrameTypeDirect, sender.UserID())
	msg.Target = frame.Target
	msg.Payload = frame.Payload
	msg.Seq = sender.nextSeq()

	data, err := json.Marshal(msg)
	if err != nil {
		rt.logger.Error("message encode failed", "userID", sender.UserID(), "error", err)
		return
	}
	for _, target := range targets {
		rt.deliver(target, data)
	}
}

func (rt *Router) dispatchRoom(sender *Client, frame Frame) {
	if frame.Room == "" {
		rt.reply(sender, NewErrorMessage(CodeMalformedFrame, "missing room"))
		return
	}
	if !rt.rooms.IsMember(frame.Room, sender.UserID()) {
		rt.reply(sender, NewErrorMessage(CodeNotInRoom, frame.Room))
		return
	}

	msg := newMessage(FrameTypeRoom, sender.UserID())
	msg.Room = frame.Room
	msg.Payload = frame.Payload
	msg.Seq = sender.nextSeq()

	data, err := json.Marshal(msg)
	if err != nil {
		rt.logger.Error("message encode failed", "userID", sender.UserID(), "error", err)
		return
	}
	for _, member := range rt.rooms.Members(frame.Room) {
		if member == sender.UserID() {
			continue
		}
		for _, target := range rt.registry.Lookup(member) {
			rt.deliver(target, data)
		}
	}
}

// deliver hands data to one target connection. A failure here means the
// target cannot keep up; it is closed and its own serve loop performs the
// registry cleanup. The failure never reaches the sender.
func (rt *Router) deliver(target *Client, data []byte) {
	if err := target.enqueue(data); err != nil {
		rt.logger.Warn("dropping slow consumer",
			"clientID", target.ID(), "userID", target.UserID())
		target.closeWithCode(CloseSlowConsumer, "slow consumer")
	}
}

func (rt *Router) reply(sender *Client, msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		rt.logger.Error("reply encode failed", "error", err)
		return
	}
	rt.deliver(sender, data)
}
