// Package conversation derives per-counterpart threads, unread counts and
// read acknowledgements from the flat message list.
//
// Everything here recomputes from the full list on each call. There is no
// incremental counter to keep in sync: the flat list is the single source
// of truth, so a recount can never drift from reality.
package conversation

import (
	"sort"

	"go.uber.org/zap"

	"formdesk/internal/model"
)

// UnreadCount returns the number of unread messages addressed to viewerID.
func UnreadCount(viewerID string, msgs []model.Message) int {
	n := 0
	for _, m := range msgs {
		if m.ReceiverID == viewerID && !m.IsRead {
			n++
		}
	}
	return n
}

// UnreadFrom returns the number of unread messages sent by counterpartID to
// viewerID. Used for the per-user badge on the admin's user list.
func UnreadFrom(viewerID, counterpartID string, msgs []model.Message) int {
	n := 0
	for _, m := range msgs {
		if m.SenderID == counterpartID && m.ReceiverID == viewerID && !m.IsRead {
			n++
		}
	}
	return n
}

func betweenPair(m model.Message, a, b string) bool {
	return (m.SenderID == a && m.ReceiverID == b) ||
		(m.SenderID == b && m.ReceiverID == a)
}

// Thread returns the two-party conversation between viewerID and
// counterpartID ordered by SentAt ascending. Messages with equal timestamps
// keep their arrival order; the result is never re-keyed by id or content.
func Thread(viewerID, counterpartID string, msgs []model.Message) []model.Message {
	var thread []model.Message
	for _, m := range msgs {
		if betweenPair(m, viewerID, counterpartID) {
			thread = append(thread, m)
		}
	}
	sort.SliceStable(thread, func(i, j int) bool {
		return thread[i].SentAt.Before(thread[j].SentAt)
	})
	return thread
}

// LatestMessage returns the most recent message exchanged between viewerID
// and counterpartID, or ok=false when they have no thread. Used for the
// list previews on the admin's user list.
func LatestMessage(viewerID, counterpartID string, msgs []model.Message) (model.Message, bool) {
	thread := Thread(viewerID, counterpartID, msgs)
	if len(thread) == 0 {
		return model.Message{}, false
	}
	return thread[len(thread)-1], true
}

// AdminHub resolves the distinguished admin counterpart that every employee
// conversation is directed at. Employees never message each other; the
// first admin profile is the hub.
func AdminHub(users []model.UserProfile) (model.UserProfile, bool) {
	for _, u := range users {
		if u.Role == model.RoleAdmin {
			return u, true
		}
	}
	return model.UserProfile{}, false
}

// Acknowledger marks visible messages as read exactly once per message.
// The acknowledgement state lives on the message itself: AckNone messages
// are eligible, AckPending ones are in flight and skipped, AckDone ones are
// finished. A failed mark reverts to AckNone so the next pass retries it.
//
// Acknowledgement runs in two phases so the caller can issue the remote
// mark calls without holding its own state lock: Begin claims the eligible
// messages, Finish applies the per-message results.
type Acknowledger struct {
	log *zap.Logger
}

func NewAcknowledger(log *zap.Logger) *Acknowledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Acknowledger{log: log}
}

// Begin flips every unread message in the active thread that is addressed
// to viewerID into AckPending and returns their ids for submission. It is
// idempotent under rapid re-invocation: in-flight and finished messages are
// skipped, not re-claimed.
func (a *Acknowledger) Begin(viewerID, counterpartID string, msgs []model.Message) []string {
	var ids []string
	for i := range msgs {
		m := &msgs[i]
		if m.ReceiverID != viewerID || m.SenderID != counterpartID {
			continue
		}
		if m.IsRead || m.Ack != model.AckNone {
			continue
		}
		m.Ack = model.AckPending
		ids = append(ids, m.ID)
	}
	return ids
}

// Finish applies the submission results to the claimed messages. Successes
// become read and AckDone; failures are logged, swallowed and reverted to
// AckNone so the next pass retries them. Failing to acknowledge must never
// block reading or sending. Returns the number of messages marked.
func (a *Acknowledger) Finish(msgs []model.Message, results map[string]error) int {
	marked := 0
	for i := range msgs {
		m := &msgs[i]
		err, ok := results[m.ID]
		if !ok || m.Ack != model.AckPending {
			continue
		}
		if err != nil {
			m.Ack = model.AckNone
			a.log.Warn("mark message read failed",
				zap.String("messageId", m.ID),
				zap.Error(err))
			continue
		}
		m.IsRead = true
		m.Ack = model.AckDone
		marked++
	}
	return marked
}
