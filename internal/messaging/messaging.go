// Package messaging derives conversation threads and unread counts from
// the flat message collection.
//
// Ordering is by the raw timestamp string compared lexicographically, not
// by parsed time: legacy data carries mixed and occasionally malformed
// layouts, and string comparison over the stamped format sorts those
// tolerantly. Messages with no timestamp at all sort as the earliest
// value rather than failing the comparison.
package messaging

import (
	"context"
	"sort"
	"time"

	"github.com/softcentric/tracker/internal/models"
	"github.com/softcentric/tracker/internal/repo"
)

// earliestTimestamp substitutes for a missing timestamp so that untimed
// legacy messages sort before everything else.
const earliestTimestamp = "1970-01-01T00:00:00"

// Index exposes the per-user conversation views over the messages
// repository. It holds no state of its own; every call re-derives from
// the current collection, so a just-sent message is visible on the very
// next read.
type Index struct {
	messages *repo.Messages
	now      func() time.Time
}

// NewIndex creates an index over the given messages repository.
func NewIndex(messages *repo.Messages) *Index {
	return NewIndexAt(messages, time.Now)
}

// NewIndexAt creates an index with an explicit clock, for tests that pin
// outgoing timestamps.
func NewIndexAt(messages *repo.Messages, now func() time.Time) *Index {
	return &Index{messages: messages, now: now}
}

// ConversationsFor returns, per counterpart username, the chronologically
// ordered messages exchanged with user (both directions) and the count of
// messages from that counterpart the user has not read yet.
func (x *Index) ConversationsFor(ctx context.Context, user string) (map[string][]models.Message, map[string]int, error) {
	all, err := x.messages.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	conversations := make(map[string][]models.Message)
	unread := make(map[string]int)
	for _, m := range all {
		other, ok := m.Counterpart(user)
		if !ok {
			continue
		}
		if _, seen := conversations[other]; !seen {
			conversations[other] = nil
			unread[other] = 0
		}
		conversations[other] = append(conversations[other], m)
		if m.Receiver == user && !m.Read {
			unread[other]++
		}
	}
	for _, thread := range conversations {
		sortByTimestamp(thread)
	}
	return conversations, unread, nil
}

// UnreadCountFor returns the total number of unread messages addressed
// to user across all counterparts.
func (x *Index) UnreadCountFor(ctx context.Context, user string) (int, error) {
	all, err := x.messages.List(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, m := range all {
		if m.Receiver == user && !m.Read {
			count++
		}
	}
	return count, nil
}

// UnreadFor returns the unread messages addressed to user.
func (x *Index) UnreadFor(ctx context.Context, user string) ([]models.Message, error) {
	all, err := x.messages.List(ctx)
	if err != nil {
		return nil, err
	}
	unread := make([]models.Message, 0)
	for _, m := range all {
		if m.Receiver == user && !m.Read {
			unread = append(unread, m)
		}
	}
	return unread, nil
}

// ThreadBetween returns the ordered conversation between user and
// counterpart. Opening the thread is a side-effecting read: every unread
// message from counterpart to user flips to read and the change is
// persisted before the thread is returned. The returned copies reflect
// the post-read state.
func (x *Index) ThreadBetween(ctx context.Context, user, counterpart string) ([]models.Message, error) {
	if _, err := x.messages.MarkRead(ctx, user, counterpart); err != nil {
		return nil, err
	}
	all, err := x.messages.List(ctx)
	if err != nil {
		return nil, err
	}
	thread := make([]models.Message, 0)
	for _, m := range all {
		if (m.Sender == user && m.Receiver == counterpart) || (m.Sender == counterpart && m.Receiver == user) {
			thread = append(thread, m)
		}
	}
	sortByTimestamp(thread)
	return thread, nil
}

// Send appends a new unread message from sender to receiver, stamped
// with the current time.
func (x *Index) Send(ctx context.Context, sender, receiver, text string) (models.Message, error) {
	return x.messages.Create(ctx, models.Message{
		Sender:    sender,
		Receiver:  receiver,
		Message:   text,
		Timestamp: x.now().Format(models.MessageTimeFormat),
		Read:      false,
	})
}

func sortByTimestamp(thread []models.Message) {
	sort.SliceStable(thread, func(i, j int) bool {
		return timestampOf(thread[i]) < timestampOf(thread[j])
	})
}

func timestampOf(m models.Message) string {
	if m.Timestamp == "" {
		return earliestTimestamp
	}
	return m.Timestamp
}
