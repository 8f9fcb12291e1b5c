package repo

import (
	"context"

	"github.com/softcentric/tracker/internal/models"
	"github.com/softcentric/tracker/internal/storage"
)

// Messages is the repository over the direct messages collection. Thread
// derivation and unread accounting live in the messaging package; this
// type owns the raw records.
type Messages struct {
	col *storage.Collection[models.Message]
}

// NewMessages creates the messages repository on the given backend.
func NewMessages(backend storage.Backend) *Messages {
	return &Messages{col: storage.NewCollection[models.Message](backend, "messages")}
}

// List returns every stored message in stored order.
func (r *Messages) List(ctx context.Context) ([]models.Message, error) {
	return r.col.Load(ctx)
}

// Get returns the message with the given id, or ErrNotFound.
func (r *Messages) Get(ctx context.Context, id int) (models.Message, error) {
	messages, err := r.col.Load(ctx)
	if err != nil {
		return models.Message{}, err
	}
	for _, m := range messages {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Message{}, ErrNotFound
}

// Create appends a new message with an allocator-assigned id. Read state
// and timestamp are taken as given; the messaging index is responsible
// for stamping outgoing messages.
func (r *Messages) Create(ctx context.Context, message models.Message) (models.Message, error) {
	if err := required("sender", message.Sender); err != nil {
		return models.Message{}, err
	}
	if err := required("receiver", message.Receiver); err != nil {
		return models.Message{}, err
	}
	if err := required("message", message.Message); err != nil {
		return models.Message{}, err
	}
	err := r.col.Update(ctx, func(messages []models.Message) ([]models.Message, error) {
		message.ID = storage.NextID(messages)
		return append(messages, message), nil
	})
	if err != nil {
		return models.Message{}, err
	}
	return message, nil
}

// MarkRead flips read to true on every unread message from sender to
// receiver and returns how many records changed. When nothing is unread
// the collection is not rewritten.
func (r *Messages) MarkRead(ctx context.Context, receiver, sender string) (int, error) {
	changed := 0
	err := r.col.Update(ctx, func(messages []models.Message) ([]models.Message, error) {
		for i := range messages {
			if messages[i].Receiver == receiver && messages[i].Sender == sender && !messages[i].Read {
				messages[i].Read = true
				changed++
			}
		}
		if changed == 0 {
			return nil, errNoChange
		}
		return messages, nil
	})
	if err == errNoChange {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// Delete removes the message and reports whether anything was removed.
func (r *Messages) Delete(ctx context.Context, id int) (bool, error) {
	removed := false
	err := r.col.Update(ctx, func(messages []models.Message) ([]models.Message, error) {
		kept := messages[:0]
		for _, m := range messages {
			if m.ID == id {
				removed = true
				continue
			}
			kept = append(kept, m)
		}
		return kept, nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}
