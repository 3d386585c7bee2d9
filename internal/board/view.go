package board

import (
	"sync"

	"github.com/balkashynov/crewboard/internal/models"
)

// Card is a task as shown on the board, possibly with an unconfirmed status change
type Card struct {
	models.Task
	Pending bool `json:"pending"`
}

// Change identifies an optimistic status change awaiting confirmation
type Change struct {
	id       string
	previous models.TaskStatus
	seq      uint64
}

// View is the local, ordered copy of the current workspace's board.
// Status changes are applied as pending, then confirmed or reverted once the
// store answers.
type View struct {
	mu      sync.Mutex
	cards   []Card
	pending map[string]uint64 // task id -> seq of the latest pending change
	seq     uint64
}

func NewView() *View {
	return &View{pending: make(map[string]uint64)}
}

// Replace swaps in a freshly loaded task list, dropping pending changes
func (v *View) Replace(tasks []models.Task) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cards = make([]Card, len(tasks))
	for i, t := range tasks {
		v.cards[i] = Card{Task: t}
	}
	v.pending = make(map[string]uint64)
}

// Add puts a newly created task at the top of the board
func (v *View) Add(task models.Task) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cards = append([]Card{{Task: task}}, v.cards...)
}

// Get returns the card for id
func (v *View) Get(id string) (Card, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.indexOf(id); i >= 0 {
		return v.cards[i], true
	}
	return Card{}, false
}

// ApplyPending moves a card to status ahead of persistence.
// ok is false when the card is not on the board.
func (v *View) ApplyPending(id string, status models.TaskStatus) (Change, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(id)
	if i < 0 {
		return Change{}, false
	}
	v.seq++
	ch := Change{id: id, previous: v.cards[i].Status, seq: v.seq}
	v.cards[i].Status = status
	v.cards[i].Pending = true
	v.pending[id] = ch.seq
	return ch, true
}

// Confirm replaces the card with the stored task once the write succeeded
func (v *View) Confirm(ch Change, task models.Task) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(ch.id)
	if i < 0 {
		return
	}
	// A newer change superseded this one; leave its pending state alone
	if v.pending[ch.id] != ch.seq {
		return
	}
	v.cards[i] = Card{Task: task}
	delete(v.pending, ch.id)
}

// Revert restores the status a card had before the failed change
func (v *View) Revert(ch Change) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.indexOf(ch.id)
	if i < 0 || v.pending[ch.id] != ch.seq {
		return
	}
	v.cards[i].Status = ch.previous
	v.cards[i].Pending = false
	delete(v.pending, ch.id)
}

// Snapshot returns a copy of the board in display order
func (v *View) Snapshot() []Card {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Card, len(v.cards))
	copy(out, v.cards)
	return out
}

// Columns groups the board by status, preserving order within each column
func (v *View) Columns() map[models.TaskStatus][]Card {
	cols := make(map[models.TaskStatus][]Card, len(models.Statuses))
	for _, st := range models.Statuses {
		cols[st] = nil
	}
	for _, c := range v.Snapshot() {
		cols[c.Status] = append(cols[c.Status], c)
	}
	return cols
}

func (v *View) indexOf(id string) int {
	for i := range v.cards {
		if v.cards[i].ID == id {
			return i
		}
	}
	return -1
}
