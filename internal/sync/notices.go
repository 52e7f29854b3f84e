package sync

import (
	gosync "sync"
	"time"
)

// Notice is a user-facing message about the sync machinery. Sticky notices
// describe a blocking condition and stay until the condition clears;
// transient ones expire on their own.
type Notice struct {
	ID     int64
	Text   string
	Sticky bool
}

// NoticeBoard collects the notices currently worth showing. It is shared by
// the synchronizer goroutine and HTTP handlers.
type NoticeBoard struct {
	ttl time.Duration

	mu      gosync.Mutex
	seq     int64
	notices []Notice
}

// NewNoticeBoard creates a board whose transient notices live for ttl.
func NewNoticeBoard(ttl time.Duration) *NoticeBoard {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &NoticeBoard{ttl: ttl}
}

// Post publishes a transient notice that self-clears after the board's TTL.
func (b *NoticeBoard) Post(text string) {
	b.mu.Lock()
	b.seq++
	id := b.seq
	b.notices = append(b.notices, Notice{ID: id, Text: text})
	b.mu.Unlock()

	time.AfterFunc(b.ttl, func() { b.removeByID(id) })
}

// PostSticky publishes a blocking notice, replacing any previous sticky one.
func (b *NoticeBoard) PostSticky(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.dropStickyLocked()
	b.seq++
	b.notices = append(b.notices, Notice{ID: b.seq, Text: text, Sticky: true})
}

// ClearSticky removes the blocking notice, if any. Called when the condition
// it described has recovered.
func (b *NoticeBoard) ClearSticky() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dropStickyLocked()
}

// Active returns a copy of the notices currently alive, oldest first.
func (b *NoticeBoard) Active() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Notice, len(b.notices))
	copy(out, b.notices)
	return out
}

func (b *NoticeBoard) removeByID(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, n := range b.notices {
		if n.ID == id {
			b.notices = append(b.notices[:i], b.notices[i+1:]...)
			return
		}
	}
}

func (b *NoticeBoard) dropStickyLocked() {
	kept := b.notices[:0]
	for _, n := range b.notices {
		if !n.Sticky {
			kept = append(kept, n)
		}
	}
	b.notices = kept
}
