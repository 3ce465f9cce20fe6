package session

import (
	"testing"
	"time"

	"inkchat/web/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	return NewStore(time.Hour, time.Hour, nil, logger)
}

func TestStoreGetCreatesOnce(t *testing.T) {
	store := newTestStore(t)
	id := uuid.New()

	first := store.Get(id)
	first.SetDocument("report.pdf")

	second := store.Get(id)
	if second.Document() != "report.pdf" {
		t.Errorf("expected same state on second Get, document = %q", second.Document())
	}

	other := store.Get(uuid.New())
	if other.Document() != "" {
		t.Errorf("fresh session should have no document, got %q", other.Document())
	}
}

func TestDocumentLifecycle(t *testing.T) {
	state := &State{ID: uuid.New()}

	if state.Document() != "" {
		t.Fatal("new session should have no active document")
	}

	state.SetDocument("report.pdf")
	if state.Document() != "report.pdf" {
		t.Fatalf("Document() = %q", state.Document())
	}

	state.Append(types.Message{Content: "hello", Sender: types.SenderUser, Timestamp: time.Now()})
	if len(state.Messages()) != 1 {
		t.Fatalf("expected 1 transcript entry, got %d", len(state.Messages()))
	}

	// Clearing the document resets the transcript with it
	cleared := state.ClearDocument()
	if cleared != "report.pdf" {
		t.Errorf("ClearDocument() = %q, want report.pdf", cleared)
	}
	if state.Document() != "" {
		t.Errorf("document still set after clear: %q", state.Document())
	}
	if len(state.Messages()) != 0 {
		t.Errorf("transcript not reset on clear: %d entries", len(state.Messages()))
	}

	if again := state.ClearDocument(); again != "" {
		t.Errorf("second clear returned %q, want empty", again)
	}
}

func TestSetDocumentStartsFreshTranscript(t *testing.T) {
	state := &State{ID: uuid.New()}
	state.SetDocument("first.pdf")
	state.Append(types.Message{Content: "about first", Sender: types.SenderUser})

	state.SetDocument("second.pdf")
	if len(state.Messages()) != 0 {
		t.Errorf("transcript carried over across documents: %d entries", len(state.Messages()))
	}
}

func TestTranscriptOrder(t *testing.T) {
	state := &State{ID: uuid.New()}
	state.Append(types.Message{Content: "q1", Sender: types.SenderUser})
	state.Append(types.Message{Content: "a1", Sender: types.SenderAssistant})
	state.Append(types.Message{Content: "q2", Sender: types.SenderUser})

	msgs := state.Messages()
	want := []string{"q1", "a1", "q2"}
	for i, w := range want {
		if msgs[i].Content != w {
			t.Errorf("transcript[%d] = %q, want %q", i, msgs[i].Content, w)
		}
	}

	// Messages returns a copy, not the live slice
	msgs[0].Content = "mutated"
	if state.Messages()[0].Content != "q1" {
		t.Error("Messages() exposed the live transcript")
	}
}

func TestSingleFlight(t *testing.T) {
	state := &State{ID: uuid.New()}

	if !state.TryBeginRequest() {
		t.Fatal("first TryBeginRequest should succeed")
	}
	if state.TryBeginRequest() {
		t.Fatal("second TryBeginRequest should be rejected while pending")
	}
	if !state.Pending() {
		t.Error("Pending() = false while a request is in flight")
	}

	state.EndRequest()
	if state.Pending() {
		t.Error("Pending() = true after EndRequest")
	}
	if !state.TryBeginRequest() {
		t.Error("TryBeginRequest should succeed after the slot is released")
	}
}

func TestEvictionReapsDocument(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	reaped := make(chan string, 1)
	store := NewStore(20*time.Millisecond, 10*time.Millisecond, func(documentID string) {
		reaped <- documentID
	}, logger)

	state := store.Get(uuid.New())
	state.SetDocument("orphan.pdf")

	select {
	case doc := <-reaped:
		if doc != "orphan.pdf" {
			t.Errorf("reaped %q, want orphan.pdf", doc)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expired session was never reaped")
	}
}
