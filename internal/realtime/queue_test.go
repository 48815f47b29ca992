package realtime

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/wire"
)

func TestQueueDrainOrder(t *testing.T) {
	q := NewQueue()
	q.Enqueue(wire.JoinGame("game_1"))
	q.Enqueue(wire.Ping())
	q.Enqueue(wire.LeaveGame("game_1"))

	var got []wire.Command
	if err := q.Drain(func(cmd wire.Command) error {
		got = append(got, cmd)
		return nil
	}); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}

	want := []wire.Command{
		wire.JoinGame("game_1"),
		wire.Ping(),
		wire.LeaveGame("game_1"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("drained %v, want %v", got, want)
	}
	if q.Len() != 0 {
		t.Fatalf("Len() after drain = %d, want 0", q.Len())
	}
}

func TestQueueDrainStopsOnError(t *testing.T) {
	q := NewQueue()
	q.Enqueue(wire.JoinGame("game_1"))
	q.Enqueue(wire.JoinGame("game_2"))
	q.Enqueue(wire.JoinGame("game_3"))

	errWrite := errors.New("gone")
	wrote := 0
	err := q.Drain(func(cmd wire.Command) error {
		if cmd.GameID == "game_2" {
			return errWrite
		}
		wrote++
		return nil
	})
	if !errors.Is(err, errWrite) {
		t.Fatalf("Drain() error = %v, want %v", err, errWrite)
	}
	if wrote != 1 {
		t.Fatalf("wrote %d commands before failure, want 1", wrote)
	}

	// The failed command is back at the head; nothing was lost.
	var got []wire.Command
	if err := q.Drain(func(cmd wire.Command) error {
		got = append(got, cmd)
		return nil
	}); err != nil {
		t.Fatalf("second Drain() error = %v", err)
	}
	want := []wire.Command{wire.JoinGame("game_2"), wire.JoinGame("game_3")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("second drain %v, want %v", got, want)
	}
}

func TestQueueClear(t *testing.T) {
	q := NewQueue()
	q.Enqueue(wire.Ping())
	q.Clear()
	if q.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", q.Len())
	}
}
