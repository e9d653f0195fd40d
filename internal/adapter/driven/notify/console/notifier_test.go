package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Wyydra/callstate/internal/core/port"
	"github.com/rs/zerolog"
)

func TestNotifierRecordsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(zerolog.New(&buf))
	ctx := context.Background()

	if err := n.PlaySound(ctx, port.SoundJoinSelf); err != nil {
		t.Fatal(err)
	}
	if err := n.PlaySound(ctx, port.SoundJoinUser); err != nil {
		t.Fatal(err)
	}
	if err := n.StopRinging(ctx); err != nil {
		t.Fatal(err)
	}

	if err := n.PlaySound(ctx, port.SoundJoinUser); err != nil {
		t.Fatal(err)
	}

	if got := n.Played(port.SoundJoinSelf); got != 1 {
		t.Errorf("join_self played %d times, want 1", got)
	}
	if got := n.Played(port.SoundJoinUser); got != 2 {
		t.Errorf("join_user played %d times, want 2", got)
	}
	if n.RingingStops() != 1 {
		t.Errorf("ringing stops = %d", n.RingingStops())
	}

	out := buf.String()
	if !strings.Contains(out, `"sound":"join_self"`) || !strings.Contains(out, `"component":"notifier"`) {
		t.Errorf("unexpected log output: %s", out)
	}
}
