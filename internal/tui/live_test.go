package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dirksavage88/camzoom/internal/config"
	"github.com/dirksavage88/camzoom/internal/scenario"
)

func TestFollowRendererDrawsFrames(t *testing.T) {
	scn, err := scenario.New(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	r := NewFollowRenderer(&buf, scn.Sensor(), scn.System(), 2.0, 0)
	scn.Observe(r)

	scn.Step()
	scn.Step()

	out := buf.String()
	if !strings.Contains(out, "phase=active") {
		t.Error("expected an active frame after two steps")
	}
	if !strings.Contains(out, "zoom=1.00x") {
		t.Error("expected unity zoom readout")
	}
	if !strings.Contains(out, "+") {
		t.Error("expected wedge apex drawn")
	}
}

func TestFollowRendererFrameGate(t *testing.T) {
	scn, err := scenario.New(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	r := NewFollowRenderer(&buf, scn.Sensor(), scn.System(), 2.0, 1)
	scn.Observe(r)

	scn.Step()
	scn.Step()
	scn.Step()

	if got := strings.Count(buf.String(), clearScreen); got != 1 {
		t.Errorf("expected 1 frame under the rate gate, got %d", got)
	}
}

func TestFollowRendererCursorControl(t *testing.T) {
	var buf bytes.Buffer
	r := NewFollowRenderer(&buf, 0, nil, 2.0, 0)
	r.Start()
	r.Stop()
	if buf.String() != hideCursor+showCursor {
		t.Errorf("expected cursor hide then show, got %q", buf.String())
	}
}
