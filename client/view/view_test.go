package view

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"colorAverager/client/dto"
)

func TestNewResults(t *testing.T) {
	r := NewResults("t1", &dto.ResultPayload{
		OverallColor:    [3]int{10, 20, 30},
		OverallColorHex: "#0a141e",
		TotalFrames:     1234,
		TimelineImage:   "t1_timeline.png",
		ResultsFile:     "t1_results.json",
	})

	if r.ColorCSS != "rgb(10, 20, 30)" {
		t.Errorf("Expected rgb(10, 20, 30), got %s", r.ColorCSS)
	}
	if r.RGBText != "(10, 20, 30)" {
		t.Errorf("Expected (10, 20, 30), got %s", r.RGBText)
	}
	if r.FrameCount != "1,234" {
		t.Errorf("Expected 1,234, got %s", r.FrameCount)
	}
	if r.ImageSrc != "/api/image/t1/t1_timeline.png" {
		t.Errorf("Unexpected image src %s", r.ImageSrc)
	}
	if r.DownloadJSON != "/api/download/t1/t1_results.json" {
		t.Errorf("Unexpected json link %s", r.DownloadJSON)
	}
	if r.DownloadImage != "/api/download/t1/t1_timeline.png" {
		t.Errorf("Unexpected image link %s", r.DownloadImage)
	}
}

func TestFormatCount(t *testing.T) {
	cases := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		1234567: "1,234,567",
	}
	for n, want := range cases {
		if got := FormatCount(n); got != want {
			t.Errorf("FormatCount(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestModel_Lifecycle(t *testing.T) {
	m := NewModel()

	m.Submitting()
	snap := m.Snapshot()
	if snap.State != StateSubmitting || !snap.SubmitBusy || snap.SubmitText != BusyLabel || !snap.ProgressVisible() {
		t.Errorf("Unexpected submitting snapshot: %+v", snap)
	}

	m.Progress(40, "Processing frames...")
	m.Progress(80, "Processing frames...")
	m.Error("decode failed")
	m.Idle()

	snap = m.Snapshot()
	if !snap.ErrorVisible() || snap.ProgressVisible() || snap.ResultsVisible() {
		t.Errorf("Expected only error visible, got %+v", snap)
	}
	if snap.SubmitBusy || snap.SubmitText != SubmitLabel {
		t.Error("Expected submit control restored")
	}
	if !Settled(snap) {
		t.Error("Expected snapshot to be settled")
	}

	want := []State{StateIdle, StateSubmitting, StateProgress, StateError}
	got := m.History()
	if len(got) != len(want) {
		t.Fatalf("Expected history %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("History[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	m.Submitting()
	if snap := m.Snapshot(); snap.ErrorText != "" || snap.Results != nil {
		t.Error("Expected a new submission to clear previous outcome")
	}
}

func TestModel_Await(t *testing.T) {
	m := NewModel()

	go func() {
		time.Sleep(5 * time.Millisecond)
		m.Submitting()
		m.Results(Results{Hex: "#ffffff"})
		m.Idle()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	snap, err := m.Await(ctx, Settled)
	if err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if snap.Results == nil || snap.Results.Hex != "#ffffff" {
		t.Errorf("Unexpected snapshot: %+v", snap)
	}
}

func TestModel_Await_ContextDone(t *testing.T) {
	m := NewModel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := m.Await(ctx, Settled); err == nil {
		t.Fatal("Expected context error, got nil")
	}
}

func TestTerminal_Render(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, func(ref string) string { return "http://backend" + ref })

	v := Multi(term, NewModel())
	v.Submitting()
	v.Progress(40, "Processing frames...")
	v.Results(NewResults("t1", &dto.ResultPayload{
		OverallColor:    [3]int{10, 20, 30},
		OverallColorHex: "#0a141e",
		TotalFrames:     2500,
		TimelineImage:   "t1_timeline.png",
		ResultsFile:     "t1_results.json",
	}))
	v.Idle()

	text := out.String()
	for _, want := range []string{
		BusyLabel,
		"40%",
		"Processing frames...",
		"[############",
		"(10, 20, 30) #0a141e",
		"Frames analyzed: 2,500",
		"http://backend/api/image/t1/t1_timeline.png",
		"http://backend/api/download/t1/t1_results.json",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, text)
		}
	}
}

func TestTerminal_Error(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, nil)

	term.Submitting()
	term.Error("decode failed")

	if !strings.HasSuffix(out.String(), "\nError: decode failed\n") {
		t.Errorf("Unexpected output %q", out.String())
	}
}
