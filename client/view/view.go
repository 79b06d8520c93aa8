package view

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"colorAverager/client/backend"
	"colorAverager/client/dto"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateProgress   State = "progress"
	StateResults    State = "results"
	StateError      State = "error"
)

const (
	SubmitLabel = "Analyze Video"
	BusyLabel   = "Processing..."
)

// View is the surface the task controller renders into. Exactly one of the
// progress, results and error panels is visible at a time.
type View interface {
	// Submitting disables the submit control, hides results and errors and
	// shows the progress panel at 0%.
	Submitting()
	Progress(percent float64, message string)
	Results(r Results)
	Error(message string)
	// Idle re-enables the submit control without touching the panels.
	Idle()
	// Reset hides every panel.
	Reset()
}

// Results is the display form of a completed analysis.
type Results struct {
	RGB           [3]int
	ColorCSS      string
	RGBText       string
	Hex           string
	FrameCount    string
	ImageSrc      string
	DownloadJSON  string
	DownloadImage string
}

var printer = message.NewPrinter(language.English)

func NewResults(taskID string, p *dto.ResultPayload) Results {
	r, g, b := p.OverallColor[0], p.OverallColor[1], p.OverallColor[2]

	return Results{
		RGB:           p.OverallColor,
		ColorCSS:      fmt.Sprintf("rgb(%d, %d, %d)", r, g, b),
		RGBText:       fmt.Sprintf("(%d, %d, %d)", r, g, b),
		Hex:           p.OverallColorHex,
		FrameCount:    FormatCount(p.TotalFrames),
		ImageSrc:      backend.ImageRef(taskID, p.TimelineImage),
		DownloadJSON:  backend.DownloadRef(taskID, p.ResultsFile),
		DownloadImage: backend.DownloadRef(taskID, p.TimelineImage),
	}
}

// FormatCount renders n with English thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

type multi []View

// Multi fans every call out to each view in order.
func Multi(views ...View) View {
	return multi(views)
}

func (m multi) Submitting() {
	for _, v := range m {
		v.Submitting()
	}
}

func (m multi) Progress(percent float64, message string) {
	for _, v := range m {
		v.Progress(percent, message)
	}
}

func (m multi) Results(r Results) {
	for _, v := range m {
		v.Results(r)
	}
}

func (m multi) Error(message string) {
	for _, v := range m {
		v.Error(message)
	}
}

func (m multi) Idle() {
	for _, v := range m {
		v.Idle()
	}
}

func (m multi) Reset() {
	for _, v := range m {
		v.Reset()
	}
}
