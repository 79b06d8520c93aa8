package view

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"colorAverager/client/preview"
)

const barWidth = 30

// Terminal renders the panels as text. Resolve turns server-relative image
// and download references into absolute URLs; nil leaves them as is.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	resolve func(ref string) string
	bar     *progressbar.ProgressBar
}

func NewTerminal(out io.Writer, resolve func(ref string) string) *Terminal {
	if resolve == nil {
		resolve = func(ref string) string { return ref }
	}
	return &Terminal{out: out, resolve: resolve}
}

func (t *Terminal) Submitting() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.endLine()
	fmt.Fprintln(t.out, BusyLabel)

	t.bar = progressbar.NewOptions(100,
		progressbar.OptionSetWriter(t.out),
		progressbar.OptionSetWidth(barWidth),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(0),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "#",
			SaucerPadding: ".",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	t.bar.RenderBlank()
}

func (t *Terminal) Progress(percent float64, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bar == nil {
		return
	}

	value := int(percent)
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}

	t.bar.Describe(message)
	t.bar.Set(value)
}

func (t *Terminal) Results(r Results) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.endLine()
	swatch := preview.Block(r.RGB[0], r.RGB[1], r.RGB[2], 4)
	fmt.Fprintf(t.out, "Overall color:   %s %s %s\n", swatch, r.RGBText, r.Hex)
	fmt.Fprintf(t.out, "Frames analyzed: %s\n", r.FrameCount)
	fmt.Fprintf(t.out, "Timeline image:  %s\n", t.resolve(r.ImageSrc))
	fmt.Fprintf(t.out, "Download JSON:   %s\n", t.resolve(r.DownloadJSON))
	fmt.Fprintf(t.out, "Download image:  %s\n", t.resolve(r.DownloadImage))
}

func (t *Terminal) Error(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.endLine()
	fmt.Fprintf(t.out, "Error: %s\n", message)
}

func (t *Terminal) Idle() {}

func (t *Terminal) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.endLine()
}

// endLine moves past the progress bar, which redraws in place.
func (t *Terminal) endLine() {
	if t.bar != nil {
		fmt.Fprintln(t.out)
		t.bar = nil
	}
}
