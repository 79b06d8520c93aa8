package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"colorAverager/client/backend/backendtest"
	"colorAverager/client/config"
	"colorAverager/client/dto"
	"colorAverager/client/validation"
)

func timelinePNG(t *testing.T) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.NRGBA{uint8(x * 30), 20, 30, 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode timeline: %v", err)
	}
	return buf.Bytes()
}

func testConfig(url string) *config.Config {
	return &config.Config{
		BackendURL:   url,
		Env:          "development",
		PollInterval: 10 * time.Millisecond,
		HTTPTimeout:  5 * time.Second,
		PreviewWidth: 8,
	}
}

func TestRun_DownloadsResults(t *testing.T) {
	server := backendtest.New(t)
	server.QueueTaskIDs("t1")
	server.Script("t1", backendtest.Completed(&dto.ResultPayload{
		OverallColor:    [3]int{10, 20, 30},
		OverallColorHex: "#0a141e",
		TotalFrames:     8,
		TimelineImage:   "t1_timeline.png",
		ResultsFile:     "t1_results.json",
	}))
	server.PutFile("t1", "t1_timeline.png", timelinePNG(t))
	server.PutFile("t1", "t1_results.json", []byte(`{"overall_average":[10,20,30]}`))

	outDir := t.TempDir()
	form := validation.FormInput{URL: "https://youtu.be/abc", FrameInterval: "1", Quality: "best"}

	if err := run(testConfig(server.URL), zaptest.NewLogger(t), form, outDir, true); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "t1_results.json"))
	if err != nil {
		t.Fatalf("Results file was not downloaded: %v", err)
	}
	if string(data) != `{"overall_average":[10,20,30]}` {
		t.Errorf("Unexpected results file content %q", data)
	}
	if _, err := os.Stat(filepath.Join(outDir, "t1_timeline.png")); err != nil {
		t.Errorf("Timeline image was not downloaded: %v", err)
	}
}

func TestRun_ServerReportedError(t *testing.T) {
	server := backendtest.New(t)
	server.QueueTaskIDs("t1")
	server.Script("t1", backendtest.Failed("Error: video unavailable"))

	form := validation.FormInput{URL: "https://youtu.be/abc"}

	err := run(testConfig(server.URL), zaptest.NewLogger(t), form, "", false)
	if err == nil || err.Error() != "Error: video unavailable" {
		t.Fatalf("Expected server error message, got %v", err)
	}
}

func TestRun_InvalidForm(t *testing.T) {
	server := backendtest.New(t)

	if err := run(testConfig(server.URL), zaptest.NewLogger(t), validation.FormInput{}, "", false); err == nil {
		t.Fatal("Expected validation error, got nil")
	}
	if len(server.Submissions()) != 0 {
		t.Error("Expected nothing to be submitted")
	}
}
