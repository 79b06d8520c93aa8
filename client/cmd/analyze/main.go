package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"colorAverager/client/backend"
	"colorAverager/client/config"
	"colorAverager/client/controller"
	"colorAverager/client/kafka"
	"colorAverager/client/preview"
	"colorAverager/client/validation"
	"colorAverager/client/view"
)

func main() {
	var (
		form      validation.FormInput
		outDir    string
		showStrip bool
	)
	flag.StringVar(&form.URL, "url", "", "video URL to analyze")
	flag.StringVar(&form.FrameInterval, "frame-interval", "1", "sample every Nth frame")
	flag.StringVar(&form.MaxFrames, "max-frames", "", "maximum number of frames to sample")
	flag.StringVar(&form.Quality, "quality", validation.DefaultQuality, "download quality")
	flag.StringVar(&outDir, "out", "", "directory to download the results into")
	flag.BoolVar(&showStrip, "preview", false, "print the color timeline")
	flag.Parse()

	cfg := config.Load()

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	if err := run(cfg, logger, form, outDir, showStrip); err != nil {
		logger.Error("Analysis failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger, form validation.FormInput, outDir string, showStrip bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := backend.NewHTTPClient(cfg.BackendURL, cfg.HTTPTimeout, logger)
	model := view.NewModel()
	ui := view.Multi(model, view.NewTerminal(os.Stdout, client.URL))

	opts := []controller.Option{controller.WithPollInterval(cfg.PollInterval)}
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logger.Warn("Task events disabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.Error(err))
		} else {
			defer publisher.Close()
			opts = append(opts, controller.WithPublisher(publisher))
		}
	}

	ctrl := controller.New(client, ui, logger, opts...)
	defer ctrl.Close()

	taskID, err := ctrl.Submit(ctx, form)
	if err != nil {
		return err
	}

	snap, err := model.Await(ctx, view.Settled)
	if err != nil {
		ctrl.Reset()
		return fmt.Errorf("interrupted while waiting for task %s: %w", taskID, err)
	}
	if snap.ErrorVisible() {
		return errors.New(snap.ErrorText)
	}

	if showStrip {
		if err := printStrip(ctx, client, logger, snap.Results.ImageSrc, cfg.PreviewWidth); err != nil {
			logger.Warn("Failed to render timeline", zap.String("task_id", taskID), zap.Error(err))
		}
	}

	if outDir != "" {
		for _, ref := range []string{snap.Results.DownloadJSON, snap.Results.DownloadImage} {
			path, err := download(ctx, client, ref, outDir)
			if err != nil {
				return err
			}
			logger.Info("Downloaded", zap.String("task_id", taskID), zap.String("path", path))
		}
	}

	return nil
}

func printStrip(ctx context.Context, client *backend.HTTPClient, logger *zap.Logger, ref string, width int) error {
	var buf bytes.Buffer
	if _, err := client.Fetch(ctx, ref, &buf); err != nil {
		return err
	}

	renderer := preview.NewRenderer(logger)
	img, err := renderer.Decode(&buf)
	if err != nil {
		return err
	}

	strip, err := renderer.Strip(img, width)
	if err != nil {
		return err
	}

	fmt.Println(strip)
	return nil
}

func download(ctx context.Context, client *backend.HTTPClient, ref, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, filepath.Base(ref))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := client.Fetch(ctx, ref, dst); err != nil {
		return "", err
	}

	return path, dst.Close()
}
