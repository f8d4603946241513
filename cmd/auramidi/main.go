package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/auramidi/internal/app"
	"github.com/ayusman/auramidi/internal/calibration"
	"github.com/ayusman/auramidi/internal/capture"
	"github.com/ayusman/auramidi/internal/config"
	"github.com/ayusman/auramidi/internal/detector"
	"github.com/ayusman/auramidi/internal/logging"
	"github.com/ayusman/auramidi/internal/midi"
	"github.com/ayusman/auramidi/internal/render"
	"github.com/ayusman/auramidi/internal/server"
	"github.com/ayusman/auramidi/internal/store"
	"github.com/ayusman/auramidi/internal/trigger"
	"github.com/ayusman/auramidi/internal/zone"
)

// HighGUI windows must be driven from the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "auramidi: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "auramidi: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runSession(ctx, cfg, logger); err != nil {
		logger.Error("auramidi stopped", zap.Error(err))
		return 1
	}
	return 0
}

// runSession acquires every resource, runs the frame loop and releases
// everything in reverse order.
func runSession(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	band, err := calibration.Load(cfg.CalibrationFile, cfg.Profile)
	if err != nil {
		return fmt.Errorf("load calibration: %w", err)
	}
	values := band.Values()
	logger.Info("calibration loaded",
		zap.String("file", cfg.CalibrationFile),
		zap.String("profile", cfg.Profile),
		zap.Ints("band", values[:]),
	)

	defer gomidi.CloseDriver()
	logger.Info("MIDI outputs available", zap.Any("ports", midi.ListOutputs()))

	port, err := midi.Open(cfg.MIDIPort, logger)
	if err != nil {
		return fmt.Errorf("open MIDI output: %w", err)
	}
	defer port.Close()

	camera := capture.NewCamera(cfg.CameraID)
	if err := camera.Open(); err != nil {
		return err
	}
	defer camera.Close()

	colour := detector.NewColorDetector()
	defer colour.Close()

	var (
		source  calibration.Source = calibration.Static(band)
		display render.Display     = render.Headless{}
	)
	if !cfg.Headless {
		bars := calibration.NewTrackbars(band)
		defer bars.Close()
		windows := render.NewWindows()
		defer windows.Close()
		source, display = bars, windows
	}

	layout := zone.Default()
	notes := trigger.DefaultNotes()
	history := openHistory(cfg, band, port.Name(), logger)
	if history != nil {
		defer history.close()
	}

	var (
		hub    *server.EventHub
		frames *server.FrameBuffer
	)
	if cfg.ServerEnabled() {
		hub = server.NewEventHub(logger)
		frames = server.NewFrameBuffer()
	}

	onTrigger := func(ev trigger.Event) {
		if history != nil {
			history.record(ev)
		}
		if hub != nil {
			hub.Publish(ev)
		}
	}
	var onFrame func(gocv.Mat)
	if frames != nil {
		onFrame = func(frame gocv.Mat) {
			if err := frames.Update(frame); err != nil {
				logger.Warn("preview frame dropped", zap.Error(err))
			}
		}
	}

	loop, err := app.New(app.Config{
		Camera:    camera,
		Detector:  colour,
		Band:      source,
		Display:   display,
		Emitter:   trigger.NewEmitter(port, logger),
		Layout:    layout,
		Notes:     &notes,
		Logger:    logger,
		OnTrigger: onTrigger,
		OnFrame:   onFrame,
	})
	if err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverDone := make(chan struct{})
	if cfg.ServerEnabled() {
		cfgServer := server.Config{
			Layout:   layout,
			Notes:    &notes,
			Frames:   frames,
			Events:   hub,
			Counters: loop,
			Logger:   logger,
		}
		if history != nil {
			cfgServer.Store = history.store
		}
		srv := server.New(cfgServer)

		go func() {
			defer close(serverDone)
			if err := srv.ListenAndServe(loopCtx, cfg.HTTPAddr); err != nil {
				logger.Warn("status server stopped", zap.Error(err))
			}
		}()
	} else {
		close(serverDone)
	}

	err = loop.Run(loopCtx)

	cancel()
	if frames != nil {
		frames.Close()
	}
	<-serverDone

	return err
}

// history records the session and its triggers. Failures are logged and never
// stop the frame loop.
type history struct {
	store   *store.Store
	session *store.Session
	logger  *zap.Logger
}

func openHistory(cfg config.Config, band calibration.Band, port string, logger *zap.Logger) *history {
	if !cfg.HistoryEnabled() {
		return nil
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		logger.Warn("session history disabled", zap.String("path", cfg.DBPath), zap.Error(err))
		return nil
	}

	sess, err := st.Sessions().Start(cfg.Profile, band, port)
	if err != nil {
		logger.Warn("session history disabled", zap.Error(err))
		st.Close()
		return nil
	}

	logger.Info("session started", zap.String("session", sess.ID), zap.String("db", cfg.DBPath))
	return &history{store: st, session: sess, logger: logger}
}

func (h *history) record(ev trigger.Event) {
	if _, err := h.store.Triggers().Record(h.session.ID, ev); err != nil {
		h.logger.Warn("trigger not recorded", zap.Error(err))
	}
}

func (h *history) close() {
	if err := h.store.Sessions().End(h.session.ID); err != nil {
		h.logger.Warn("session end not recorded", zap.Error(err))
	}
	h.store.Close()
}
