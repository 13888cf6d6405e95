// Command hostsim plays the host side of the marquee protocol: it hands the
// worker a canvas, waits for the frame source announcement, resumes the
// loop and streams synthetic frames, pausing now and then.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcaluminis-marquee/internal/frame"
	"github.com/coreman2200/arcaluminis-marquee/internal/worker"
)

func main() {
	var (
		url        = flag.String("url", "ws://localhost:8080/control", "worker control endpoint")
		width      = flag.Int("width", 800, "canvas width")
		height     = flag.Int("height", 100, "canvas height")
		frames     = flag.Int("frames", 600, "frames to stream (0 = forever)")
		fps        = flag.Int("fps", 30, "frames per second")
		pauseEvery = flag.Int("pause-every", 150, "pause for one second every N frames (0 = never)")
		codedW     = flag.Int("coded-width", 160, "synthetic frame width")
		codedH     = flag.Int("coded-height", 90, "synthetic frame height")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *url, *width, *height, *frames, *fps, *pauseEvery, *codedW, *codedH); err != nil {
		log.Fatal().Err(err).Msg("hostsim failed")
	}
}

func run(ctx context.Context, url string, width, height, frames, fps, pauseEvery, codedW, codedH int) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to worker: %w", err)
	}
	defer conn.Close()

	announced := make(chan string, 1)
	go readPump(conn, announced)

	if err := sendJSON(conn, map[string]any{"canvas": map[string]int{"width": width, "height": height}}); err != nil {
		return err
	}
	select {
	case src := <-announced:
		log.Info().Str("framesource", src).Msg("worker ready")
	case <-time.After(5 * time.Second):
		return fmt.Errorf("no framesource announcement")
	case <-ctx.Done():
		return nil
	}
	if err := sendJSON(conn, map[string]any{}); err != nil {
		return err
	}

	gen := newSynth(codedW, codedH)
	defer gen.Close()

	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for n := 1; frames == 0 || n <= frames; n++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		msg := frame.Encode(gen.frame(n), codedW*2, codedH*2)
		if err := write(conn, websocket.BinaryMessage, msg); err != nil {
			return err
		}
		if pauseEvery > 0 && n%pauseEvery == 0 {
			log.Info().Int("frame", n).Msg("pause")
			if err := sendJSON(conn, map[string]any{"pause": true}); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			log.Info().Msg("resume")
			if err := sendJSON(conn, map[string]any{}); err != nil {
				return err
			}
		}
	}
	log.Info().Int("frames", frames).Msg("done")
	return sendJSON(conn, map[string]any{"pause": true})
}

// readPump logs worker messages and forwards the frame source announcement.
func readPump(conn *websocket.Conn, announced chan<- string) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("read")
			}
			return
		}
		var out worker.Outbound
		if err := json.Unmarshal(data, &out); err != nil || out.FrameSource == "" {
			log.Debug().Bytes("data", data).Msg("unexpected message")
			continue
		}
		select {
		case announced <- out.FrameSource:
		default:
		}
	}
}

func sendJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return write(conn, websocket.TextMessage, b)
}

func write(conn *websocket.Conn, messageType int, b []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteMessage(messageType, b); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
