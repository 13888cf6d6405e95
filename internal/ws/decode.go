package ws

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/coreman2200/arcaluminis-marquee/internal/frame"
	"github.com/coreman2200/arcaluminis-marquee/internal/surface"
	"github.com/coreman2200/arcaluminis-marquee/internal/worker"
)

var (
	ErrNotObject       = errors.New("ws: control message is not a JSON object")
	ErrImageInText     = errors.New("ws: image must be sent as a binary message")
	ErrUnsupportedKind = errors.New("ws: unsupported websocket message type")
	ErrTooLarge        = errors.New("ws: message exceeds limits")
)

// Limits bound what a control client can make the worker allocate.
type Limits struct {
	// MaxSide caps canvas dimensions and frame display dimensions. The
	// display size of the first frame sizes the pattern surface.
	MaxSide int
	// MaxMessageBytes caps one websocket message, so it also caps the
	// coded size of a frame.
	MaxMessageBytes int64
}

func DefaultLimits() Limits {
	return Limits{MaxSide: 4096, MaxMessageBytes: 16 << 20}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxSide <= 0 {
		l.MaxSide = d.MaxSide
	}
	if l.MaxMessageBytes <= 0 {
		l.MaxMessageBytes = d.MaxMessageBytes
	}
	return l
}

type canvasJSON struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type controlJSON struct {
	Canvas *canvasJSON     `json:"canvas"`
	Pause  bool            `json:"pause"`
	Image  json.RawMessage `json:"image"`
}

// Decode is DefaultLimits().Decode.
func Decode(messageType int, data []byte) (worker.Message, error) {
	return DefaultLimits().Decode(messageType, data)
}

// Decode turns one websocket message into a worker message. Text messages
// carry JSON control objects; binary messages carry a decoded frame. Any
// error means the message should be dropped.
func (l Limits) Decode(messageType int, data []byte) (worker.Message, error) {
	l = l.withDefaults()
	if int64(len(data)) > l.MaxMessageBytes {
		return worker.Message{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	switch messageType {
	case websocket.BinaryMessage:
		f, err := frame.Decode(data)
		if err != nil {
			return worker.Message{}, err
		}
		if f.DisplayWidth > l.MaxSide || f.DisplayHeight > l.MaxSide {
			_ = f.Close()
			return worker.Message{}, fmt.Errorf("%w: display %dx%d", ErrTooLarge, f.DisplayWidth, f.DisplayHeight)
		}
		return worker.Message{Image: f}, nil
	case websocket.TextMessage:
		return l.decodeControl(data)
	default:
		return worker.Message{}, fmt.Errorf("%w: %d", ErrUnsupportedKind, messageType)
	}
}

func (l Limits) decodeControl(data []byte) (worker.Message, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return worker.Message{}, ErrNotObject
	}
	var in controlJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return worker.Message{}, fmt.Errorf("ws: bad control json: %w", err)
	}
	if in.Canvas != nil {
		if in.Canvas.Width > l.MaxSide || in.Canvas.Height > l.MaxSide {
			return worker.Message{}, fmt.Errorf("%w: canvas %dx%d", ErrTooLarge, in.Canvas.Width, in.Canvas.Height)
		}
		c, err := surface.NewCanvas(in.Canvas.Width, in.Canvas.Height)
		if err != nil {
			return worker.Message{}, err
		}
		return worker.Message{Canvas: c}, nil
	}
	if in.Pause {
		return worker.Message{Pause: true}, nil
	}
	if len(in.Image) > 0 && !bytes.Equal(in.Image, []byte("null")) {
		return worker.Message{}, ErrImageInText
	}
	return worker.Message{}, nil
}
