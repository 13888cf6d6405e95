package worker

import (
	"fmt"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Options fix what a session draws. They do not change after the session
// is created.
type Options struct {
	Text     string
	FontPath string  // TTF/OTF file; empty selects Go Regular
	FontSize float64 // points at 72 DPI, i.e. pixels
	Baseline float64 // text baseline y; 0 centers vertically on the canvas
	Color    string  // hex solid fill used until a pattern arrives
	// FrameSource is announced to the host after setup.
	FrameSource string
}

func DefaultOptions() Options {
	return Options{
		Text:        "Hello, World!",
		FontSize:    48,
		Color:       "#000000",
		FrameSource: "camera",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Text == "" {
		o.Text = d.Text
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.Color == "" {
		o.Color = d.Color
	}
	if o.FrameSource == "" {
		o.FrameSource = d.FrameSource
	}
	return o
}

func loadFont(path string) (*text.FontSource, error) {
	if path == "" {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("load default font: %w", err)
		}
		return src, nil
	}
	src, err := text.NewFontSourceFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", path, err)
	}
	return src, nil
}
