package worker

// Status is a read-only snapshot of a session, safe to read from any
// goroutine.
type Status struct {
	Session       string    `json:"session"`
	State         State     `json:"state"`
	Ready         bool      `json:"ready"`
	CanvasWidth   int       `json:"canvas_width,omitempty"`
	CanvasHeight  int       `json:"canvas_height,omitempty"`
	Text          string    `json:"text"`
	TextWidth     float64   `json:"text_width"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
	Dir           Direction `json:"dir"`
	Setups        int       `json:"setups"`
	Ticks         uint64    `json:"ticks"`
	Images        uint64    `json:"images"`
	PatternFill   bool      `json:"pattern_fill"`
	PatternWidth  int       `json:"pattern_width,omitempty"`
	PatternHeight int       `json:"pattern_height,omitempty"`
}

// Status returns the snapshot taken after the last handled event.
func (s *Session) Status() Status { return *s.status.Load() }

func (s *Session) publishStatus() {
	st := &Status{
		Session:   s.id,
		State:     s.State(),
		Ready:     s.dc != nil,
		Text:      s.anim.Text,
		TextWidth: s.textWidth,
		X:         s.anim.X,
		Y:         s.anim.Y,
		Dir:       s.anim.Dir,
		Setups:    s.setups,
		Ticks:     s.ticks,
		Images:    s.images,
	}
	if s.canvas != nil {
		st.CanvasWidth, st.CanvasHeight = s.canvas.Width(), s.canvas.Height()
	}
	if s.dc != nil {
		st.PatternFill = s.dc.Fill().IsPattern()
	}
	st.PatternWidth, st.PatternHeight = s.comp.Size()
	s.status.Store(st)
}
