package led

// Layout maps a width x height matrix onto a single LED chain.
type Layout struct {
	Width      int
	Height     int
	Serpentine bool // odd rows run right to left
}

// Index maps x,y -> linear LED index (0..N-1)
func (l Layout) Index(x, y int) int {
	xx := x
	if l.Serpentine && y%2 == 1 {
		xx = l.Width - 1 - x
	}
	return y*l.Width + xx
}

func (l Layout) Count() int {
	return l.Width * l.Height
}
