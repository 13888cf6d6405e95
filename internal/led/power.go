package led

import "math"

// Power limits what a frame may draw from the supply.
//
//   - Brightness scales every channel (0 or 1 = unchanged).
//   - WhiteCap caps r+g+b per LED at WhiteCap*3*255 (0 or >=1 = no cap).
//   - BudgetMA is the global current budget; 0 disables it. ChanMA is the
//     draw of one channel at full scale (WS2812 ~ 20mA). Past Knee*budget
//     the frame is scaled down smoothly, past the budget hard.
type Power struct {
	Brightness float64
	WhiteCap   float64
	ChanMA     float64
	BudgetMA   float64
	Knee       float64
}

// Apply limits rgb in place.
func (p Power) Apply(rgb []byte) {
	if p.Brightness > 0 && p.Brightness < 1 {
		scaleAll(rgb, p.Brightness)
	}
	applyWhiteCap(rgb, p.WhiteCap)
	if p.BudgetMA <= 0 {
		return
	}

	chanMA := p.ChanMA
	if chanMA <= 0 {
		chanMA = 20
	}
	knee := p.Knee
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}
	total := EstimateMA(rgb, chanMA)
	if total <= 0 {
		return
	}
	ratio := total / p.BudgetMA
	if ratio <= knee {
		return
	}
	minS := p.BudgetMA / total
	if ratio <= 1 {
		t := (ratio - knee) / (1 - knee)
		scaleAll(rgb, 1-t*(1-minS))
		return
	}
	scaleAll(rgb, minS)
}

// EstimateMA returns the estimated draw of rgb in milliamps.
func EstimateMA(rgb []byte, chanMA float64) float64 {
	var sum float64
	for _, v := range rgb {
		sum += float64(v)
	}
	return sum / 255 * chanMA
}

// applyWhiteCap clamps per-LED RGB so r+g+b <= whiteCap*3*255
func applyWhiteCap(rgb []byte, whiteCap float64) {
	if whiteCap <= 0 || whiteCap >= 1 {
		return
	}
	limit := whiteCap * 3.0 * 255.0
	for i := 0; i+2 < len(rgb); i += 3 {
		s := float64(rgb[i]) + float64(rgb[i+1]) + float64(rgb[i+2])
		if s > limit && s > 0 {
			scale := limit / s
			rgb[i] = byte(math.Floor(float64(rgb[i]) * scale))
			rgb[i+1] = byte(math.Floor(float64(rgb[i+1]) * scale))
			rgb[i+2] = byte(math.Floor(float64(rgb[i+2]) * scale))
		}
	}
}

func scaleAll(rgb []byte, s float64) {
	if s >= 1 {
		return
	}
	for i, v := range rgb {
		rgb[i] = byte(math.Floor(float64(v) * s))
	}
}
