package hal

import "testing"

func TestRGB565RoundTrip(t *testing.T) {
	cases := []struct {
		r, g, b uint8
	}{
		{0, 0, 0},
		{0xFF, 0xFF, 0xFF},
		{0xFF, 0, 0},
		{0, 0, 0xFF},
		{0xE0, 0xE0, 0xE0},
	}
	for _, c := range cases {
		r, g, b := RGB888From565(RGB565(c.r, c.g, c.b))
		if diff(r, c.r) > 8 || diff(g, c.g) > 4 || diff(b, c.b) > 8 {
			t.Fatalf("(%d,%d,%d) -> (%d,%d,%d)", c.r, c.g, c.b, r, g, b)
		}
	}
}

func TestFramebufferClearAndSnapshot(t *testing.T) {
	fb := newHostFramebuffer(3, 2)
	fb.ClearRGB(0xFF, 0, 0)

	pix := make([]byte, 3*2*4)
	fb.snapshotRGBA(pix)
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != 0xFF || pix[i+1] != 0 || pix[i+2] != 0 || pix[i+3] != 0xFF {
			t.Fatalf("pixel %d = %v, want opaque red", i/4, pix[i:i+4])
		}
	}
}

func diff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
