package glimpse

import "testing"

func TestSurfaceSize(t *testing.T) {
	cases := []struct {
		name          string
		width, height float64
		ratio         float64
		wantW, wantH  uint32
	}{
		{name: "integral", width: 800, height: 600, ratio: 1, wantW: 800, wantH: 600},
		{name: "retina", width: 800, height: 600, ratio: 2, wantW: 1600, wantH: 1200},
		{name: "fractional viewport", width: 800.5, height: 600.75, ratio: 2, wantW: 1601, wantH: 1201},
		{name: "fractional ratio", width: 333.4, height: 200, ratio: 1.5, wantW: 500, wantH: 300},
		{name: "missing ratio", width: 640, height: 480, ratio: 0, wantW: 640, wantH: 480},
		{name: "hidden", width: 0, height: -1, ratio: 2, wantW: 0, wantH: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := SurfaceSize(tc.width, tc.height, tc.ratio)
			if w != tc.wantW || h != tc.wantH {
				t.Fatalf("expected %dx%d, got %dx%d", tc.wantW, tc.wantH, w, h)
			}
		})
	}
}
