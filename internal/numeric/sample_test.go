package numeric

import "testing"

func TestBilinearSampleColumnBlendsFraction(t *testing.T) {
	width, height := 1, 4
	frame := []float64{10, 20, 30, 40}

	value, yUsed := BilinearSampleColumn(frame, width, height, 0, 1.5, 0)
	if yUsed != 1 {
		t.Errorf("yUsed = %d, want 1", yUsed)
	}
	if want := 25.0; value != want {
		t.Errorf("value = %v, want %v", value, want)
	}
}

func TestBilinearSampleColumnExactRowShortCircuits(t *testing.T) {
	width, height := 1, 4
	frame := []float64{10, 20, 30, 40}

	value, yUsed := BilinearSampleColumn(frame, width, height, 0, 2, 0)
	if yUsed != 2 || value != 30 {
		t.Errorf("value=%v yUsed=%d, want 30,2", value, yUsed)
	}
}

func TestBilinearSampleColumnClampsAtLastRow(t *testing.T) {
	width, height := 1, 4
	frame := []float64{10, 20, 30, 40}

	value, yUsed := BilinearSampleColumn(frame, width, height, 0, 3, 0)
	if yUsed != 3 || value != 40 {
		t.Errorf("value=%v yUsed=%d, want 40,3", value, yUsed)
	}
}

func TestBilinearSampleColumnFallsBackToLastYOutOfRange(t *testing.T) {
	width, height := 1, 4
	frame := []float64{10, 20, 30, 40}

	value, yUsed := BilinearSampleColumn(frame, width, height, 0, -5, 2)
	if yUsed != 2 || value != 30 {
		t.Errorf("value=%v yUsed=%d, want 30,2 (fallback to lastY)", value, yUsed)
	}

	value, yUsed = BilinearSampleColumn(frame, width, height, 0, 99, 1)
	if yUsed != 1 || value != 20 {
		t.Errorf("value=%v yUsed=%d, want 20,1 (fallback to lastY)", value, yUsed)
	}
}

func TestBilinearSampleColumnInvariantStaysInPixelRange(t *testing.T) {
	width, height := 1, 4
	frame := []float64{0, 20000, 65535, 40000}

	for _, yd := range []float64{-10, -0.5, 0, 0.25, 1.9, 2.0, 3.0, 3.5, 10} {
		value, _ := BilinearSampleColumn(frame, width, height, 0, yd, 0)
		if value < 0 || value > 65535 {
			t.Errorf("yd=%v produced out-of-range value %v", yd, value)
		}
	}
}
