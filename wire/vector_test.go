package wire

import (
	"math"
	"testing"
)

func TestVectorAngleFromRotatedBy(t *testing.T) {
	tests := []struct {
		name  string
		start Vector
		delta float64
	}{
		{"unit x rotated 90", NewVector(1, 0), 90},
		{"unit y rotated 45", NewVector(0, 1), 45},
		{"arbitrary rotated 270", NewVector(3, 4), 270},
		{"negative rotation", NewVector(5, -2), -30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseAngle := tt.start.Angle()
			rotated := tt.start.RotatedBy(tt.delta)
			want := math.Mod(baseAngle+tt.delta+360*100, 360)
			got := rotated.Angle()
			diff := math.Abs(got - want)
			if diff > 180 {
				diff = 360 - diff
			}
			if diff > 1e-6 {
				t.Fatalf("angle mismatch: got %v, want %v (start angle %v)", got, want, baseAngle)
			}
		})
	}
}

func TestVectorZeroKeepsLastAngle(t *testing.T) {
	v := NewVector(1, 0).SetAngle(45)
	zero := NewVector(0, 0)
	zero.lastAngle = v.Angle()
	if zero.Angle() != v.Angle() {
		t.Fatalf("expected zero vector to report last angle %v, got %v", v.Angle(), zero.Angle())
	}
}

func TestVectorIsFinite(t *testing.T) {
	if !NewVector(1, 2).IsFinite() {
		t.Fatalf("expected finite vector to report finite")
	}
	if NewVector(math.Inf(1), 0).IsFinite() {
		t.Fatalf("expected infinite vector to report non-finite")
	}
	if NewVector(math.NaN(), 0).IsFinite() {
		t.Fatalf("expected NaN vector to report non-finite")
	}
}

func TestVectorLength(t *testing.T) {
	v := NewVector(3, 4)
	if v.Length() != 5 {
		t.Fatalf("Length() = %v, want 5", v.Length())
	}
}
