// internal/domain/geo/geo_test.go

package geo

import (
	"math"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		loc     Location
		wantErr bool
	}{
		{"valid", Location{Latitude: 14.5547, Longitude: 121.0244}, false},
		{"zero", Location{}, false},
		{"lat too high", Location{Latitude: 90.1}, true},
		{"lat too low", Location{Latitude: -90.1}, true},
		{"lng too high", Location{Longitude: 180.1}, true},
		{"lng too low", Location{Longitude: -180.1}, true},
		{"lat boundary", Location{Latitude: 90, Longitude: -180}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.loc.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	// Two points in Makati, roughly 2.7km apart.
	a := Location{Latitude: 14.5547, Longitude: 121.0244}
	b := Location{Latitude: 14.5507, Longitude: 121.0494}

	d := Distance(a, b)
	if d < 2.5 || d > 3.2 {
		t.Errorf("Distance() = %f, want roughly 2.7km", d)
	}

	if got := Distance(a, a); got != 0 {
		t.Errorf("Distance() to self = %f, want 0", got)
	}

	if Distance(a, b) != Distance(b, a) {
		t.Error("Distance() is not symmetric")
	}
}

func TestWithinBox(t *testing.T) {
	center := Location{Latitude: 14.550, Longitude: 121.020}

	tests := []struct {
		name    string
		other   Location
		degrees float64
		want    bool
	}{
		{"same point", center, SamePointDegrees, true},
		{"inside both axes", Location{Latitude: 14.5505, Longitude: 121.0205}, SamePointDegrees, true},
		{"outside latitude only", Location{Latitude: 14.552, Longitude: 121.020}, SamePointDegrees, false},
		{"outside longitude only", Location{Latitude: 14.550, Longitude: 121.022}, SamePointDegrees, false},
		{"cluster threshold edge", Location{Latitude: 14.555, Longitude: 121.025}, ClusterDegrees, true},
		{"just past cluster threshold", Location{Latitude: 14.5551, Longitude: 121.020}, ClusterDegrees, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinBox(center, tt.other, tt.degrees); got != tt.want {
				t.Errorf("WithinBox() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoundCoord(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{14.5547, 14.555},
		{14.5544, 14.554},
		{-121.0246, -121.025},
		{0, 0},
	}

	for _, tt := range tests {
		if got := RoundCoord(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("RoundCoord(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestPointKey(t *testing.T) {
	if got := PointKey(14.5547, 121.0244); got != "14.555,121.024" {
		t.Errorf("PointKey() = %q, want %q", got, "14.555,121.024")
	}

	// Points on the same grid cell share a key.
	if PointKey(14.5547, 121.0244) != PointKey(14.5551, 121.0241) {
		t.Error("points in the same grid cell should share a key")
	}
}

func TestQueryShape(t *testing.T) {
	anchor := Location{Latitude: 14.55, Longitude: 121.02}

	anchored := Query{Anchor: &anchor, RadiusKm: 5}
	if !anchored.Anchored() {
		t.Error("query with anchor and radius should be anchored")
	}
	if anchored.Unconstrained() {
		t.Error("anchored query should not be unconstrained")
	}

	capped := Query{Caps: []Cap{{Center: anchor, RadiusKm: 2}}}
	if capped.Anchored() {
		t.Error("cap-union query should not be anchored")
	}
	if capped.Unconstrained() {
		t.Error("cap-union query should not be unconstrained")
	}

	var free Query
	if !free.Unconstrained() {
		t.Error("zero query should be unconstrained")
	}

	// An anchor with no radius does not constrain anything.
	noRadius := Query{Anchor: &anchor}
	if noRadius.Anchored() {
		t.Error("anchor without radius should not be anchored")
	}
}
