package model

import (
	"testing"
)

func TestParseBitrate(t *testing.T) {
	tests := []struct {
		input   string
		want    Bitrate
		wantErr bool
	}{
		{"128", Bitrate128, false},
		{"192", Bitrate192, false},
		{"320", Bitrate320, false},
		{"256", 0, true},
		{"0", 0, true},
		{"", 0, true},
		{"best", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseBitrate(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseBitrate(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBitrate(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBitrate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDefaultBitrate(t *testing.T) {
	if DefaultBitrate != Bitrate192 {
		t.Errorf("Expected default bitrate 192, got %v", DefaultBitrate)
	}

	if !DefaultBitrate.Valid() {
		t.Error("Expected default bitrate to be a valid preset")
	}
}

func TestBitrateQuality(t *testing.T) {
	if got := Bitrate320.Quality(); got != "320K" {
		t.Errorf("Expected quality '320K', got %q", got)
	}

	if got := Bitrate192.String(); got != "192" {
		t.Errorf("Expected string '192', got %q", got)
	}
}

func TestBitrates(t *testing.T) {
	all := Bitrates()
	if len(all) != 3 {
		t.Fatalf("Expected 3 presets, got %d", len(all))
	}

	for _, b := range all {
		if !b.Valid() {
			t.Errorf("Expected %v to be valid", b)
		}
	}
}
