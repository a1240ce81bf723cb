package params

import (
	"path/filepath"
	"testing"
)

func TestWithMethodsLeaveReceiverUnchanged(t *testing.T) {
	original := Defaults()
	modified := original.WithSpectrum(SpectrumParams{Ray: RayHAlpha, DetectionThreshold: 0.3})

	if original.Spectrum.Ray != RayAuto {
		t.Errorf("original.Spectrum.Ray mutated to %v", original.Spectrum.Ray)
	}
	if modified.Spectrum.Ray != RayHAlpha {
		t.Errorf("modified.Spectrum.Ray = %v, want RayHAlpha", modified.Spectrum.Ray)
	}
}

func TestWithGeometryPreservesOtherFields(t *testing.T) {
	p := Defaults()
	tilt := 0.1
	p2 := p.WithGeometry(GeometryParams{Tilt: &tilt, HorizontalMirror: true})

	if p2.Banding != p.Banding {
		t.Errorf("Banding changed: %+v vs %+v", p2.Banding, p.Banding)
	}
	if p2.Geometry.Tilt == nil || *p2.Geometry.Tilt != 0.1 {
		t.Errorf("Tilt = %v, want 0.1", p2.Geometry.Tilt)
	}
}

func TestLoadDefaultsReturnsDefaultsWhenFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")

	p, err := LoadDefaults(path)
	if err != nil {
		t.Fatalf("LoadDefaults failed: %v", err)
	}
	if p.Banding.Passes != Defaults().Banding.Passes {
		t.Errorf("Passes = %d, want default %d", p.Banding.Passes, Defaults().Banding.Passes)
	}
}

func TestSaveAndLoadDefaultsRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	p := Defaults()
	p.Spectrum.Ray = RaySodiumD2
	p.Banding.Passes = 5

	if err := SaveDefaults(p, path); err != nil {
		t.Fatalf("SaveDefaults failed: %v", err)
	}

	loaded, err := LoadDefaults(path)
	if err != nil {
		t.Fatalf("LoadDefaults failed: %v", err)
	}
	if loaded.Spectrum.Ray != RaySodiumD2 {
		t.Errorf("Ray = %v, want RaySodiumD2", loaded.Spectrum.Ray)
	}
	if loaded.Banding.Passes != 5 {
		t.Errorf("Passes = %d, want 5", loaded.Banding.Passes)
	}
}

func TestReadFromFailsOnMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := ReadFrom(path); err == nil {
		t.Fatal("expected an error reading a missing config file")
	}
}
