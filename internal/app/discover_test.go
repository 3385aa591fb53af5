package app

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/quinox/nginx-tail/internal/config"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sites", "alpha", "access.log"))
	writeFile(t, filepath.Join(dir, "sites", "beta", "access.log"))
	writeFile(t, filepath.Join(dir, "sites", "beta", "error.log"))
	writeFile(t, filepath.Join(dir, "access.log"))

	files, err := discover([]string{dir}, "access.log")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "access.log"),
		filepath.Join(dir, "sites", "alpha", "access.log"),
		filepath.Join(dir, "sites", "beta", "access.log"),
	}
	if !slices.Equal(files, want) {
		t.Fatalf("discover = %v, want %v", files, want)
	}
}

func TestDiscoverExplicitFileAnyName(t *testing.T) {
	dir := t.TempDir()
	odd := filepath.Join(dir, "error.log")
	writeFile(t, odd)

	files, err := discover([]string{odd}, "access.log")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(files, []string{odd}) {
		t.Fatalf("discover = %v, want %v", files, []string{odd})
	}
}

func TestDiscoverDeduplicates(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "access.log")
	writeFile(t, file)

	files, err := discover([]string{file, dir, file}, "access.log")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(files, []string{file}) {
		t.Fatalf("discover = %v, want %v", files, []string{file})
	}
}

func TestDiscoverNothingFoundIsFatal(t *testing.T) {
	dir := t.TempDir()
	if _, err := discover([]string{dir}, "access.log"); err == nil {
		t.Fatal("want error for empty result")
	}
	if _, err := discover([]string{filepath.Join(dir, "missing")}, "access.log"); err == nil {
		t.Fatal("want error when the only argument does not exist")
	}
}

func TestMeterFactoryFollowsConfig(t *testing.T) {
	tests := []struct {
		estimator string
		want      string
	}{
		{config.EstimatorRing, "*speed.Ring"},
		{config.EstimatorInstant, "*speed.Instant"},
		{config.EstimatorSmooth, "*speed.Smoothed"},
	}
	for _, tt := range tests {
		t.Run(tt.estimator, func(t *testing.T) {
			cfg := config.Default()
			cfg.Estimator = tt.estimator
			if got := fmt.Sprintf("%T", meterFactory(cfg)()); got != tt.want {
				t.Fatalf("meter type = %s, want %s", got, tt.want)
			}
		})
	}
}
