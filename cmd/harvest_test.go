package cmd

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metadown/profile"
)

func newTestCommand() *cobra.Command {
	c := &cobra.Command{Use: "harvest"}
	c.Flags().String("mode", "supplemental", "")
	c.Flags().String("namer", "url", "")
	c.Flags().String("output", ".", "")
	return c
}

func TestResolveCatalog(t *testing.T) {
	profile.SetConfigDir(t.TempDir())
	t.Cleanup(func() { profile.SetConfigDir("") })

	p := &profile.Profile{
		Name:    "noaa",
		BaseURL: "https://data.example.org/geonetwork",
		Mode:    "keywords",
		Namer:   "uuid",
		Output:  "records/noaa",
	}
	if err := p.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Run("profile settings apply", func(t *testing.T) {
		harvestCatalog = "noaa"
		t.Cleanup(func() { harvestCatalog = "" })

		cfg := Config{Mode: "supplemental", Namer: "url", Output: "."}
		base, label, err := resolveCatalog(newTestCommand(), nil, &cfg)
		if err != nil {
			t.Fatalf("resolveCatalog failed: %v", err)
		}
		if base != p.BaseURL || label != "noaa" {
			t.Errorf("resolveCatalog = %q, %q", base, label)
		}
		if cfg.Mode != "keywords" || cfg.Namer != "uuid" || cfg.Output != "records/noaa" {
			t.Errorf("cfg = %+v, want profile settings", cfg)
		}
	})

	t.Run("flags override profile", func(t *testing.T) {
		harvestCatalog = "noaa"
		t.Cleanup(func() { harvestCatalog = "" })

		c := newTestCommand()
		if err := c.Flags().Set("mode", "supplemental"); err != nil {
			t.Fatal(err)
		}

		cfg := Config{Mode: "supplemental", Namer: "url", Output: "."}
		if _, _, err := resolveCatalog(c, nil, &cfg); err != nil {
			t.Fatalf("resolveCatalog failed: %v", err)
		}
		if cfg.Mode != "supplemental" {
			t.Errorf("Mode = %q, want the flag value", cfg.Mode)
		}
		if cfg.Namer != "uuid" {
			t.Errorf("Namer = %q, want the profile value", cfg.Namer)
		}
	})

	t.Run("base url argument", func(t *testing.T) {
		cfg := Config{}
		base, label, err := resolveCatalog(newTestCommand(), []string{"http://gn"}, &cfg)
		if err != nil {
			t.Fatalf("resolveCatalog failed: %v", err)
		}
		if base != "http://gn" || label != "http://gn" {
			t.Errorf("resolveCatalog = %q, %q", base, label)
		}
	})

	t.Run("errors", func(t *testing.T) {
		cfg := Config{}
		if _, _, err := resolveCatalog(newTestCommand(), nil, &cfg); err == nil {
			t.Error("expected error with no catalog")
		}

		harvestCatalog = "missing"
		t.Cleanup(func() { harvestCatalog = "" })
		if _, _, err := resolveCatalog(newTestCommand(), nil, &cfg); err == nil {
			t.Error("expected error for unknown profile")
		}
		if _, _, err := resolveCatalog(newTestCommand(), []string{"http://gn"}, &cfg); err == nil {
			t.Error("expected error with both URL and --catalog")
		}
	})
}
