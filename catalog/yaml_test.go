package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validDefinitionYAML = `
id: kerbside-parking-exit
scenario: parking-exit
name: Kerbside parking exit
description: Ego merges out of a kerbside parking space between two blockers.
trigger_points:
  - location: {x: 30, y: 0, z: 0}
    rotation: {yaw: 0}
parameters:
  front_vehicle_distance: {value: "12"}
  parking_lane_side: {value: "right"}
timeout: 120
`

func TestParseDefinitionYAML(t *testing.T) {
	def, err := ParseDefinitionYAML([]byte(validDefinitionYAML))
	if err != nil {
		t.Fatalf("ParseDefinitionYAML returned error: %v", err)
	}
	if def.ID != "kerbside-parking-exit" || def.Scenario != "parking-exit" {
		t.Fatalf("unexpected definition: %+v", def)
	}
	if len(def.Triggers) != 1 || def.Triggers[0].Location.X != 30 {
		t.Fatalf("unexpected trigger points: %+v", def.Triggers)
	}

	cfg := def.Config()
	if cfg.Name != "Kerbside parking exit" || cfg.Timeout != 120 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	front, err := cfg.Parameters.Float("front_vehicle_distance", 20)
	if err != nil || front != 12 {
		t.Fatalf("unexpected parameter: %v %v", front, err)
	}
}

func TestParseDefinitionYAMLRejectsBadPayloads(t *testing.T) {
	cases := map[string]string{
		"empty":      "   \n  ",
		"no id":      "scenario: parking-exit\ntrigger_points:\n  - location: {x: 0}\n",
		"no type":    "id: a\ntrigger_points:\n  - location: {x: 0}\n",
		"no trigger": "id: a\nscenario: parking-exit\n",
		"bad yaml":   "id: [unterminated\n",
	}
	for name, payload := range cases {
		if _, err := ParseDefinitionYAML([]byte(payload)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadDefinitionDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(validDefinitionYAML), 0644); err != nil {
		t.Fatal(err)
	}
	second := strings.Replace(validDefinitionYAML, "kerbside-parking-exit", "second-exit", 1)
	if err := os.WriteFile(filepath.Join(dir, "b.yml"), []byte(second), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644); err != nil {
		t.Fatal(err)
	}

	defs, err := LoadDefinitionDir(dir)
	if err != nil {
		t.Fatalf("LoadDefinitionDir returned error: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}
	if defs[0].Path >= defs[1].Path {
		t.Fatalf("expected sorted paths, got %s then %s", defs[0].Path, defs[1].Path)
	}
}

func TestLoadDefinitionDirMissingIsEmpty(t *testing.T) {
	defs, err := LoadDefinitionDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("expected missing dir to be tolerated: %v", err)
	}
	if defs != nil {
		t.Fatalf("expected no definitions, got %v", defs)
	}
}

func TestDiscoverMergesAndRejectsDuplicates(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	if err := os.WriteFile(filepath.Join(dirA, "a.yaml"), []byte(validDefinitionYAML), 0644); err != nil {
		t.Fatal(err)
	}
	second := strings.Replace(validDefinitionYAML, "kerbside-parking-exit", "second-exit", 1)
	if err := os.WriteFile(filepath.Join(dirB, "b.yaml"), []byte(second), 0644); err != nil {
		t.Fatal(err)
	}

	idx, err := Discover([]string{dirA, dirB})
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if got := idx.IDs(); len(got) != 2 || got[0] != "kerbside-parking-exit" || got[1] != "second-exit" {
		t.Fatalf("unexpected IDs: %v", got)
	}
	if _, ok := idx.Find("second-exit"); !ok {
		t.Fatalf("expected to find second-exit")
	}

	if err := os.WriteFile(filepath.Join(dirB, "dup.yaml"), []byte(validDefinitionYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Discover([]string{dirA, dirB}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}
