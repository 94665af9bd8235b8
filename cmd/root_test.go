package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LdDl/strokematch/strokematch"
	"github.com/pkg/errors"
)

const testDictionary = `[
	{"character": "一", "medians": [[[100, 500], [900, 500]]]},
	{"character": "人", "medians": [[[500, 850], [380, 350], [200, 150]], [[480, 550], [800, 150]]]}
]`

func writeTestFiles(t *testing.T) (dir string) {
	t.Helper()
	dir = t.TempDir()
	files := map[string]string{
		"dictionary.json": testDictionary,
		"shifted.json":    `[[[120, 520], [520, 520], [920, 520]]]`,
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	characterID = ""
	entryIndex = -1
	err := rootCmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	dir := writeTestFiles(t)
	out, err := runRoot(t, "list", "--dict", filepath.Join(dir, "dictionary.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "2 character(s)") || !strings.Contains(out, "人") {
		t.Errorf("Unexpected list output:\n%s", out)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := writeTestFiles(t)
	out, err := runRoot(t, "check",
		"--dict", filepath.Join(dir, "dictionary.json"),
		"--settings", filepath.Join(dir, "settings.json"),
		"--strokes", filepath.Join(dir, "shifted.json"),
		"--character", "一",
		"--trials", "500",
		"--seed", "7",
	)
	if err != nil {
		t.Fatal(err)
	}
	var parsed struct {
		Character string                   `json:"character"`
		Search    strokematch.SearchResult `json:"search"`
		Result    strokematch.ScoreResult  `json:"result"`
		Worst     []strokematch.SampleRef  `json:"worst"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("Can't parse output: %v\n%s", err, out)
	}
	if parsed.Character != "一" {
		t.Errorf("Expected character '一', got '%s'", parsed.Character)
	}
	if parsed.Search.Trials != 500 {
		t.Errorf("Expected 500 trials, got %d", parsed.Search.Trials)
	}
	if len(parsed.Worst) != 5 {
		t.Errorf("Expected 5 worst samples, got %d", len(parsed.Worst))
	}
	if _, err := os.Stat(filepath.Join(dir, "settings.json")); err != nil {
		t.Errorf("Expected default settings file to be created: %v", err)
	}
}

func TestScoreCommandMismatch(t *testing.T) {
	dir := writeTestFiles(t)
	_, err := runRoot(t, "score",
		"--dict", filepath.Join(dir, "dictionary.json"),
		"--settings", filepath.Join(dir, "settings.json"),
		"--strokes", filepath.Join(dir, "shifted.json"),
		"--index", "1",
	)
	if !errors.Is(err, strokematch.ErrMismatchedStrokeCount) {
		t.Errorf("Expected ErrMismatchedStrokeCount, got %v", err)
	}
}
