package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReportFile_Write(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "campaign_summary.md")

	sink := NewReportFile(path)
	if err := sink.Write("# Campaign Summary\n\nTotal leads: 5\n"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "# Campaign Summary\n\nTotal leads: 5\n" {
		t.Errorf("report content = %q", raw)
	}
}

func TestReportFile_Overwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.md")
	sink := NewReportFile(path)

	if err := sink.Write("first"); err != nil {
		t.Fatal(err)
	}
	if err := sink.Write("second"); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "second" {
		t.Errorf("report content = %q, want latest write", raw)
	}
}

func TestReportFile_UnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	sink := NewReportFile(filepath.Join(blocker, "summary.md"))
	err := sink.Write("report")
	if !errors.Is(err, ErrUnwritable) {
		t.Errorf("err = %v, want ErrUnwritable", err)
	}
}
