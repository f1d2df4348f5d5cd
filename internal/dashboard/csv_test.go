package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/langitlangit/creatortrack/internal/model"
)

// TestExportCSV_Header はヘッダー行が固定の列順で出力されることを検証する。
func TestExportCSV_Header(t *testing.T) {
	got := ExportCSV(nil)
	want := "Title,Content For,Platform,Status,Priority,Assigned To,Deadline\n"
	if got != want {
		t.Errorf("ExportCSV(nil) = %q, want %q", got, want)
	}
}

// TestExportCSV_Escaping はカンマ・二重引用符・改行を含むフィールドの
// エスケープを検証する。
func TestExportCSV_Escaping(t *testing.T) {
	tasks := []model.Task{
		{
			Title:          `Hello, "World"`,
			ContentFor:     "Brand A",
			Platform:       "YouTube",
			Status:         model.StatusTodo,
			Priority:       model.PriorityHigh,
			AssignedToName: "Alice\nBob",
		},
	}

	got := ExportCSV(tasks)
	lines := strings.SplitN(got, "\n", 2)
	if len(lines) != 2 {
		t.Fatalf("missing header line: %q", got)
	}

	wantRow := `"Hello, ""World""",Brand A,YouTube,todo,high,"Alice` + "\n" + `Bob",` + "\n"
	if lines[1] != wantRow {
		t.Errorf("row = %q, want %q", lines[1], wantRow)
	}
}

// TestExportCSV_Deadline は締切の日付表示と未設定の空欄を検証する。
func TestExportCSV_Deadline(t *testing.T) {
	deadline := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	tasks := []model.Task{
		{Title: "with deadline", Status: model.StatusTodo, Priority: model.PriorityLow, Deadline: &deadline},
		{Title: "no deadline", Status: model.StatusTodo, Priority: model.PriorityLow},
	}

	got := ExportCSV(tasks)

	if !strings.Contains(got, "with deadline,,,todo,low,,2026-03-15\n") {
		t.Errorf("deadline row not found in %q", got)
	}
	if !strings.Contains(got, "no deadline,,,todo,low,,\n") {
		t.Errorf("empty deadline row not found in %q", got)
	}
}
