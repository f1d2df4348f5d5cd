package dashboard

import (
	"strings"

	"github.com/langitlangit/creatortrack/internal/model"
)

// csvDateLayout はエクスポートの締切日の表示形式。
const csvDateLayout = "2006-01-02"

var csvHeader = []string{"Title", "Content For", "Platform", "Status", "Priority", "Assigned To", "Deadline"}

// ExportCSV はタスク一覧をCSV文書として組み立てる。
// フィールドにカンマ・改行・二重引用符を含む場合のみ引用符で包み、
// 内部の二重引用符は二重化する。締切未設定は空欄にする。
func ExportCSV(tasks []model.Task) string {
	var b strings.Builder
	writeRecord(&b, csvHeader)

	for _, task := range tasks {
		deadline := ""
		if task.Deadline != nil {
			deadline = task.Deadline.Format(csvDateLayout)
		}
		writeRecord(&b, []string{
			task.Title,
			task.ContentFor,
			task.Platform,
			string(task.Status),
			string(task.Priority),
			task.AssignedToName,
			deadline,
		})
	}
	return b.String()
}

func writeRecord(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeField(field))
	}
	b.WriteByte('\n')
}

// escapeField は必要な場合のみフィールドを引用符で包む。
func escapeField(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
