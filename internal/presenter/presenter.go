// Package presenter はAPIレスポンスの表示用変換を提供する。
// 状態を持たない純粋関数のみで構成される。
package presenter

import (
	"strings"
	"time"

	"github.com/langitlangit/creatortrack/internal/model"
)

// defaultBadgeClass は未知の値に対するバッジのフォールバック。
const defaultBadgeClass = "bg-light text-dark"

// displayDateLayout は一覧表示用の日付形式。
const displayDateLayout = "2006/01/02"

// StatusBadgeClass は進行状態に対応するバッジのCSSクラスを返す。
func StatusBadgeClass(s model.Status) string {
	switch s {
	case model.StatusTodo:
		return "bg-secondary"
	case model.StatusInProgress:
		return "bg-info"
	case model.StatusReview:
		return "bg-warning"
	case model.StatusCompleted:
		return "bg-success"
	case model.StatusCancelled:
		return "bg-danger"
	default:
		return defaultBadgeClass
	}
}

// PriorityBadgeClass は優先度に対応するバッジのCSSクラスを返す。
func PriorityBadgeClass(p model.Priority) string {
	switch p {
	case model.PriorityLow:
		return "bg-secondary"
	case model.PriorityMedium:
		return "bg-info"
	case model.PriorityHigh:
		return "bg-warning"
	case model.PriorityUrgent:
		return "bg-danger"
	default:
		return defaultBadgeClass
	}
}

// FormatDate は日付を表示形式に変換する。未設定は"-"を返す。
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(displayDateLayout)
}

// DisplayName は表示名を返す。空の場合はプレースホルダーに置き換える。
func DisplayName(name string) string {
	if name == "" {
		return "-"
	}
	return name
}

// ParseTags はカンマ区切りのタグ文字列を分解する。
// 前後の空白を除去し、空要素は捨てる。
func ParseTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
