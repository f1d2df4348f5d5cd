// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限区分を表す。
type Role string

const (
	// RoleUser は一般ユーザーを表す。
	RoleUser Role = "user"
	// RoleAdmin は管理者を表す。
	RoleAdmin Role = "admin"
)

// NormalizeRole はフォーム入力由来のロール文字列を許可リストで正規化する。
// 完全一致で "admin" の場合のみRoleAdminとなり、それ以外の値はすべてRoleUserになる。
// 任意文字列によるロール昇格を防ぐため、この正規化を緩めてはならない。
func NormalizeRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// Theme は表示テーマを表す。
type Theme string

const (
	// ThemeDark はダークテーマ。デフォルト値。
	ThemeDark Theme = "dark"
	// ThemeLight はライトテーマ。
	ThemeLight Theme = "light"
)

// NormalizeTheme はテーマ文字列を許可リストで正規化する。
// "light" 以外はすべてThemeDarkになる。
func NormalizeTheme(s string) Theme {
	if s == string(ThemeLight) {
		return ThemeLight
	}
	return ThemeDark
}

// Profile はセッションIDをキーとするアプリケーションレベルのユーザープロファイルを表す。
// usersコレクションにuidをドキュメントIDとして格納される。
type Profile struct {
	UID            string    `firestore:"uid"`
	Email          string    `firestore:"email"`
	DisplayName    string    `firestore:"displayName"`
	Role           Role      `firestore:"role"`
	Specialization string    `firestore:"specialization"`
	Theme          Theme     `firestore:"theme"`
	CreatedAt      time.Time `firestore:"createdAt"`
}

// IsAdmin は管理者プロファイルかどうかを返す。
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Session はユーザーのログインセッションを表す。
// sessionsコレクションに格納され、Cookieを介してリロードをまたいで復元される。
type Session struct {
	ID        string    `firestore:"id"`
	UID       string    `firestore:"uid"`
	Email     string    `firestore:"email"`
	ExpiresAt time.Time `firestore:"expiresAt"`
	CreatedAt time.Time `firestore:"createdAt"`
}
