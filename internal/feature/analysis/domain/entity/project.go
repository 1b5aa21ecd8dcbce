// Package entity はanalysisフィーチャーのドメインモデルを定義します。
package entity

import "time"

// Project is one completed analysis, owned by the user who submitted it.
// UserID holds the owner's email at creation time and UserName the display
// name at creation time: both are value snapshots, never refreshed when the
// user record changes later. Projects are append-only.
type Project struct {
	// ID is a unique string identifier.
	ID string `json:"id"`

	// UserID is the owning user's email, captured at creation.
	UserID string `json:"userId"`

	// UserName is the owner's display name, captured at creation.
	UserName string `json:"userName,omitempty"`

	// Date is the creation timestamp; listings are ordered by it, newest first.
	Date time.Time `json:"date"`

	// Title is a time-based display string, not unique.
	Title string `json:"title"`

	// OriginalContentPreview holds the first 100 characters of the submitted content.
	OriginalContentPreview string `json:"originalContentPreview"`

	// FullResponse is the complete provider response, kept for re-rendering.
	FullResponse string `json:"fullResponse"`

	// セマンティクス上は0〜100ですが範囲の強制は行いません。
	SEOScore int `json:"seoScore"`
	AEOScore int `json:"aeoScore"`
	GEOScore int `json:"geoScore"`
}
