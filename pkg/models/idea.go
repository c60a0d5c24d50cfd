// Package models defines the core domain records for video automation workflows.
package models

// Idea is a catalog entry describing a video concept. Ideas are
// read-only at run time; the catalog is consumed by index with
// wraparound.
type Idea struct {
	Slug              string   `json:"slug"              validate:"required"`
	Language          string   `json:"language"`
	CoreHook          string   `json:"coreHook"          validate:"required"`
	SettingHints      string   `json:"settingHints"`
	CoreCharacters    string   `json:"coreCharacters"`
	CoreAction        string   `json:"coreAction"`
	SafetyConstraints string   `json:"safetyConstraints"`
	StyleTags         []string `json:"styleTags"`
}
