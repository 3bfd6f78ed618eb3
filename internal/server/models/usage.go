package models

// Usage is the character count consumed by an identity on a UTC day.
type Usage struct {
	Day   string `json:"day"`
	Used  int    `json:"used"`
	Limit int    `json:"limit"`
}
