package models

// ImageSignal is the weak metadata available for a page image at scan time.
type ImageSignal struct {
	SourceURL string `json:"src_url"`
	AltText   string `json:"alt_text"`
}
