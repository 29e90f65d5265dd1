package model

import "strings"

// Candidate is a raw record as returned by the extraction gateway.
// Zero values mean the field was absent.
type Candidate struct {
	Date       string  `json:"date,omitempty"`
	LabourName string  `json:"labourName,omitempty"`
	SiteName   string  `json:"siteName,omitempty"`
	BaseSalary float64 `json:"baseSalary,omitempty"`
	Day        float64 `json:"day,omitempty"`
	OTHours    float64 `json:"otHours,omitempty"`
}

// ExtractionResult is the gateway response: candidate records plus any
// uncertainties that need a human answer.
type ExtractionResult struct {
	Records       []Candidate `json:"records"`
	Uncertainties []string    `json:"uncertainties"`
}

// Image is a base64-encoded image blob sent alongside the text.
type Image struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// DefaultImageMIMEType is assumed when a blob carries no data URL header.
const DefaultImageMIMEType = "image/png"

// ImageFromBlob accepts either a data URL ("data:image/jpeg;base64,....")
// or a bare base64 payload.
func ImageFromBlob(blob string) Image {
	blob = strings.TrimSpace(blob)
	header, payload, found := strings.Cut(blob, ",")
	if !found || !strings.HasPrefix(header, "data:") {
		return Image{MIMEType: DefaultImageMIMEType, Data: blob}
	}

	mime := strings.TrimPrefix(header, "data:")
	mime, _, _ = strings.Cut(mime, ";")
	if mime == "" {
		mime = DefaultImageMIMEType
	}
	return Image{MIMEType: mime, Data: payload}
}

// DataURL renders the image as a data URL.
func (i Image) DataURL() string {
	mime := i.MIMEType
	if mime == "" {
		mime = DefaultImageMIMEType
	}
	return "data:" + mime + ";base64," + i.Data
}
