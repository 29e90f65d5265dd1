package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/muster/internal/model"
)

// FallbackUncertainty is reported when a provider response cannot be parsed.
const FallbackUncertainty = "Failed to parse the provided information. Please check the format."

// FallbackResult is the total fallback for unusable responses.
func FallbackResult() model.ExtractionResult {
	return model.ExtractionResult{
		Records:       []model.Candidate{},
		Uncertainties: []string{FallbackUncertainty},
	}
}

var errEmptyResponse = errors.New("empty response")

// numberToken is the first number in a string such as "Rs. 800" or "800/-".
var numberToken = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// wireNumber accepts JSON numbers as well as numeric strings such as "800"
// or "₹1,200". Only the first number in a string counts; anything
// unreadable decodes as zero, i.e. missing.
type wireNumber float64

func (n *wireNumber) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*n = 0
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil //nolint:nilerr // unreadable numbers count as missing
		}
		raw = numberToken.FindString(strings.ReplaceAll(s, ",", ""))
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*n = 0
		return nil //nolint:nilerr // unreadable numbers count as missing
	}
	*n = wireNumber(v)
	return nil
}

type wireRecord struct {
	Date       string     `json:"date"`
	LabourName string     `json:"labourName"`
	SiteName   string     `json:"siteName"`
	BaseSalary wireNumber `json:"baseSalary"`
	Day        wireNumber `json:"day"`
	OTHours    wireNumber `json:"otHours"`
}

type wireResponse struct {
	Records       []wireRecord `json:"records"`
	Uncertainties []string     `json:"uncertainties"`
}

// ParseExtraction decodes a provider's text output into an extraction result.
func ParseExtraction(content string) (model.ExtractionResult, error) {
	content = cleanMarkdownWrapper(content)
	if content == "" {
		return model.ExtractionResult{}, errEmptyResponse
	}

	var resp wireResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return model.ExtractionResult{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	result := model.ExtractionResult{
		Records:       make([]model.Candidate, 0, len(resp.Records)),
		Uncertainties: make([]string, 0, len(resp.Uncertainties)),
	}
	for _, r := range resp.Records {
		result.Records = append(result.Records, model.Candidate{
			Date:       strings.TrimSpace(r.Date),
			LabourName: strings.TrimSpace(r.LabourName),
			SiteName:   strings.TrimSpace(r.SiteName),
			BaseSalary: float64(r.BaseSalary),
			Day:        float64(r.Day),
			OTHours:    float64(r.OTHours),
		})
	}
	for _, u := range resp.Uncertainties {
		if u = strings.TrimSpace(u); u != "" {
			result.Uncertainties = append(result.Uncertainties, u)
		}
	}

	return result, nil
}

// cleanMarkdownWrapper strips code fences and any chatter around the JSON object.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
