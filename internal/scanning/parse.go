package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// parseReceiptJSON parses a model response into ReceiptFields. Responses are
// not always clean JSON: some models wrap the object in markdown fences or
// surrounding prose, so the outermost object is carved out first. Dates are
// normalized to YYYY-MM-DD; an unparseable date becomes empty so the caller
// applies its own default.
func parseReceiptJSON(text string) (*ReceiptFields, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var fields ReceiptFields
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	fields.Date = normalizeDate(fields.Date)
	fields.Merchant = strings.TrimSpace(fields.Merchant)
	fields.Category = strings.TrimSpace(fields.Category)
	fields.TaxID = strings.TrimSpace(fields.TaxID)
	fields.Address = strings.TrimSpace(fields.Address)
	fields.Note = strings.TrimSpace(fields.Note)

	return &fields, nil
}

// normalizeDate converts a handful of common date formats to YYYY-MM-DD.
// Anything it cannot parse comes back empty.
func normalizeDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}

	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"02-01-2006",
	}
	for _, format := range formats {
		if d, err := time.Parse(format, date); err == nil {
			return d.Format("2006-01-02")
		}
	}
	return ""
}
