package store

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// LoadCategories reads the company category side table: JSONL mapping a
// company key to an ordinal category 1-4. The file has accumulated two key
// spellings over the study's lifetime, so both are accepted. Companies
// absent from the table default to category "NA" downstream.
func LoadCategories(path string) (map[string]int, error) {
	categories := make(map[string]int)
	err := eachLine(path, func(line []byte) error {
		var rec map[string]any
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("parse category record: %w", err)
		}

		company := stringField(rec, "company", "søgeord")
		category, ok := intField(rec, "category", "new_company_category")
		if company != "" && ok {
			categories[company] = category
		}
		return nil
	})
	return categories, err
}

func stringField(rec map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := rec[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func intField(rec map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		switch v := rec[key].(type) {
		case float64:
			return int(v), true
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
