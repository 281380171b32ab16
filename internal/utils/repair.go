package utils

import (
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// RepairJSON attempts to repair a malformed JSON document (single quotes,
// unquoted keys, truncated trailing garbage) and returns the repaired text.
// Used by the stream driver's lenient mode to salvage event payloads mangled
// by proxies before declaring a parse failure.
func RepairJSON(content string) (string, error) {
	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return "", fmt.Errorf("failed to repair JSON: %w", err)
	}
	return repaired, nil
}
