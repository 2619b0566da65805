package verify

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/saurabhbakolia/disaster-response-platform/internal/domain"
	"github.com/saurabhbakolia/disaster-response-platform/internal/errors"
)

// The classifier embeds its structured answer in free text, usually inside
// a fenced markdown block.
var jsonBlockPattern = regexp.MustCompile("```(?:json)?\\s*\\n?((?s:.*?))```")

// classificationEnvelope mirrors ClassificationResult but keeps the
// disaster indicator as a pointer so its absence is detectable.
type classificationEnvelope struct {
	IsDisaster *bool  `json:"is_disaster"`
	Analysis   string `json:"analysis"`
}

// ParseClassification locates the structured answer embedded in the
// classifier's raw reply and extracts it. Returns a malformed-response
// error when no parseable fragment can be found; it never guesses.
func ParseClassification(raw string) (domain.ClassificationResult, error) {
	candidates := make([]string, 0, 3)

	if match := jsonBlockPattern.FindStringSubmatch(raw); match != nil {
		candidates = append(candidates, match[1])
	}

	trimmed := strings.TrimSpace(raw)
	candidates = append(candidates, trimmed)

	// Last resort: the widest braced fragment in the reply.
	if start, end := strings.Index(trimmed, "{"), strings.LastIndex(trimmed, "}"); start >= 0 && end > start {
		candidates = append(candidates, trimmed[start:end+1])
	}

	for _, candidate := range candidates {
		var envelope classificationEnvelope
		if err := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &envelope); err != nil {
			continue
		}
		if envelope.IsDisaster == nil {
			continue
		}
		return domain.ClassificationResult{
			IsDisaster: *envelope.IsDisaster,
			Analysis:   envelope.Analysis,
		}, nil
	}

	return domain.ClassificationResult{}, errors.MalformedError("could not find a valid classification block in the classifier response", nil)
}
