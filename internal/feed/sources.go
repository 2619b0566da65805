package feed

import (
	"strings"

	"github.com/saurabhbakolia/disaster-response-platform/internal/domain"
)

// priorityKeywords flag a signal as priority when any of them appears in
// the text.
var priorityKeywords = []string{
	"urgent",
	"sos",
	"help",
	"trapped",
	"emergency",
	"immediate assistance",
}

// DefaultSources is the bounded template pool the generator samples from.
var DefaultSources = []domain.SignalContent{
	{User: "@EmergencyBOS", Text: "Reports of a 4-alarm fire on Summer St. All units responding."},
	{User: "@CitizenAppBOS", Text: "SOS! Building partially collapsed at 123 Hanover St. People may be trapped inside. URGENT response needed."},
	{User: "@RedCrossMA", Text: "We are setting up a temporary shelter at the Tynan Elementary for families displaced by the fire."},
	{User: "@BostonFire", Text: "Update: The fire on Summer St is now under control. Crews will remain on scene."},
	{User: "@JaneDoe", Text: "Help! My basement is flooding on Commonwealth Ave, and the water is rising fast. We are trapped!"},
	{User: "@MBTA", Text: "Shuttle buses are replacing Red Line service between JFK and Broadway."},
	{User: "@MassDOT", Text: "Heads up: The I-93 ramp to Summer Street is closed."},
	{User: "@BOS_311", Text: "Heavy smoke reported in the Seaport district. Residents advised to keep windows closed."},
}

// IsPriority reports whether text contains any urgency keyword,
// case-insensitively. This is pure substring matching, not semantic
// classification — a known limitation of the mock stream, kept as-is.
func IsPriority(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range priorityKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
