package interact

import (
	"fmt"
	"net/url"
	"strconv"
)

// ActivateFunc receives the id of an activated child node. It is called
// synchronously from Dispatch and must not block; hosts that fetch or
// navigate start that work themselves and own its loading and error state.
type ActivateFunc func(nodeID string)

// Mode selects what activating a child node means to the host.
type Mode int

const (
	// ModeNavigate opens the topic's detail page.
	ModeNavigate Mode = iota
	// ModeSummary fetches the topic summary in place.
	ModeSummary
)

func (m Mode) String() string {
	if m == ModeSummary {
		return "summary"
	}
	return "navigate"
}

// ParseMode parses "navigate" or "summary".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "navigate", "":
		return ModeNavigate, nil
	case "summary":
		return ModeSummary, nil
	}
	return 0, fmt.Errorf("unknown activation mode %q (want navigate or summary)", s)
}

// NavigatePath returns the detail route of a topic.
func NavigatePath(roadmapID int64, nodeID string) string {
	return "/roadmap/" + strconv.FormatInt(roadmapID, 10) + "/detail/" + url.PathEscape(nodeID)
}

// SummaryPath returns the summary API request for a topic.
func SummaryPath(roadmapID int64, itemID string) string {
	q := url.Values{"item_id": {itemID}}
	return "/api/roadmaps/" + strconv.FormatInt(roadmapID, 10) + "/summaries?" + q.Encode()
}

// Path returns the path activation leads to in mode m.
func (m Mode) Path(roadmapID int64, nodeID string) string {
	if m == ModeSummary {
		return SummaryPath(roadmapID, nodeID)
	}
	return NavigatePath(roadmapID, nodeID)
}

// Activator adapts fn into an ActivateFunc that also resolves the node's path
// for mode m.
func Activator(m Mode, roadmapID int64, fn func(nodeID, path string)) ActivateFunc {
	return func(nodeID string) {
		fn(nodeID, m.Path(roadmapID, nodeID))
	}
}
