// Package roadmap defines the roadmap content tree consumed by the mind-map
// engine, the identifiers derived from it, and the sources it is loaded from.
//
// The JSON shape follows the roadmap API: a diagram title plus an ordered list
// of main stages, each holding sub-groups with a central topic and two item
// lists.
//
//	{
//	  "diagramTitle": "Backend Development",
//	  "mainStages": [
//	    {
//	      "stageName": "Foundations",
//	      "subNodes": [
//	        {
//	          "centralNodeTitle": "Web Basics",
//	          "leftItems":  [{"id": "http", "name": "HTTP"}],
//	          "rightItems": [{"id": "dns", "name": "DNS"}]
//	        }
//	      ]
//	    }
//	  ]
//	}
//
// Content is immutable once decoded. Missing arrays decode as nil slices and
// are treated as empty everywhere, so a partially malformed roadmap still
// renders the stages it does have.
package roadmap

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Content is a full roadmap diagram.
type Content struct {
	Title  string  `json:"diagramTitle" bson:"diagramTitle"`
	Stages []Stage `json:"mainStages" bson:"mainStages"`
}

// Stage is one sequential phase of the roadmap.
type Stage struct {
	Name      string     `json:"stageName" bson:"stageName"`
	SubGroups []SubGroup `json:"subNodes" bson:"subNodes"`
}

// SubGroup is a central topic with items placed to its left and right.
// The placement hints are kept for ordering only; the layout engine decides
// the final column.
type SubGroup struct {
	CentralTitle string `json:"centralNodeTitle" bson:"centralNodeTitle"`
	Left         []Item `json:"leftItems" bson:"leftItems"`
	Right        []Item `json:"rightItems" bson:"rightItems"`
}

// Item is a leaf topic with a stable identifier.
type Item struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Roadmap is the stored envelope around Content, as returned by the roadmap API.
type Roadmap struct {
	ID        int64   `json:"id" bson:"id"`
	UserID    int64   `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Content   Content `json:"content" bson:"content"`
	CreatedAt string  `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// ItemCount returns the number of child topics a stage expands into:
// one central topic per sub-group plus every left and right item.
func (s Stage) ItemCount() int {
	n := 0
	for _, g := range s.SubGroups {
		n += 1 + len(g.Left) + len(g.Right)
	}
	return n
}

// StageIndex returns the index of the stage with the given id, or -1.
func (c Content) StageIndex(id string) int {
	var i int
	if _, err := fmt.Sscanf(id, "stage-%d", &i); err != nil {
		return -1
	}
	if i < 0 || i >= len(c.Stages) || StageID(i) != id {
		return -1
	}
	return i
}

// =============================================================================
// Identifiers
// =============================================================================

// StageID returns the stable id of the stage at index i.
func StageID(i int) string {
	return fmt.Sprintf("stage-%d", i)
}

// CentralID returns the synthetic id of a sub-group's central topic.
// Central topics carry no id in the content, so it is derived from the stage
// index and the slugified title.
func CentralID(stageIndex int, title string) string {
	return fmt.Sprintf("stage-%d-central-%s", stageIndex, Slugify(title))
}

// Slugify lowercases s and replaces every run of whitespace with a single "-".
// Leading and trailing whitespace runs become dashes as well.
func Slugify(s string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	// Casers are stateful; one per call.
	return cases.Lower(language.Und).String(b.String())
}
