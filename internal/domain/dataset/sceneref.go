package dataset

import (
	"regexp"
	"strconv"
	"strings"
)

var sceneIDPrefix = regexp.MustCompile(`^(\d+)`)

// ParseSceneRef extracts the leading numeric run of a raw scene reference
// string into a typed SceneRef. References with a missing or non-numeric
// prefix report ok=false and are excluded from ownership; parsing never
// fails hard.
func ParseSceneRef(raw string) (SceneRef, bool) {
	match := sceneIDPrefix.FindString(raw)
	if match == "" {
		return SceneRef{}, false
	}
	id, err := strconv.Atoi(match)
	if err != nil {
		// A digit run too long for int. Treat as unattributable.
		return SceneRef{}, false
	}
	label := strings.TrimPrefix(raw[len(match):], "-")
	return SceneRef{SceneID: id, Label: label}, true
}
