// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"bytes"
	"encoding/json"

	"github.com/alecthomas/chroma/v2/quick"
)

// HighlightJSON pretty-prints and syntax-highlights a JSON document for the
// content-list viewer. Invalid JSON is returned as-is; the backend's
// content lists are occasionally hand-edited.
func HighlightJSON(data []byte, dark bool) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		return string(data)
	}

	style := "github"
	if dark {
		style = "monokai"
	}
	var out bytes.Buffer
	if err := quick.Highlight(&out, pretty.String(), "json", "terminal256", style); err != nil {
		return pretty.String()
	}
	return out.String()
}
