package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/sphview/internal/playback"
)

var svgFill = map[playback.Color]string{
	playback.Red:  "#ff0000",
	playback.Blue: "#0000ff",
}

// SVG draws balls on a white width x height page. Each drawable is the
// top-left corner of a diameter-sized circle.
func SVG(balls []playback.Drawable, width, height int, diameter float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height))

	r := diameter / 2
	for _, b := range balls {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, b.X+r, b.Y+r, r, svgFill[b.Color]))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
