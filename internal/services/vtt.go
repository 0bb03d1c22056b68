package services

import (
	"os"
	"strconv"
	"strings"
)

// parseVTT is a minimal WebVTT cue parser: timestamp lines of the form
// "00:00:01.000 --> 00:00:03.500" followed by one or more text lines.
func parseVTT(body string) []rawCue {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	var cues []rawCue
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.Contains(line, "-->") {
			continue
		}

		parts := strings.SplitN(line, "-->", 2)
		if len(parts) != 2 {
			continue
		}
		start, ok1 := parseVTTTimestamp(strings.TrimSpace(parts[0]))
		end, ok2 := parseVTTTimestamp(strings.TrimSpace(strings.Fields(parts[1])[0]))
		if !ok1 || !ok2 {
			continue
		}

		var textLines []string
		for j := i + 1; j < len(lines); j++ {
			text := strings.TrimSpace(lines[j])
			if text == "" {
				break
			}
			textLines = append(textLines, stripVTTTags(text))
		}
		if len(textLines) > 0 {
			cues = append(cues, rawCue{start: start, end: end, text: strings.Join(textLines, " ")})
		}
	}
	return cues
}

func parseVTTTimestamp(ts string) (float64, bool) {
	ts = strings.TrimSpace(ts)
	parts := strings.Split(ts, ":")
	if len(parts) < 2 {
		return 0, false
	}

	secParts := strings.Split(parts[len(parts)-1], ".")
	seconds, err := strconv.ParseFloat(secParts[0], 64)
	if err != nil {
		return 0, false
	}
	millis := 0.0
	if len(secParts) == 2 {
		ms, err := strconv.ParseFloat(secParts[1], 64)
		if err == nil {
			millis = ms / 1000.0
		}
	}

	minutes, err := strconv.ParseFloat(parts[len(parts)-2], 64)
	if err != nil {
		return 0, false
	}

	hours := 0.0
	if len(parts) == 3 {
		hours, err = strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, false
		}
	}

	return hours*3600 + minutes*60 + seconds + millis, true
}

func stripVTTTags(line string) string {
	var b strings.Builder
	inTag := false
	for _, r := range line {
		switch r {
		case '<':
			inTag = true
		case '>':
			inTag = false
		default:
			if !inTag {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
