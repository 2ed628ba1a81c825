package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var reDigitRun = regexp.MustCompile(`\d+`)

// ConvertDMS parses a degrees/minutes/seconds coordinate such as
// "40 26 46N" into decimal degrees. The string must contain exactly three
// numeric runs; anything else yields nil. A trailing 'S' or 'W' (the only
// place sign is carried) negates the result.
func ConvertDMS(text string) *float64 {
	text = strings.TrimSpace(text)

	groups := reDigitRun.FindAllString(text, -1)
	if len(groups) != 3 {
		return nil
	}

	deg, err := strconv.ParseFloat(groups[0], 64)
	if err != nil {
		return nil
	}
	min, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		return nil
	}
	sec, err := strconv.ParseFloat(groups[2], 64)
	if err != nil {
		return nil
	}

	value := deg + min/60 + sec/3600
	if strings.HasSuffix(text, "S") || strings.HasSuffix(text, "W") {
		value = -value
	}
	return &value
}
