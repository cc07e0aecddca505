package ocr

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	// "12 X 10", "12x10" and "12×10" all become "12 x 10"
	reTimes = regexp.MustCompile(`(\d)\s*[xX×]\s*(\d)`)
)

var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-=|]{3,}\s*$`)

var quoteFixer = strings.NewReplacer(
	"’", "'", "‘", "'", "′", "'",
	"”", `"`, "“", `"`, "″", `"`,
)

// Normalize collapses noisy whitespace and fixes common OCR artifacts around
// dimensions. Line breaks are kept; runs of blank lines collapse to one.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")
	s = quoteFixer.Replace(s)
	s = reTimes.ReplaceAllString(s, "$1 x $2")
	return strings.TrimSpace(s)
}
