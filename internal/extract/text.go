package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/joseph-ayodele/room-measurements/constants"
)

var (
	reOrdinalFloor = regexp.MustCompile(`(?i)^(\d+)\s*(st|nd|rd|th)?\s*floor$`)
	reNamedFloor   = regexp.MustCompile(`(?i)^(ground\s*floor|basement|(?:main|upper|lower)\s*level)$`)
	reLevelN       = regexp.MustCompile(`(?i)^level\s*(\d+)$`)

	reRoomPrefix = regexp.MustCompile(`(?i)^room\s*\d+\s*[:-]?\s*`)
	reSqFtSuffix = regexp.MustCompile(`(?i)\s*:\s*sq\s*ft.*$`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reNumber     = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// normalizeText applies NFKC (full-width digits, ligatures, odd quotes from
// OCR) and unifies line endings.
func normalizeText(raw string) string {
	s := norm.NFKC.String(raw)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func splitLines(raw string) []string {
	return strings.Split(normalizeText(raw), "\n")
}

// floorName reports whether text names a floor and returns its display form
// ("1st Floor", "Ground Floor", "Main Level").
func floorName(text string) (string, bool) {
	s := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text), ":"))
	if m := reOrdinalFloor.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", false
		}
		return ordinal(n) + " Floor", true
	}
	if reNamedFloor.MatchString(s) || reLevelN.MatchString(s) {
		return titleCase(reSpaces.ReplaceAllString(s, " ")), true
	}
	return "", false
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// cleanRoomName strips "Room 3:" prefixes and ": sq ft" suffixes and title-cases.
func cleanRoomName(name string) string {
	s := strings.TrimSpace(name)
	cleaned := reRoomPrefix.ReplaceAllString(s, "")
	cleaned = strings.TrimSpace(reSqFtSuffix.ReplaceAllString(cleaned, ""))
	if cleaned == "" {
		cleaned = s
	}
	return titleCase(reSpaces.ReplaceAllString(cleaned, " "))
}

// titleCase builds a fresh Caser per call; Casers are not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func floorOrDefault(floor string) string {
	if strings.TrimSpace(floor) == "" {
		return constants.DefaultFloor
	}
	return floor
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
