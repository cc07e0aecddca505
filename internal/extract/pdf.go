package extract

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/entity"
	"github.com/joseph-ayodele/room-measurements/internal/heuristics"
)

// pdfBlockLines bounds how far below a room header its figures are looked for.
const pdfBlockLines = 30

var (
	reRoomHeader = regexp.MustCompile(`(?i)^(.*?\S)\s+Height:\s*(.+?)\s*$`)
	reSquareFeet = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*SF\s+(Walls\s*&\s*Ceiling|Walls|Ceiling|Floor)`)
	rePerimeter  = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*LF\s+(?:Floor|Ceil\.?|Ceiling)[^\d]*?Perimeter`)
	reOpening    = regexp.MustCompile(`(?i)^(Door|Window|Missing\s+Wall)(?:\s*-\s*Goes\s+to\s+Floor)?\s+(.+?)(?:\s+Opens\s+into\s+(.+?))?\s*$`)
	reSizeSplit  = regexp.MustCompile(`(?i)\s*[x×]\s*`)
	reFeetInches = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*'\s*(?:(\d+(?:\.\d+)?)\s*(?:"|'')?)?$`)
	reInchesOnly = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:"|'')$`)
	reBareNumber = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:ft|feet)?$`)
)

// PDFExtractor reads text pulled out of insurance-estimate PDFs, where each
// room starts with a "<Room> Height: <value>" header followed by the
// estimating tool's area figures and opening list.
type PDFExtractor struct {
	table  *heuristics.Table
	logger *slog.Logger
}

func NewPDFExtractor(table *heuristics.Table, logger *slog.Logger) *PDFExtractor {
	if table == nil {
		table = heuristics.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{table: table, logger: logger}
}

func (e *PDFExtractor) Extract(raw string) ([]entity.RawRoom, error) {
	lines := splitLines(raw)
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	var rooms []entity.RawRoom
	floor := ""
	discarded := 0

	for i := 0; i < len(lines); i++ {
		if name, ok := floorName(lines[i]); ok {
			floor = name
			continue
		}
		m := reRoomHeader.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}

		end := i + 1
		for end < len(lines) && end <= i+pdfBlockLines {
			if reRoomHeader.MatchString(lines[end]) {
				break
			}
			if _, ok := floorName(lines[end]); ok {
				break
			}
			end++
		}

		room, ok := e.parseBlock(m[1], m[2], lines[i+1:end], floor)
		if ok {
			rooms = append(rooms, room)
		} else {
			discarded++
			e.logger.Debug("extract.pdf.block_discarded", "room", m[1])
		}
		i = end - 1
	}

	e.logger.Debug("extract.pdf.done", "lines", len(lines), "rooms", len(rooms), "discarded", discarded)
	if len(rooms) == 0 {
		e.logger.Warn("extract.pdf.empty", "lines", len(lines), "discarded", discarded)
		return FallbackRooms(constants.FormatPDFTable, e.table), common.ErrExtractionEmpty
	}
	return rooms, nil
}

func (e *PDFExtractor) parseBlock(rawName, rawHeight string, block []string, floor string) (entity.RawRoom, bool) {
	dims := entity.RawDimensions{}
	dims.Height, dims.HeightLabel = e.parseHeight(rawHeight)

	var openings []entity.Opening
	seen := make(map[string]struct{})

	for _, line := range block {
		if op, ok := parseOpeningLine(line); ok {
			key := string(op.Type) + "|" + strings.ToLower(op.Size) + "|" + strings.ToLower(op.OpensInto)
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				openings = append(openings, op)
			}
			continue
		}
		for _, sm := range reSquareFeet.FindAllStringSubmatch(line, -1) {
			v, ok := parseQuantity(sm[1])
			if !ok {
				continue
			}
			label := strings.ToLower(strings.Join(strings.Fields(sm[2]), ""))
			switch label {
			case "walls&ceiling":
				setOnce(&dims.WallsAndCeiling, v)
			case "walls":
				setOnce(&dims.WallArea, v)
			case "ceiling":
				setOnce(&dims.CeilingArea, v)
			case "floor":
				setOnce(&dims.Area, v)
			}
		}
		if pm := rePerimeter.FindStringSubmatch(line); pm != nil {
			if v, ok := parseQuantity(pm[1]); ok {
				setOnce(&dims.Perimeter, v)
			}
		}
	}

	if dims.WallArea == nil && dims.CeilingArea == nil && dims.Area == nil && dims.WallsAndCeiling == nil {
		return entity.RawRoom{}, false
	}
	if openings == nil {
		openings = []entity.Opening{}
	}
	return entity.RawRoom{
		Floor:            floorOrDefault(floor),
		Name:             cleanRoomName(rawName),
		Dimensions:       dims,
		Openings:         openings,
		SourceConfidence: constants.ConfidencePDF,
	}, true
}

// parseHeight returns a numeric height in feet, or the default height and a
// label for values such as "Sloped" or "Peaked".
func (e *PDFExtractor) parseHeight(raw string) (float64, string) {
	s := strings.TrimSpace(raw)
	if v, ok := parseFeet(s); ok && v > 0 {
		return round(v, 2), ""
	}
	word := strings.Fields(s)
	if len(word) == 0 {
		return e.table.DefaultHeight, ""
	}
	return e.table.DefaultHeight, titleCase(word[0])
}

func parseOpeningLine(line string) (entity.Opening, bool) {
	m := reOpening.FindStringSubmatch(line)
	if m == nil {
		return entity.Opening{}, false
	}
	kind, ok := constants.CanonicalOpening(strings.Join(strings.Fields(m[1]), " "))
	if !ok {
		return entity.Opening{}, false
	}
	size := strings.TrimSpace(m[2])
	dest := strings.TrimSpace(m[3])

	op := entity.Opening{Type: kind, Size: size, OpensInto: dest}
	parts := reSizeSplit.Split(size, -1)
	if w, ok := parseFeet(parts[0]); ok {
		op.Width = round(w, 3)
	}
	if len(parts) > 1 {
		if h, ok := parseFeet(parts[1]); ok {
			op.Height = round(h, 3)
		}
	}

	switch {
	case dest == "":
		op.IsExternal = constants.DefaultExternal(kind)
	case strings.Contains(strings.ToLower(dest), "exterior"):
		op.IsExternal = true
	}
	op.IsInternal = !op.IsExternal
	return op, true
}

// parseFeet reads 6' 8", 6'8", 80", 6.5 or 6 ft as feet.
func parseFeet(s string) (float64, bool) {
	s = strings.TrimSpace(strings.NewReplacer("’", "'", "′", "'", "”", `"`, "″", `"`).Replace(s))
	if m := reFeetInches.FindStringSubmatch(s); m != nil {
		ft, _ := strconv.ParseFloat(m[1], 64)
		if m[2] != "" {
			in, _ := strconv.ParseFloat(m[2], 64)
			ft += in / 12
		}
		return ft, true
	}
	if m := reInchesOnly.FindStringSubmatch(s); m != nil {
		in, _ := strconv.ParseFloat(m[1], 64)
		return in / 12, true
	}
	if m := reBareNumber.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return v, true
	}
	return 0, false
}

func parseQuantity(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return v, err == nil
}

func setOnce(dst **float64, v float64) {
	if *dst == nil {
		*dst = entity.Float(v)
	}
}
