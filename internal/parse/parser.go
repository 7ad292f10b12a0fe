package parse

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// RawItem is one still-textual goods row captured from the item table.
type RawItem struct {
	Name     string
	Amount   string
	Quantity string
	Unit     string
}

// Fields is the raw field mapping produced by one parse: normalized textual
// values keyed by field name, plus the captured item rows. Optional anchors
// that were not located appear as "" (text) or "0" (amounts).
type Fields struct {
	Values map[string]string
	Items  []RawItem
}

// Parser locates the permit label anchors in extracted text and captures
// the value adjacent to each one.
type Parser struct {
	anchors []anchor
	logger  *zap.Logger
}

// NewParser creates a parser over the built-in permit anchor table.
func NewParser(logger *zap.Logger) *Parser {
	return &Parser{
		anchors: permitAnchors,
		logger:  logger,
	}
}

var (
	// Columns in permit layouts are separated by tabs or runs of spaces.
	segmentSplit = regexp.MustCompile(`\t+| {2,}`)

	// Item rows: name, amount, quantity, unit.
	itemRowPattern = regexp.MustCompile(`^(.+?)\s+¥?(-?[0-9][0-9,]*)円?\s+([0-9]+(?:\.[0-9]+)?)\s+(\S+)$`)

	// Lines whose first column names the goods table.
	itemHeaderPattern = regexp.MustCompile(`^(品名|項目名)`)
)

// Parse scans the extracted text for the anchor table and returns the raw
// field mapping. It fails fast with MissingMandatoryFieldError or
// InvalidFieldFormatError; optional anchors that are absent simply yield
// their zero value.
func (p *Parser) Parse(text string) (*Fields, error) {
	lines := strings.Split(normalizeText(text), "\n")

	fields := &Fields{Values: make(map[string]string)}
	for i, line := range lines {
		segments := splitSegments(line)
		for s := 0; s < len(segments); s++ {
			a, value, consumed, ok := p.matchAnchor(segments, s)
			if !ok {
				continue
			}
			s += consumed
			if value == "" {
				continue
			}
			if _, seen := fields.Values[a.field]; seen {
				continue // first occurrence wins
			}
			canonical, err := a.canonicalize(value)
			if err != nil {
				return nil, err
			}
			fields.Values[a.field] = canonical
		}
		if fields.Items == nil && itemHeaderPattern.MatchString(strings.TrimSpace(line)) {
			fields.Items = parseItemRows(lines[i+1:])
		}
	}

	for _, a := range p.anchors {
		if _, ok := fields.Values[a.field]; ok {
			continue
		}
		if a.mandatory {
			return nil, &MissingMandatoryFieldError{Field: a.field}
		}
		if a.kind == kindAmount {
			fields.Values[a.field] = "0"
		} else {
			fields.Values[a.field] = ""
		}
	}

	p.logger.Debug("parsed permit text",
		zap.String("permit_number", fields.Values[FieldPermitNumber]),
		zap.Int("item_rows", len(fields.Items)))

	return fields, nil
}

// matchAnchor tries to claim the segment at index s for one anchor. The
// value is the rest of that segment after the label; when the label fills
// its whole column the following segment is taken instead, unless that
// segment begins another anchor's label. consumed reports how many extra
// segments the value used up.
func (p *Parser) matchAnchor(segments []string, s int) (a anchor, value string, consumed int, ok bool) {
	seg := segments[s]
	for _, cand := range p.anchors {
		for _, label := range cand.labels {
			if !strings.HasPrefix(seg, label) {
				continue
			}
			rest := strings.TrimSpace(strings.TrimLeft(seg[len(label):], " :："))
			if rest != "" {
				return cand, rest, 0, true
			}
			if s+1 < len(segments) && !p.startsWithLabel(segments[s+1]) {
				return cand, strings.TrimSpace(segments[s+1]), 1, true
			}
			return cand, "", 0, true
		}
	}
	return anchor{}, "", 0, false
}

func (p *Parser) startsWithLabel(seg string) bool {
	for _, a := range p.anchors {
		for _, label := range a.labels {
			if strings.HasPrefix(seg, label) {
				return true
			}
		}
	}
	return false
}

// parseItemRows captures repeating item rows and stops at the first line
// after the header that does not look like one.
func parseItemRows(lines []string) []RawItem {
	var items []RawItem
	for _, line := range lines {
		m := itemRowPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			break
		}
		items = append(items, RawItem{
			Name:     strings.TrimSpace(m[1]),
			Amount:   normalizeAmount(m[2]),
			Quantity: m[3],
			Unit:     m[4],
		})
	}
	return items
}

func splitSegments(line string) []string {
	var segments []string
	for _, seg := range segmentSplit.Split(strings.TrimSpace(line), -1) {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
