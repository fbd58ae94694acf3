package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lineKind int

const (
	lineCandidate lineKind = iota
	lineSection
	lineNoise
)

// sectionTiming is the default work/rest interval a section header sets for
// the bare exercise names listed under it.
type sectionTiming struct {
	Work int // seconds; 0 when the header gave none
	Rest int // seconds; 0 when the header gave none
}

var (
	// sectionHeaderRe matches: ▶ Cardio Circuit (40 sec on, 20 sec off),
	// • Warm Up (30 sec on, 10 sec off)
	sectionHeaderRe = regexp.MustCompile(`(?i)^([▶►▸➡→⇒➜➤»⏩•*·▪◦●\-])\x{FE0F}?\s*([a-z][a-z0-9 &/'\-]*?)\s*(:?)\s*(?:[(\[\-–—]\s*)?(?:(\d+)\s*s(?:ec(?:ond)?s?)?\s+on\b(?:\s*[,/&]?\s*(\d+)\s*s(?:ec(?:ond)?s?)?\s+off\b)?)?\s*[)\]]?\s*(:?)\s*$`)

	sectionWordRe = regexp.MustCompile(`(?i)\b(?:warm[\s-]?up|cool[\s-]?down|circuit|round|block|part|section|finisher|superset|tabata|amrap|emom|workout|day|main|stretch(?:ing)?|cardio|strength|mobility|core|abs|upper body|lower body|full body|legs|arms)\b`)

	// labelLineRe matches: • Equipment: dumbbells
	labelLineRe = regexp.MustCompile(`(?i)^[-•*·▪◦●○■□◆◇►▶▸➡→✓✔]\x{FE0F}?\s*(?:workout|routine|program|time|equipment|muscles worked|duration|description|difficulty|level)\s*:`)

	promoRe = regexp.MustCompile(`(?i)\b(?:subscribe[sd]?|follow(?:ing|ers)?|likes?|share|comments?|instagram|facebook|twitter|tiktok|youtube)\b|@\w|https?://|www\.|\.com\b`)

	urlOrEmailRe = regexp.MustCompile(`(?i)^(?:https?://\S+|www\.\S+|\S+@\S+\.\w+|\S+\.(?:com|net|org|io|co|me|ly)(?:/\S*)?)$`)

	creditsRe = regexp.MustCompile(`(?i)©|\(c\)|\b(?:copyright|all rights reserved|music|song|soundtrack|credits?|produced by|filmed by|edited by|shot by|video by|beat by)\b`)

	gearHeaderRe   = regexp.MustCompile(`(?i)^(?:the|my|our|your)\b[^:]{0,40}:`)
	gearSentenceRe = regexp.MustCompile(`(?i)\b(?:gear|wearing|wear|outfit|leggings|apparel|brand|shop|store|merch|discount|promo|coupon|use code)\b`)

	// hashtagLedRe matches: #fullbody #nogym yoga flow
	hashtagLedRe = regexp.MustCompile(`^#\w+`)

	disclaimerRe = regexp.MustCompile(`(?i)\b(?:disclaimer|affiliate|sponsor(?:ed|s)?|consult (?:your|a) (?:doctor|physician)|medical advice|commission|partnered|paid partnership)\b|#ad\b`)

	restLineRe = regexp.MustCompile(`(?i)^rest\b`)

	symbolOnlyRe = regexp.MustCompile(`^[\W\d_]+$`)
)

// arrowGlyphs lead section headers only; bullets usually lead list items.
const arrowGlyphs = "▶►▸➡→⇒➜➤»⏩"

// parseSectionHeader reports whether line opens a new section, returning the
// section name and its timing. An arrow-led line counts as a header when it
// carries an on/off timing, ends with a colon, or names a typical block. A
// bullet-led line needs the timing, or a colon after a block name.
func parseSectionHeader(line string) (string, sectionTiming, bool) {
	m := sectionHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return "", sectionTiming{}, false
	}
	arrow := strings.Contains(arrowGlyphs, m[1])
	name := strings.TrimSpace(m[2])
	hasTiming := m[4] != ""
	hasColon := m[3] != "" || m[6] != ""
	blockName := sectionWordRe.MatchString(name)
	switch {
	case hasTiming:
	case arrow && (hasColon || blockName):
	case !arrow && hasColon && blockName && !labelLineRe.MatchString(line):
	default:
		return "", sectionTiming{}, false
	}
	var timing sectionTiming
	if hasTiming {
		timing.Work, _ = strconv.Atoi(m[4])
	}
	if m[5] != "" {
		timing.Rest, _ = strconv.Atoi(m[5])
	}
	return name, timing, true
}

// isAllCapsHeader matches shouty headers such as "LOWER BODY BURN".
func isAllCapsHeader(line string) bool {
	if utf8.RuneCountInString(line) < 4 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		switch {
		case unicode.IsDigit(r):
			return false
		case unicode.IsLower(r):
			return false
		case unicode.IsLetter(r):
			hasLetter = true
		}
	}
	return hasLetter
}

// isNoise runs the noise cascade. Order matters only for readability; any
// single hit rejects the line.
func isNoise(line string) bool {
	switch {
	case labelLineRe.MatchString(line):
		return true
	case promoRe.MatchString(line):
		return true
	case urlOrEmailRe.MatchString(line):
		return true
	case creditsRe.MatchString(line):
		return true
	case gearHeaderRe.MatchString(line), gearSentenceRe.MatchString(line):
		return true
	case isAllCapsHeader(line):
		return true
	case hashtagLedRe.MatchString(line) && !hasDetail(line):
		return true
	case disclaimerRe.MatchString(line):
		return true
	case restLineRe.MatchString(line):
		return true
	case utf8.RuneCountInString(line) < 3, symbolOnlyRe.MatchString(line):
		return true
	}
	return false
}

// hasDetail reports whether line carries set, rep or time detail anywhere.
func hasDetail(line string) bool {
	_, ok := detailSets(line)
	return ok
}

// classifyLine decides whether a trimmed, non-empty line is a section header,
// noise, or a candidate for exercise matching.
func classifyLine(line string) lineKind {
	if _, _, ok := parseSectionHeader(line); ok {
		return lineSection
	}
	if isNoise(line) {
		return lineNoise
	}
	return lineCandidate
}
