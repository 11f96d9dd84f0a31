package extract

import (
	"regexp"
	"strings"

	"github.com/labelcheck/labelcheck/internal/model"
)

// Env is the per-invocation view of the rule configuration: keyword tables
// folded into lookup sets and the class keyword list compiled into one
// pattern. Built once per Extract call; strategies treat it as read-only.
type Env struct {
	Cfg *model.Config

	brandSuffixes map[string]bool
	corpSuffixes  map[string]bool
	allSuffixes   map[string]bool
	strongClass   map[string]bool
	classAdj      map[string]bool
	warningWords  map[string]bool
	servingFacts  []string
	countries     []string

	classRe *regexp.Regexp
}

func newEnv(cfg *model.Config) *Env {
	env := &Env{
		Cfg:           cfg,
		brandSuffixes: upperSet(cfg.Keywords.BrandSuffixes),
		corpSuffixes:  upperSet(cfg.Keywords.CorporateSuffixes),
		strongClass:   upperSet(cfg.Keywords.StrongClassWords),
		classAdj:      upperSet(cfg.Keywords.ClassAdjectives),
		warningWords:  upperSet(cfg.Keywords.WarningKeywords),
		servingFacts:  upperAll(cfg.Keywords.ServingFactsMarkers),
		countries:     lowerAll(cfg.Keywords.Countries),
	}
	env.allSuffixes = make(map[string]bool, len(env.brandSuffixes)+len(env.corpSuffixes))
	for w := range env.brandSuffixes {
		env.allSuffixes[w] = true
	}
	for w := range env.corpSuffixes {
		env.allSuffixes[w] = true
	}

	// Longest keywords first so "Straight Bourbon Whiskey" beats "Bourbon".
	kws := append([]string(nil), cfg.Keywords.ClassKeywords...)
	for i := 0; i < len(kws); i++ {
		for j := i + 1; j < len(kws); j++ {
			if len(kws[j]) > len(kws[i]) {
				kws[i], kws[j] = kws[j], kws[i]
			}
		}
	}
	escaped := make([]string, len(kws))
	for i, k := range kws {
		escaped[i] = regexp.QuoteMeta(k)
	}
	env.classRe = regexp.MustCompile(`(?i)(?:` + strings.Join(escaped, "|") + `)`)
	return env
}

func upperSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToUpper(w)] = true
	}
	return set
}

func upperAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToUpper(w)
	}
	return out
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}

// Shared field patterns. These mirror the OCR shapes seen on real labels;
// keyword tables stay in configuration, the grammar around them does not.
var (
	reABVStrict = regexp.MustCompile(`(?i)ALC\.?\s*(\d+(?:\.\d+)?)\s*%\s*(?:by\s+vol|Alc\.?/?Vol\.?|ALC/?VOL|alcohol\s+by\s+volume)`)
	reABVQual   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%\s*(?:Alc\.?/?Vol\.?|ALC/?VOL|by\s+vol|alcohol\s+by\s+volume)`)
	reABVLoose  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	reProof     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*Proof`)

	reNet = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(mL\.?|L\.?|litre|liter|FL\.?\s*OZ\.?|FLUID\s+OUNCES?|QT\.?|QUART|PT\.?|PINT|GAL\.?|GALLON)\b`)

	reCompoundNet = regexp.MustCompile(`(?i)(\d+)\s*(?:PINT|PT\.?)\s+(\d+)\s*(?:FL\.?\s*OZ\.?|FLUID\s+OUNCES?)`)

	reLocation = regexp.MustCompile(`[A-Z][a-z]+,\s*[A-Z]{2}\b`)

	reCountry = regexp.MustCompile(`(?i)(?:Product|Produce|Wine|Vino)\s+(?:of|de)\s+(.+)|Made\s+in\s+(.+)|Imported\s+from\s+(.+)|Origin\s*:\s*(.+)`)

	reBottlerHeader = regexp.MustCompile(`(?i)(Distilled\s+and\s+Bottled\s+by|Bottled\s+by|Distilled\s+by|Produced\s+by|Produced\s+and\s+Bottled\s+by|Imported\s+by|Brewed\s+(?:and|&)\s+Bottled\s+by|Brewed\s+by|Manufactured\s+by|Made\s+by|Cellared\s+and\s+Bottled\s+by|Vinted\s+and\s+Bottled\s+by|Blended\s+and\s+Bottled\s+by)`)

	reBottlerFallback = regexp.MustCompile(`(?i)([\w\s&']+(?:Brewery|Distillery|Winery|Cellars|Imports|Vineyards|Brewing\s+Company|Company))[\s,]+([A-Z][a-z]+(?:\s[A-Z][a-z]+)*)\s*,\s*([A-Z]{2})\b`)

	reHeaderLine = regexp.MustCompile(`(?i)^(DISTILLED AND BOTTLED BY|BOTTLED BY|DISTILLED BY|PRODUCED BY|IMPORTED BY|BREWED\s*&\s*BOTTLED BY|BREWED AND BOTTLED BY|BREWED BY|GOVERNMENT WARNING)[\s:]*$`)

	reLeadingDigit = regexp.MustCompile(`^\d`)
)

var stopWords = map[string]bool{
	"AND": true, "THE": true, "OF": true, "OR": true, "BY": true,
	"NOT": true, "TO": true, "A": true, "IN": true, "ON": true,
	"AT": true, "FOR": true, "IT": true, "IS": true,
}

// isJunk filters likely OCR noise and boilerplate that should never seed a
// brand or class candidate.
func (env *Env) isJunk(text string) bool {
	t := strings.TrimSpace(text)
	if len(t) <= 1 {
		return true
	}
	alpha := 0
	for _, r := range t {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			alpha++
		}
	}
	if float64(alpha)/float64(len([]rune(t))) < 0.4 {
		return true
	}
	if reHeaderLine.MatchString(t) {
		return true
	}
	upper := strings.ToUpper(t)
	if env.warningWords[upper] || stopWords[upper] {
		return true
	}
	return false
}

// isStopContent reports text that is clearly not a class/type continuation:
// ABV markers, bottler headers, net contents, origin lines, location lines.
func (env *Env) isStopContent(text string) bool {
	t := strings.TrimSpace(text)
	upper := strings.ToUpper(t)
	switch {
	case reABVQual.MatchString(t) || reABVStrict.MatchString(t):
		return true
	case reBottlerHeader.MatchString(t):
		return true
	case strings.Contains(upper, "IMPORTED BY"):
		return true
	case reNet.MatchString(t):
		return true
	case reCountry.MatchString(t):
		return true
	case strings.HasPrefix(upper, "CONTAINS"):
		return true
	case reLocation.MatchString(t) && !env.classRe.MatchString(t):
		return true
	}
	return false
}

func yDistance(a, b model.CanonicalBlock) float64 {
	d := a.BBox.CenterY() - b.BBox.CenterY()
	if d < 0 {
		d = -d
	}
	return d
}

func blockHeight(b model.CanonicalBlock) int {
	if b.BBox.H < 1 {
		return 1
	}
	return b.BBox.H
}

func joinTexts(blocks []model.CanonicalBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if t := strings.TrimSpace(b.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
