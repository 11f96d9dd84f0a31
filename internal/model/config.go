package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide rule configuration. It is loaded once at
// startup, validated, and passed read-only into every component call; nothing
// mutates it after load, so invocations can share it without locking.
type Config struct {
	Preprocess  PreprocessConfig         `yaml:"preprocess"`
	OCR         OCRConfig                `yaml:"ocr"`
	Dedupe      DedupeConfig             `yaml:"dedupe"`
	Similarity  map[FieldName]Thresholds `yaml:"similarity"`
	Keywords    KeywordConfig            `yaml:"keywords"`
	NetContents NetContentsConfig        `yaml:"net_contents"`
	Warning     WarningConfig            `yaml:"warning"`
	ABV         ABVConfig                `yaml:"abv"`

	// ConditionalStatements maps statement id -> required wording substring,
	// matched case-insensitively against the full canonical text.
	ConditionalStatements map[string]string `yaml:"conditional_statements"`

	// Applicability records which fields are evaluated per beverage type.
	// Absent entries default to true (field applies).
	Applicability map[FieldName]map[BeverageType]bool `yaml:"applicability"`

	// CacheTTLSeconds bounds the in-memory OCR result cache; zero disables it.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

// PreprocessConfig controls image normalization.
type PreprocessConfig struct {
	MaxDim int `yaml:"max_dim"` // longest side after normalization
}

// OCRConfig defines the recognition pass matrix.
type OCRConfig struct {
	PSMs      []int    `yaml:"psms"`     // Tesseract page segmentation modes
	Variants  []string `yaml:"variants"` // preprocessor variant names to recognize
	Languages []string `yaml:"languages"`
	Workers   int      `yaml:"workers"` // concurrent passes
}

// DedupeConfig controls cross-pass block clustering.
type DedupeConfig struct {
	IoUThreshold  float64 `yaml:"iou_threshold"`
	TextThreshold float64 `yaml:"text_threshold"`
	// CanonicalBBox selects the merged cluster's box: "representative" keeps
	// the representative block's own bbox, "union" spans the whole cluster.
	CanonicalBBox string `yaml:"canonical_bbox"`
}

// Thresholds are the two cutoffs of a fuzzy field: score >= Pass is a pass,
// score >= Review is a needs-review, anything below is a fail.
type Thresholds struct {
	Pass   float64 `yaml:"pass"`
	Review float64 `yaml:"review"`
}

// KeywordConfig carries the keyword tables driving extraction heuristics.
type KeywordConfig struct {
	BrandSuffixes       []string `yaml:"brand_suffixes"`
	CorporateSuffixes   []string `yaml:"corporate_suffixes"`
	ClassKeywords       []string `yaml:"class_keywords"`
	StrongClassWords    []string `yaml:"strong_class_words"`
	ClassAdjectives     []string `yaml:"class_adjectives"`
	WarningKeywords     []string `yaml:"warning_keywords"`
	ServingFactsMarkers []string `yaml:"serving_facts_markers"`
	Countries           []string `yaml:"countries"`
}

// NetContentsConfig carries the standard-of-fill table and unit conversions.
type NetContentsConfig struct {
	StandardOfFillML []int   `yaml:"standard_of_fill_ml"`
	ToleranceML      int     `yaml:"tolerance_ml"`
	MLPerFlOz        float64 `yaml:"ml_per_fl_oz"`
	FlOzPerPint      float64 `yaml:"fl_oz_per_pint"`
	FlOzPerQuart     float64 `yaml:"fl_oz_per_quart"`
	FlOzPerGallon    float64 `yaml:"fl_oz_per_gallon"`
}

// WarningConfig carries the required health warning wording.
type WarningConfig struct {
	Lead          string `yaml:"lead"`
	FullStatement string `yaml:"full_statement"`
}

// ABVConfig bounds plausible alcohol-by-volume readings; values outside the
// window rank below in-window values when loose regex matches compete.
type ABVConfig struct {
	MinPlausible float64 `yaml:"min_plausible"`
	MaxPlausible float64 `yaml:"max_plausible"`
}

// FieldApplies reports whether the field is evaluated for the beverage type.
func (c *Config) FieldApplies(field FieldName, bt BeverageType) bool {
	byType, ok := c.Applicability[field]
	if !ok {
		return true
	}
	applies, ok := byType[bt]
	if !ok {
		return true
	}
	return applies
}

// DefaultConfig returns the built-in rule tables. File and environment
// overrides are merged on top by the CLI layer.
func DefaultConfig() *Config {
	return &Config{
		Preprocess: PreprocessConfig{MaxDim: 2000},
		OCR: OCRConfig{
			PSMs:      []int{3, 6},
			Variants:  []string{"normalized", "contrast", "binarized"},
			Languages: []string{"eng"},
			Workers:   3,
		},
		Dedupe: DedupeConfig{
			IoUThreshold:  0.5,
			TextThreshold: 0.85,
			CanonicalBBox: "representative",
		},
		Similarity: map[FieldName]Thresholds{
			FieldBrandName: {Pass: 0.90, Review: 0.70},
			FieldClassType: {Pass: 0.90, Review: 0.70},
			FieldWarning:   {Pass: 0.90, Review: 0.70},
			FieldBottler:   {Pass: 0.90, Review: 0.70},
		},
		Keywords: KeywordConfig{
			BrandSuffixes: []string{
				"DISTILLERY", "DISTILLERS", "BREWING", "BREWERY", "WINERY",
				"VINEYARDS", "CELLARS", "IMPORTS", "SPIRITS", "ESTATES", "RESERVE",
			},
			CorporateSuffixes: []string{
				"COMPANY", "CO", "INC", "LLC", "LTD", "CORP", "CORPORATION",
			},
			ClassKeywords: []string{
				"Vodka", "Gin", "Distilled Gin", "Rum", "Tequila", "Mezcal",
				"Whiskey", "Whisky", "Bourbon", "Bourbon Whiskey", "Rye Whiskey",
				"Wheat Whiskey", "Malt Whiskey", "Corn Whiskey",
				"Straight Bourbon Whiskey", "Straight Rye Whiskey",
				"Kentucky Straight Bourbon Whiskey", "Tennessee Whiskey",
				"Scotch Whisky", "Irish Whiskey", "Canadian Whisky",
				"Single Malt", "Single Barrel", "Brandy", "Cognac", "Armagnac",
				"Pisco", "Grappa", "Applejack", "Liqueur", "Cordial", "Amaretto",
				"Triple Sec", "Absinthe", "Bitters", "Aquavit", "Neutral Spirits",
				"Grain Spirits", "Table Wine", "Dessert Wine", "Red Wine",
				"Rose Wine", "White Wine", "Sparkling Wine", "Champagne",
				"Fortified Wine", "Sherry", "Port", "Madeira", "Vermouth", "Sake",
				"Mead", "Fruit Wine", "Beer", "Ale", "Lager", "Stout", "Porter",
				"Pale Ale", "India Pale Ale", "IPA", "Pilsner", "Wheat Beer",
				"Hefeweizen", "Saison", "Gose", "Malt Liquor", "Malt Beverage",
				"Hard Seltzer", "Hard Cider", "Straight", "Blended", "Aged",
				"Scotch", "Irish", "Canadian", "Kentucky", "Tennessee",
			},
			StrongClassWords: []string{
				"BOURBON", "WHISKEY", "WHISKY", "VODKA", "GIN", "RUM", "TEQUILA",
				"BRANDY", "COGNAC", "WINE", "BEER", "ALE", "LAGER", "STOUT",
				"PORTER", "PILSNER", "SAKE", "MEAD", "STRAIGHT", "BLENDED",
				"SINGLE", "MALT", "KENTUCKY", "TENNESSEE", "SCOTCH", "IRISH",
				"CANADIAN",
			},
			ClassAdjectives: []string{
				"SINGLE", "BARREL", "STRAIGHT", "BLENDED", "DOUBLE", "TRIPLE",
				"SMALL", "BATCH", "RESERVE", "AGED", "OLD", "AMERICAN",
				"WHISKEY", "WHISKY", "WINE", "ALE",
			},
			WarningKeywords: []string{
				"GOVERNMENT", "WARNING", "SURGEON", "GENERAL", "ACCORDING",
				"ALCOHOLIC", "BEVERAGES", "PREGNANCY", "DEFECTS", "CONSUMPTION",
				"IMPAIRS", "MACHINERY", "HEALTH", "PROBLEMS",
			},
			ServingFactsMarkers: []string{
				"SERVING SIZE", "SERYING SIZE", "SERVINGS PER", "SERVING FACTS",
				"AMOUNT PER SERVING", "CALORIES", "CARBOHYDRATE", "PROTEIN",
			},
			Countries: []string{
				"scotland", "ireland", "france", "italy", "spain", "germany",
				"mexico", "japan", "canada", "australia", "new zealand", "chile",
				"argentina", "brazil", "south africa", "netherlands", "belgium",
				"sweden", "portugal", "greece", "austria", "poland", "india",
				"china", "united kingdom", "england", "jamaica", "barbados",
				"cuba", "dominican republic", "puerto rico", "guatemala",
				"panama", "peru", "colombia",
			},
		},
		NetContents: NetContentsConfig{
			StandardOfFillML: []int{50, 100, 200, 355, 375, 700, 720, 750, 1000, 1750},
			ToleranceML:      5,
			MLPerFlOz:        29.5735,
			FlOzPerPint:      16,
			FlOzPerQuart:     32,
			FlOzPerGallon:    128,
		},
		Warning: WarningConfig{
			Lead: "GOVERNMENT WARNING:",
			FullStatement: "GOVERNMENT WARNING: (1) According to the Surgeon General, " +
				"women should not drink alcoholic beverages during pregnancy because " +
				"of the risk of birth defects. (2) Consumption of alcoholic beverages " +
				"impairs your ability to drive a car or operate machinery, and may " +
				"cause health problems.",
		},
		ABV: ABVConfig{MinPlausible: 3.0, MaxPlausible: 75.0},
		ConditionalStatements: map[string]string{
			"sulfites":        "contains sulfites",
			"fd_c_yellow_5":   "fd&c yellow no. 5",
			"carmine":         "carmine",
			"wood_treatment":  "treated with",
			"age_statement":   "aged",
			"neutral_spirits": "neutral spirits",
		},
		Applicability: map[FieldName]map[BeverageType]bool{
			FieldProof: {
				BeverageBeer: false,
				BeverageWine: false,
			},
			FieldAlcoholPct: {
				BeverageBeer: false,
			},
		},
		CacheTTLSeconds: 600,
	}
}

// LoadConfig reads a YAML rules file over the defaults. An empty path
// returns the defaults unchanged; a named file that cannot be read is a
// startup failure, as is a malformed one.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Reason: "read " + path, Err: err}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigError{Reason: "parse " + path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Preprocess.MaxDim <= 0 {
		return &ConfigError{Reason: "preprocess.max_dim must be positive"}
	}
	if len(c.OCR.PSMs) == 0 || len(c.OCR.Variants) == 0 {
		return &ConfigError{Reason: "ocr pass matrix must list at least one psm and one variant"}
	}
	if c.Dedupe.IoUThreshold <= 0 || c.Dedupe.IoUThreshold > 1 {
		return &ConfigError{Reason: "dedupe.iou_threshold must be in (0,1]"}
	}
	if c.Dedupe.TextThreshold <= 0 || c.Dedupe.TextThreshold > 1 {
		return &ConfigError{Reason: "dedupe.text_threshold must be in (0,1]"}
	}
	switch c.Dedupe.CanonicalBBox {
	case "representative", "union":
	default:
		return &ConfigError{Reason: fmt.Sprintf("dedupe.canonical_bbox must be representative or union, got %q", c.Dedupe.CanonicalBBox)}
	}
	for field, th := range c.Similarity {
		if th.Pass < th.Review || th.Pass > 1 || th.Review < 0 {
			return &ConfigError{Reason: fmt.Sprintf("similarity thresholds for %s must satisfy 0 <= review <= pass <= 1", field)}
		}
	}
	if len(c.NetContents.StandardOfFillML) == 0 {
		return &ConfigError{Reason: "net_contents.standard_of_fill_ml must not be empty"}
	}
	if c.NetContents.MLPerFlOz <= 0 {
		return &ConfigError{Reason: "net_contents.ml_per_fl_oz must be positive"}
	}
	if c.Warning.FullStatement == "" {
		return &ConfigError{Reason: "warning.full_statement is required"}
	}
	return nil
}
