package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/labelcheck/labelcheck/internal/cache"
	"github.com/labelcheck/labelcheck/internal/model"
	"github.com/labelcheck/labelcheck/internal/ocr"
	"github.com/labelcheck/labelcheck/internal/pipeline"
)

var (
	appPath   string
	rulesPath string
	outJSON   string
	timeout   time.Duration
	noCache   bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <image>",
	Short: "Verify a label image against an application record",
	Long: `Check runs the full verification pipeline on a single label image:
- Preprocess the image into recognition variants
- Recognize text across multiple OCR passes
- Merge duplicate detections into canonical text blocks
- Extract mandatory label fields
- Compare each field against the application record
- Produce a pass / needs-review / fail checklist

Example:
  labelcheck check label.png --app application.json
  labelcheck check label.jpg --app application.yaml --json checklist.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&appPath, "app", "", "application record file (JSON or YAML, required)")
	checkCmd.Flags().StringVar(&rulesPath, "rules", "", "rule tables file (YAML, defaults built in)")
	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON checklist path (optional)")
	checkCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall check timeout")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the recognition cache")
	_ = checkCmd.MarkFlagRequired("app")
}

// errCriticalIssues signals a completed check whose verdict is Critical
// issues. It selects the exit code and is never printed.
var errCriticalIssues = errors.New("critical issues")

// rulesFile resolves which rule tables to load: an explicit --rules flag
// wins, otherwise the config file viper discovered (if any).
func rulesFile(flag string) string {
	if flag != "" {
		return flag
	}
	return viper.ConfigFileUsed()
}

func runCheck(cmd *cobra.Command, args []string) error {
	imagePath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := model.LoadConfig(rulesFile(rulesPath))
	if err != nil {
		return err
	}

	record, err := loadApplicationRecord(appPath)
	if err != nil {
		return err
	}

	image, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", imagePath)
		fmt.Fprintf(os.Stderr, "Application: %s (%s)\n", record.BrandName, record.BeverageType)
		fmt.Fprintf(os.Stderr, "Passes: %d variants x %d modes\n", len(cfg.OCR.Variants), len(cfg.OCR.PSMs))
		fmt.Fprintln(os.Stderr)
	}

	var blockCache cache.BlockCache
	if !noCache && cfg.CacheTTLSeconds > 0 {
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		blockCache = cache.NewMemoryCache(ttl, ttl)
	}

	checker := pipeline.NewChecker(ocr.NewTesseractEngine(), blockCache, cfg)
	checklist, err := checker.Check(ctx, image, record)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	renderer := pipeline.NewRenderer()
	if outJSON != "" {
		if err := renderer.RenderJSON(checklist, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
		}
	}
	renderer.RenderSummary(os.Stdout, checklist)

	if checklist.Overall == model.OverallCriticalIssues {
		return errCriticalIssues
	}
	return nil
}

// loadApplicationRecord reads the record as JSON or YAML by extension.
func loadApplicationRecord(path string) (*model.ApplicationRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read application record: %w", err)
	}
	var rec model.ApplicationRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parse application record: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parse application record: %w", err)
		}
	}
	return &rec, nil
}
