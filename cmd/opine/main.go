// Command opine seeds an aspect taxonomy, runs reviews through the
// sentiment pipeline, stores the results and prints per-aspect summaries.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tsawler/opine"
	"github.com/tsawler/opine/store"
)

type taxonomyFile struct {
	Categories []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Aspects     []struct {
			Name        string   `yaml:"name"`
			Description string   `yaml:"description"`
			Weightage   float64  `yaml:"weightage"`
			Keywords    []string `yaml:"keywords"`
		} `yaml:"aspects"`
	} `yaml:"categories"`
}

func main() {
	var (
		dbPath     = flag.String("db", "opine.db", "sqlite database path")
		dbDSN      = flag.String("dsn", "", "postgres DSN (overrides -db)")
		configPath = flag.String("config", "", "pipeline config file (yaml)")
		taxonomy   = flag.String("taxonomy", "", "taxonomy seed file (yaml)")
		reviews    = flag.String("reviews", "", "reviews file (csv: user_id,content)")
		userFlag   = flag.String("user", "", "user id for summary output")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	log := newLogger(*verbose)
	defer log.Sync()

	if err := run(log, *dbPath, *dbDSN, *configPath, *taxonomy, *reviews, *userFlag); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	return log
}

func run(log *zap.Logger, dbPath, dsn, configPath, taxonomyPath, reviewsPath, user string) error {
	ctx := context.Background()

	cfg := opine.DefaultConfig()
	if configPath != "" {
		loaded, err := opine.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	db, err := openDB(dbPath, dsn)
	if err != nil {
		return err
	}
	st := store.New(db, log)
	if err := st.Migrate(); err != nil {
		return err
	}

	if taxonomyPath != "" {
		if err := seedTaxonomy(ctx, st, taxonomyPath); err != nil {
			return err
		}
		color.Green("taxonomy seeded from %s", taxonomyPath)
	}

	index := opine.NewTaxonomyIndex(st, cfg, log)
	if err := index.Reload(ctx); err != nil {
		return err
	}

	pipeline := opine.NewPipeline(index,
		opine.WithConfig(cfg),
		opine.WithLogger(log),
	)

	if reviewsPath != "" {
		if err := ingestReviews(ctx, log, st, pipeline, reviewsPath); err != nil {
			return err
		}
	}

	if user != "" {
		userID, err := uuid.Parse(user)
		if err != nil {
			return fmt.Errorf("parsing user id %q: %w", user, err)
		}
		return printSummary(ctx, st, userID)
	}
	return nil
}

func openDB(path, dsn string) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	if dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		return db, nil
	}
	db, err := gorm.Open(sqlite.Open(path), gcfg)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	return db, nil
}

func seedTaxonomy(ctx context.Context, st *store.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading taxonomy file: %w", err)
	}
	var tf taxonomyFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("parsing taxonomy file: %w", err)
	}

	for _, c := range tf.Categories {
		cat, err := st.CreateCategory(ctx, c.Name, c.Description)
		if err != nil {
			return err
		}
		for _, a := range c.Aspects {
			asp, err := st.CreateAspect(ctx, cat.ID, a.Name, a.Description, a.Weightage)
			if err != nil {
				return err
			}
			for _, kw := range a.Keywords {
				if _, err := st.AddKeyword(ctx, asp.ID, kw); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ingestReviews reads user_id,content rows. A malformed or failing row is
// logged and skipped so one bad review does not abort the batch.
func ingestReviews(ctx context.Context, log *zap.Logger, st *store.Store, p *opine.Pipeline, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening reviews file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var processed, skipped int
	for line := 1; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading reviews csv: %w", err)
		}
		if line == 1 && strings.EqualFold(rec[0], "user_id") {
			continue
		}
		if len(rec) < 2 {
			log.Warn("skipping malformed row", zap.Int("line", line))
			skipped++
			continue
		}
		userID, err := uuid.Parse(strings.TrimSpace(rec[0]))
		if err != nil {
			log.Warn("skipping row with bad user id", zap.Int("line", line), zap.Error(err))
			skipped++
			continue
		}
		content := rec[1]

		overall, mentions := p.Process(ctx, content)
		if _, err := st.SaveAnalysis(ctx, userID, content, overall, mentions); err != nil {
			log.Warn("skipping row that failed to save", zap.Int("line", line), zap.Error(err))
			skipped++
			continue
		}
		processed++
	}

	color.Green("processed %d reviews (%d skipped)", processed, skipped)
	return nil
}

func printSummary(ctx context.Context, st *store.Store, userID uuid.UUID) error {
	records, err := st.ListMentions(ctx, userID, nil, nil)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no mentions found")
		return nil
	}

	printSummaryTable("ASPECT", opine.Summarize(records, opine.AspectKey))
	fmt.Println()
	printSummaryTable("CATEGORY", opine.Summarize(records, opine.CategoryKey))
	return nil
}

func printSummaryTable(heading string, summaries []opine.Summary) {
	bold := color.New(color.Bold)
	bold.Printf("%-24s %8s %8s %8s %10s %10s\n",
		heading, "POS", "NEG", "NEU", "STRENGTH", "DOMINANT")
	for _, s := range summaries {
		line := fmt.Sprintf("%-24s %7.1f%% %7.1f%% %7.1f%% %10.2f %10s",
			s.Key, s.PositivePct, s.NegativePct, s.NeutralPct, s.AvgStrength, s.Dominant)
		switch s.Dominant {
		case "Positive":
			color.Green("%s", line)
		case "Negative":
			color.Red("%s", line)
		default:
			fmt.Println(line)
		}
	}
}
