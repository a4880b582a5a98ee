package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"cloud.google.com/go/bigquery"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/serrano-advisors/careplan/audit"
	"github.com/serrano-advisors/careplan/cmd/careplan/api"
	"github.com/serrano-advisors/careplan/merge"
	"github.com/serrano-advisors/careplan/provider"
	"github.com/serrano-advisors/careplan/render"
	"github.com/serrano-advisors/careplan/util"
)

func main() {
	log := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stdout })).With().Timestamp().Caller().Logger()

	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Msg("No .env file found, using process environment")
	}
	cfg := loadConfig()
	ctx := context.Background()

	// A missing source leaves its handle nil and the provider unregistered
	// instead of preventing startup; the service then works off the
	// remaining sources.
	var db *sqlx.DB
	if cfg.SQLDSN != "" {
		var err error
		db, err = sqlx.Connect(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			log.Error().Err(err).Str("driver", cfg.SQLDriver).Msg("Failed to connect to the database")
			db = nil
		} else {
			defer db.Close()
		}
	} else {
		log.Warn().Msg("SQL_DSN not set, sql source disabled")
	}

	var bqClient *bigquery.Client
	if cfg.BQProject != "" {
		var opts []option.ClientOption
		if cfg.BQCredentials != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.BQCredentials))
		}
		var err error
		bqClient, err = bigquery.NewClient(ctx, cfg.BQProject, opts...)
		if err != nil {
			log.Error().Err(err).Msg("Could not initialize BigQuery client")
			bqClient = nil
		} else {
			defer bqClient.Close()
		}
	} else {
		log.Warn().Msg("BQ_PROJECT not set, bigquery source disabled")
	}

	svc := merge.NewService(assembleProviders(cfg, db, bqClient, log), log)
	renderer := render.NewRenderer(util.GetAbsolutePath(cfg.TemplatePath), log)

	var auditDB *gorm.DB
	if cfg.SQLDSN != "" && db != nil {
		var err error
		auditDB, err = gorm.Open(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			log.Warn().Err(err).Msg("Render log disabled, could not open database")
			auditDB = nil
		} else {
			defer auditDB.Close()
		}
	}
	store := audit.NewStore(auditDB, log)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", cfg.OutputDir).Msg("Could not create output directory")
	}

	router := api.NewRouter(svc, renderer, store, db, cfg.OutputDir, log)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("Starting careplan service")
	if err := http.ListenAndServe(addr, router.Handler()); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

// assembleProviders registers the Excel source unconditionally and the
// SQL/BigQuery sources only when their handles exist. An unconfigured
// source is simply absent, so it contributes nothing to merge and
// candidate search; a registered source that fails at request time still
// aborts document generation.
func assembleProviders(cfg Config, db *sqlx.DB, bqClient *bigquery.Client, log zerolog.Logger) []provider.RecordProvider {
	providers := []provider.RecordProvider{
		provider.NewExcelProvider(cfg.ExcelPath, log),
	}
	if db != nil {
		providers = append(providers, provider.NewSQLProvider(db, cfg.SQLTable, log))
	}
	if bqClient != nil {
		table := fmt.Sprintf("%s.%s.%s", cfg.BQProject, cfg.BQDataset, cfg.BQTable)
		providers = append(providers, provider.NewBigQueryProvider(bqClient, table, log))
	}
	return providers
}
