package main

import "os"

type Config struct {
	Port string

	ExcelPath    string
	TemplatePath string
	OutputDir    string

	SQLDriver string
	SQLDSN    string
	SQLTable  string

	BQProject     string
	BQDataset     string
	BQTable       string
	BQCredentials string
}

func loadConfig() Config {
	return Config{
		Port: getEnv("PORT", "5000"),

		ExcelPath:    getEnv("EXCEL_FILE", "ExcelFiles/reentry5.xlsx"),
		TemplatePath: getEnv("TEMPLATE_FILE", "data/Template.docx"),
		OutputDir:    getEnv("OUTPUT_DIR", "data"),

		SQLDriver: getEnv("SQL_DRIVER", "mysql"),
		SQLDSN:    os.Getenv("SQL_DSN"),
		SQLTable:  getEnv("SQL_TABLE", "SocialEconomicLogistics_backup"),

		BQProject:     os.Getenv("BQ_PROJECT"),
		BQDataset:     getEnv("BQ_DATASET", "SerranoAdvisorsBQ"),
		BQTable:       getEnv("BQ_TABLE", "scalablefeaturesforBQ"),
		BQCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
