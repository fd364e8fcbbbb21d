// Package config provides centralized configuration management for pricedash.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (config.yaml or configs/config.yaml)
//	3. Default values (lowest priority)
//
// Command line flags, when given, are applied by the caller after Load.
//
// # Environment Variables
//
// All environment variables follow the pattern PRICEDASH_<SECTION>_<KEY>:
//
//	PRICEDASH_SERVER_PORT=8080
//	PRICEDASH_DATA_FILE=/srv/data/CARREFOUR_2026-01-16.txt
//	PRICEDASH_DATA_CURRENCY=EUR
//	PRICEDASH_LOGGING_LEVEL=debug
//	PRICEDASH_SECURITY_ALLOWED_ORIGINS=http://localhost:8080,https://dash.example.com
//	PRICEDASH_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Example File
//
//	server:
//	  port: 9000
//	data:
//	  file: data/CARREFOUR_2026-01-16.txt
//	  title: Carrefour Analytics
//	  recent_rows: 10
//
// data.file may also name a directory; the export with the latest date in
// its name among the files matching data.pattern (default *.txt) is shown.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Addr())
package config
