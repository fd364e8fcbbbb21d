package config

// Application constants
const (
	// Application Info
	AppName   = "pricedash"
	EnvPrefix = "PRICEDASH"

	// Data defaults
	DefaultDataFile     = "CARREFOUR_2026-01-16.txt"
	DefaultDataPattern  = "*.txt"
	DefaultLogoPath     = "logo_carrefour.png"
	DefaultTitle        = "Carrefour Analytics"
	DefaultCurrency     = "EUR"
	DefaultRecentRows   = 8
	DefaultExportPrefix = "export_carrefour"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	DefaultLogFile = "logs/pricedash.log"
)
