// Package constants provides shared constants for the mortgage-calculator application.
package constants

import "time"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// CurrencyDecimalPlaces is the number of decimal places shown for currency
	CurrencyDecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DefaultTaxRate is the fixed mortgage interest deduction rate
	// (hypotheekrenteaftrek) applied to the interest portion.
	DefaultTaxRate = 0.37

	// CurrencySymbol is prefixed to formatted monetary amounts.
	CurrencySymbol = "€"

	// MaxTaxDeductionYears is the longest period the mortgage interest
	// deduction may be claimed for.
	MaxTaxDeductionYears = 30

	// MaxTermYears bounds the term accepted from configuration and API
	// requests.
	MaxTermYears = 100

	// HighInterestRateWarning is the annual rate (percent) above which a
	// scenario is flagged as unusual.
	HighInterestRateWarning = 15.0
)

// Mortgage type constants
const (
	// MortgageTypeAnnuity is a fixed total payment mortgage
	MortgageTypeAnnuity = "annuity"

	// MortgageTypeLinear is a fixed principal payment mortgage
	MortgageTypeLinear = "linear"
)

// Balance clamping tolerances for the final period
const (
	// ResidualBalanceRelativeTolerance is the residue, relative to the
	// principal, under which the final balance is reported as zero.
	ResidualBalanceRelativeTolerance = 1e-6

	// ResidualBalanceAbsoluteTolerance is used when the principal is zero.
	ResidualBalanceAbsoluteTolerance = 1e-9
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format with chart series
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// ServerConfigEnvVar selects the server configuration file
	ServerConfigEnvVar = "MORTGAGE_SERVER_CONFIG"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultShutdownTimeout bounds graceful server shutdown
	DefaultShutdownTimeout = 10 * time.Second
)

// Cache defaults
const (
	// CacheBackendMemory keeps results in process memory
	CacheBackendMemory = "memory"

	// CacheBackendRedis keeps results in Redis
	CacheBackendRedis = "redis"

	// CacheBackendNone disables caching
	CacheBackendNone = "none"

	// DefaultCacheTTL is how long cached schedules stay valid
	DefaultCacheTTL = 15 * time.Minute

	// CacheKeyPrefix namespaces cache keys
	CacheKeyPrefix = "mortgage:schedule:"
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)
