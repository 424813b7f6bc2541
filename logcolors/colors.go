package logcolors

// ANSI color codes for log prefixes
const (
	Reset  = "\033[0m"
	Green  = "\033[32m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"

	// Bright variants for more color variety
	BrightGreen   = "\033[92m"
	BrightBlue    = "\033[94m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"

	Red       = "\033[31m"
	BrightRed = "\033[91m"
	Yellow    = "\033[33m"
)

// Cache-related log prefixes
const (
	LogCache            = Blue + "[Cache]" + Reset
	LogCacheSuggestions = Green + "[Cache:Suggestions]" + Reset
	LogCachePosterURL   = Cyan + "[Cache:PosterURL]" + Reset
	LogCacheTrending    = Cyan + "[Cache:Trending]" + Reset
)

// Store log prefixes
const (
	LogStore     = Blue + "[Store]" + Reset
	LogStoreInit = Blue + "[Store:Init]" + Reset
)

// Rate limiting and auth log prefixes
const (
	LogRateLimit = Purple + "[RateLimit]" + Reset
	LogSession   = Purple + "[Session]" + Reset
)

// External service log prefixes
const (
	LogAI      = BrightMagenta + "[AI]" + Reset
	LogTMDB    = Blue + "[TMDB]" + Reset
	LogITunes  = BrightCyan + "[iTunes]" + Reset
	LogGames   = BrightGreen + "[Games]" + Reset
	LogEnrich  = Green + "[Enrich]" + Reset
	LogSuggest = Green + "[Suggest]" + Reset
	LogStorage = Cyan + "[Storage]" + Reset
)

// Server/Init log prefixes
const (
	LogServer = Green + "[Server]" + Reset
	LogConfig = Cyan + "[Config]" + Reset
	LogStats  = Blue + "[Stats]" + Reset
)

// CircuitBreakerPrefix returns a colored circuit breaker prefix with the given name
func CircuitBreakerPrefix(name string) string {
	return Purple + "[CircuitBreaker:" + name + "]" + Reset
}
