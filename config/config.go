package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

var conf = mustLoad()

type Config struct {
	Configuration struct {
		RateLimitPerSecond        int    `envconfig:"RATE_LIMIT_PER_SECOND" default:"2"`
		RateLimitBurstLimit       int    `envconfig:"RATE_LIMIT_BURST_LIMIT" default:"5"`
		CachedRateLimitPerSecond  int    `envconfig:"CACHED_RATE_LIMIT_PER_SECOND" default:"10"`
		CachedRateLimitBurstLimit int    `envconfig:"CACHED_RATE_LIMIT_BURST_LIMIT" default:"20"`
		APIKey                    string `envconfig:"API_KEY" default:""`
		AdminAccessToken          string `envconfig:"ADMIN_ACCESS_TOKEN" default:""`

		// Suggestion cache
		SuggestionTTLHours int `envconfig:"SUGGESTION_TTL_HOURS" default:"12"`

		// AI configuration
		AIMode        string  `envconfig:"AI_MODE" default:""` // "demo" | "live"
		OpenAIAPIKey  string  `envconfig:"OPENAI_API_KEY" default:""`
		OpenAIBaseURL string  `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
		OpenAIModel   string  `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
		AITemperature float64 `envconfig:"AI_TEMPERATURE" default:"0.6"`
		AIMaxTokens   int     `envconfig:"AI_MAX_TOKENS" default:"600"`

		// Catalog endpoints
		TMDBAPIKey       string `envconfig:"TMDB_API_KEY" default:""`
		TMDBBaseURL      string `envconfig:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`
		TMDBImageBaseURL string `envconfig:"TMDB_IMAGE_BASE_URL" default:"https://image.tmdb.org/t/p/w500"`
		ITunesBaseURL    string `envconfig:"ITUNES_BASE_URL" default:"https://itunes.apple.com"`
		GamesAPIURL      string `envconfig:"GAMES_API_URL" default:"https://api.sampleapis.com/switch/games"`
		TrendingTTLInSeconds int `envconfig:"TRENDING_TTL_IN_SECONDS" default:"3600"`

		// Store and poster storage
		StorePath           string `envconfig:"STORE_PATH" default:"/data/media-tracker.db"`
		PosterStorageRoot   string `envconfig:"POSTER_STORAGE_ROOT" default:"/data/posters"`
		PosterSigningSecret string `envconfig:"POSTER_SIGNING_SECRET" default:""`
		PosterURLTTLInSeconds    int `envconfig:"POSTER_URL_TTL_IN_SECONDS" default:"3600"`
		PosterURLBufferInSeconds int `envconfig:"POSTER_URL_BUFFER_IN_SECONDS" default:"60"`

		// Sessions
		SessionTTLHours int `envconfig:"SESSION_TTL_HOURS" default:"720"`

		CircuitBreakerThreshold    int `envconfig:"CIRCUIT_BREAKER_THRESHOLD" default:"5"`    // Consecutive failures before circuit opens
		CircuitBreakerCooldownSecs int `envconfig:"CIRCUIT_BREAKER_COOLDOWN_SECS" default:"300"` // Seconds to wait before retrying
	}

	FeatureFlags struct {
		StoreCompression bool `envconfig:"FF_STORE_COMPRESSION" default:"true"`
	}
}

// load loads the configuration from the environment.
func load() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Warnf("Error loading env config: %v", err)
	}

	cfg := Config{}
	err = envconfig.Process("", &cfg)
	return cfg, err
}

func mustLoad() Config {
	c, err := load()
	if err != nil {
		log.WithError(err).Warnf("Unable to load configuration")
	}

	return c
}

func Get() Config {
	return conf
}
