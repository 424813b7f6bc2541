package main

import (
	"net/http"
	"os"
	"time"

	"media-tracker-go/cache"
	"media-tracker-go/circuitbreaker"
	"media-tracker-go/config"
	"media-tracker-go/logcolors"
	"media-tracker-go/middleware"
	"media-tracker-go/posters"
	"media-tracker-go/services/ai"
	"media-tracker-go/services/enrich"
	"media-tracker-go/services/games"
	"media-tracker-go/services/itunes"
	"media-tracker-go/services/storage"
	"media-tracker-go/services/suggest"
	"media-tracker-go/services/tmdb"
	"media-tracker-go/services/trending"
	"media-tracker-go/store"

	"golang.org/x/time/rate"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

var conf = config.Get()

var (
	db              *store.Store
	suggestionCache *cache.MemorySuggestionCache
	posterURLCache  *cache.PosterURLCache
	tmdbClient      *tmdb.Client
	itunesClient    *itunes.Client
	gamesClient     *games.Client
	aiBreaker       *circuitbreaker.CircuitBreaker
	generator       *ai.Generator
	enricher        *enrich.Enricher
	suggestions     *suggest.Service
	trendingSvc     *trending.Service
	posterStorage   *storage.Storage
	posterResolver  *posters.Resolver
)

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel) // Set to InfoLevel (change to DebugLevel for detailed logs)

	err := godotenv.Load()
	if err != nil {
		log.Warn("Error loading .env file, using environment variables")
	}
}

func main() {
	var err error
	db, err = store.New(conf.Configuration.StorePath, conf.FeatureFlags.StoreCompression)
	if err != nil {
		log.Fatalf("%s Failed to open store: %v", logcolors.LogStoreInit, err)
	}
	defer db.Close()

	suggestionCache = cache.NewMemorySuggestionCache()
	posterURLCache = cache.NewPosterURLCache(time.Duration(conf.Configuration.PosterURLBufferInSeconds) * time.Second)

	tmdbClient = tmdb.NewClient(conf.Configuration.TMDBAPIKey, conf.Configuration.TMDBBaseURL, conf.Configuration.TMDBImageBaseURL)
	itunesClient = itunes.NewClient(conf.Configuration.ITunesBaseURL)
	gamesClient = games.NewClient(conf.Configuration.GamesAPIURL)

	aiBreaker = circuitbreaker.New(circuitbreaker.Config{
		Name:      "ai",
		Threshold: conf.Configuration.CircuitBreakerThreshold,
		Cooldown:  time.Duration(conf.Configuration.CircuitBreakerCooldownSecs) * time.Second,
	})
	generator = ai.NewGenerator(ai.Config{
		Mode:        conf.Configuration.AIMode,
		APIKey:      conf.Configuration.OpenAIAPIKey,
		Model:       conf.Configuration.OpenAIModel,
		BaseURL:     conf.Configuration.OpenAIBaseURL,
		Temperature: conf.Configuration.AITemperature,
		MaxTokens:   conf.Configuration.AIMaxTokens,
		Breaker:     aiBreaker,
	})
	log.Infof("%s Recommendation generator running in %s mode", logcolors.LogAI, generator.Mode())

	enricher = enrich.New(tmdbClient, itunesClient)
	suggestions = suggest.New(db, suggestionCache, generator, enricher,
		time.Duration(conf.Configuration.SuggestionTTLHours)*time.Hour)
	trendingSvc = trending.New(tmdbClient, itunesClient, gamesClient,
		time.Duration(conf.Configuration.TrendingTTLInSeconds)*time.Second)

	if conf.Configuration.PosterSigningSecret != "" {
		posterStorage, err = storage.New(conf.Configuration.PosterStorageRoot, conf.Configuration.PosterSigningSecret)
		if err != nil {
			log.Fatalf("%s Failed to init poster storage: %v", logcolors.LogStorage, err)
		}
		posterResolver = posters.NewResolver(tmdbClient, posterStorage, posterURLCache,
			time.Duration(conf.Configuration.PosterURLTTLInSeconds)*time.Second)
	} else {
		log.Warnf("%s No poster signing secret configured, uploads disabled", logcolors.LogStorage)
		posterResolver = posters.NewResolver(tmdbClient, nil, posterURLCache,
			time.Duration(conf.Configuration.PosterURLTTLInSeconds)*time.Second)
	}

	router := mux.NewRouter()
	setupRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: true,
	})

	limiter := middleware.NewIPRateLimiter(
		rate.Limit(conf.Configuration.RateLimitPerSecond), conf.Configuration.RateLimitBurstLimit,
		rate.Limit(conf.Configuration.CachedRateLimitPerSecond), conf.Configuration.CachedRateLimitBurstLimit,
	)

	// session resolution, then logging, then stats
	sessionHandler := middleware.SessionMiddleware(db)(router)
	loggedRouter := middleware.LoggingMiddleware(statsMiddleware(sessionHandler))
	// chain cors middleware
	corsHandler := c.Handler(loggedRouter)

	// chain rate limiter
	handler := limitMiddleware(corsHandler, limiter)

	log.Infof("%s Server listening on port %s", logcolors.LogServer, port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
