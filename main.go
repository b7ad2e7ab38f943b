package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	apimod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/api"
	cachemod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/cache"
	cartmod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/cart"
	catalogmod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/catalog"
	checkoutmod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/checkout"
	identitymod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/identity"
	storagemod "github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/storage"
)

const shutdownTimeout = 30 * time.Second

func main() {
	dbPath := getEnv("DB_PATH", "./storefront.db")
	httpPort := getEnvInt("HTTP_PORT", 3000)
	redisAddr := getEnv("REDIS_ADDR", "")
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)
	cachePrefix := getEnv("CACHE_PREFIX", "storefront:")

	log.Println("=== Aleesab Storefront API ===")
	log.Printf("Database: %s", dbPath)
	log.Printf("HTTP Port: %d", httpPort)
	if redisAddr != "" {
		log.Printf("Redis: %s (ttl %s)", redisAddr, cacheTTL)
	} else {
		log.Println("Redis: disabled")
	}

	// Create modules
	storageModule := storagemod.NewModule(dbPath)
	cacheModule := cachemod.NewModule(redisAddr, cachePrefix, cacheTTL)
	catalogModule := catalogmod.NewModule()
	cartModule := cartmod.NewModule()
	identityModule := identitymod.NewModule()
	checkoutModule := checkoutmod.NewModule()
	apiModule := apimod.NewModule(httpPort)

	// Wire dependencies. Module references are set up front; each module
	// resolves the live service handles in its own Start, after its
	// dependencies have started.
	catalogModule.SetStorage(storageModule)
	catalogModule.SetCacheModule(cacheModule)
	cartModule.SetStorage(storageModule)
	identityModule.SetStorage(storageModule)
	checkoutModule.SetStorage(storageModule)
	apiModule.SetIdentityModule(identityModule)
	apiModule.SetCatalogModule(catalogModule)
	apiModule.SetCartModule(cartModule)
	apiModule.SetCheckoutModule(checkoutModule)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Registration order matters: storage first, the API surface last.
	app.Register(storageModule)
	app.Register(cacheModule)
	app.Register(catalogModule)
	app.Register(cartModule)
	app.Register(identityModule)
	app.Register(checkoutModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// The cart engine claims guest carts on login; wired after start so the
	// cart service exists.
	identityModule.SetCartMerger(cartModule.GetService())

	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%d/api", httpPort)
	log.Println("Press Ctrl+C to shutdown")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// getEnv returns an environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns an environment variable as duration or a default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
