// Package logger provides a singleton Zap logger with context-based scoping.
//
// # Design Decisions
//
//   - Singleton: Una sola instancia global inicializada con Init().
//   - Context Scoping: Cada request puede tener su propio logger "scoped" con campos
//     adicionales (request_id, method, path) sin crear un nuevo core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON, "test" descarta todo.
//   - Levels: debug, info, warn, error (configurable via LOG_LEVEL).
//
// # Usage
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{
//	    Env:   os.Getenv("APP_ENV"),   // "dev" o "prod"
//	    Level: os.Getenv("LOG_LEVEL"), // "debug", "info", "warn", "error"
//	})
//	defer logger.L().Sync()
//
// En handlers/services (con contexto):
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Check"))
//	log.Info("key evaluated", logger.LicenseKey(key), logger.Outcome("valid"))
//
// Sin contexto (fallback a singleton):
//
//	logger.L().Info("application started")
package logger
