// Package logger builds log/slog loggers and provides nil-safe attribute helpers.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithDevelopment("beacon"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("tracking started",
//		logger.Component("analytics"),
//		logger.SessionID(id),
//		logger.Path("/menu"),
//	)
//
// # Environment Presets
//
//   - WithDevelopment: text output, debug level
//   - WithProduction: JSON output, info level
//
// Both attach a "service" attribute. Individual options applied after a preset override it:
//
//	log := logger.New(
//		logger.WithProduction("beacon"),
//		logger.WithOutput(os.Stderr),
//		logger.WithAttr(slog.String("region", "eu-north-1")),
//	)
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for empty input, so they can be passed without checks:
//
//	log.Error("write failed", logger.Error(err), logger.Table("events"))
//
// slog drops empty attributes from the output.
//
// # Discard
//
// Libraries in this module default to Discard() so nothing is printed unless the host
// injects a logger.
package logger
