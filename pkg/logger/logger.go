package logger

import (
	"log/slog"
	"os"
)

var log *slog.Logger = slog.Default()

// Init configures the process logger. Production gets JSON output,
// everything else gets the text handler at debug level.
func Init(environment string) {
	var handler slog.Handler

	if environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	log = slog.New(handler)
}

func Info(msg string, args ...any) {
	log.Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
}

func Debug(msg string, args ...any) {
	log.Debug(msg, normalize(args)...)
}

func Fatal(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
	os.Exit(1)
}

// normalize accepts both slog-style key/value pairs and bare values
// (errors, strings) so call sites can stay terse.
func normalize(args []any) []any {
	out := make([]any, 0, len(args))

	for i := 0; i < len(args); i++ {
		if key, ok := args[i].(string); ok && i+1 < len(args) {
			out = append(out, key, args[i+1])
			i++
			continue
		}

		switch v := args[i].(type) {
		case error:
			out = append(out, slog.Any("error", v))
		default:
			out = append(out, slog.Any("detail", v))
		}
	}

	return out
}
