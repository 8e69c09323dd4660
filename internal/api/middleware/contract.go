package middleware

import "time"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics HTTP метрики
type Metrics interface {
	ObserveHTTP(method, path, status string, d time.Duration)
	IncRateLimited(path string)
}
