package logger

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

func init() {
	log = logrus.New()
	log.SetOutput(os.Stdout)

	// Configurar formatter baseado na variável de ambiente
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "text" {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
			DisableQuote:    true,
		})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyFunc:  "caller",
			},
		})
	}

	// Configurar nível de log baseado na variável de ambiente
	level := strings.ToLower(os.Getenv("LOG_LEVEL"))
	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	case "fatal":
		log.SetLevel(logrus.FatalLevel)
	case "panic":
		log.SetLevel(logrus.PanicLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

// GetLogger retorna a instância do logger
func GetLogger() *logrus.Logger {
	return log
}

// WithFields cria um entry com campos estruturados
func WithFields(fields logrus.Fields) *logrus.Entry {
	return log.WithFields(fields)
}

// WithField cria um entry com um campo estruturado
func WithField(key string, value interface{}) *logrus.Entry {
	return log.WithField(key, value)
}

// WithContext cria um entry com contexto
func WithContext(ctx context.Context) *logrus.Entry {
	return log.WithContext(ctx)
}

// WithError cria um entry com erro
func WithError(err error) *logrus.Entry {
	return log.WithError(err)
}

// Info logs an info message
func Info(args ...interface{}) {
	log.Info(args...)
}

// Infof logs an info message with formatting
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Error logs an error message
func Error(args ...interface{}) {
	log.Error(args...)
}

// Errorf logs an error message with formatting
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Warn logs a warning message
func Warn(args ...interface{}) {
	log.Warn(args...)
}

// Warnf logs a warning message with formatting
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Debug logs a debug message
func Debug(args ...interface{}) {
	log.Debug(args...)
}

// Debugf logs a debug message with formatting
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Fatal logs a fatal message and exits
func Fatal(args ...interface{}) {
	log.Fatal(args...)
}

// Fatalf logs a fatal message with formatting and exits
func Fatalf(format string, args ...interface{}) {
	log.Fatalf(format, args...)
}

// LogDispatchSuccess logs a dispatch that reached a processor
func LogDispatchSuccess(correlationID, processorType, amount string) {
	WithFields(logrus.Fields{
		"correlation_id": correlationID,
		"processor_type": processorType,
		"amount":         amount,
		"operation":      "dispatch_success",
		"status":         "success",
	}).Info("Pagamento enviado com sucesso")
}

// LogDispatchFailure logs a dispatch dropped after both processors failed
func LogDispatchFailure(correlationID, amount string, err error) {
	WithFields(logrus.Fields{
		"correlation_id": correlationID,
		"amount":         amount,
		"operation":      "dispatch_failure",
		"status":         "error",
		"error":          err.Error(),
	}).Error("Falha ao processar pagamento em ambos os processadores")
}

// LogHealthVerdict logs a cached health verdict change
func LogHealthVerdict(processorType string, failing bool, minResponseTime int64) {
	WithFields(logrus.Fields{
		"processor_type":    processorType,
		"failing":           failing,
		"min_response_time": minResponseTime,
		"operation":         "health_check",
	}).Info("Verdito de saúde atualizado")
}
