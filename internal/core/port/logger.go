package port

// Fields - структурированные данные для лога
type Fields map[string]interface{}

// LoggerPort - контракт системы логирования, ядро не знает о конкретном логгере.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	// Error пишет ошибку вместе с объектом error (может быть nil)
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)

	// WithFields возвращает логгер с добавленным контекстом (trace_id, component...)
	WithFields(fields Fields) LoggerPort
}
