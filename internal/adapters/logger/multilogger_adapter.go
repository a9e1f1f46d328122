package logger_adapter

import (
	"fmt"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

// MultiLoggerAdapter дублирует запись в stdout и, если включен, во fluent
type MultiLoggerAdapter struct {
	sinks []port.LoggerPort
}

// NewMultiloggerAdapter пропускает nil и разворачивает вложенные MultiLoggerAdapter,
// чтобы запись не уходила в один и тот же логгер дважды через цепочку оберток.
func NewMultiloggerAdapter(loggers ...port.LoggerPort) (port.LoggerPort, error) {
	sinks := make([]port.LoggerPort, 0, len(loggers))
	for _, l := range loggers {
		switch typed := l.(type) {
		case nil:
			continue
		case *MultiLoggerAdapter:
			sinks = append(sinks, typed.sinks...)
		default:
			sinks = append(sinks, l)
		}
	}
	if len(sinks) == 0 {
		return nil, fmt.Errorf("multilogger: no non-nil logger provided")
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return &MultiLoggerAdapter{sinks: sinks}, nil
}

func (m *MultiLoggerAdapter) each(fn func(port.LoggerPort)) {
	for _, sink := range m.sinks {
		fn(sink)
	}
}

func (m *MultiLoggerAdapter) Info(msg string, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Info(msg, fields) })
}

func (m *MultiLoggerAdapter) Warn(msg string, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Warn(msg, fields) })
}

func (m *MultiLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Error(msg, err, fields) })
}

func (m *MultiLoggerAdapter) Debug(msg string, fields port.Fields) {
	m.each(func(l port.LoggerPort) { l.Debug(msg, fields) })
}

// WithFields обогащает каждый приемник отдельно
func (m *MultiLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	sinks := make([]port.LoggerPort, len(m.sinks))
	for i, sink := range m.sinks {
		sinks[i] = sink.WithFields(fields)
	}
	return &MultiLoggerAdapter{sinks: sinks}
}
