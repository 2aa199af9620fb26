// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package observability provides logging and request metrics.
package observability

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger interface.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field represents a log field.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// parseLevel maps a configured level name to a zap level, defaulting
// to info. "warning" is accepted as an alias for "warn".
func parseLevel(level string) zapcore.Level {
	if level == "warning" {
		level = "warn"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// logger wraps a zap logger behind the Logger interface.
type logger struct {
	zl *zap.Logger
}

// NewLogger creates a logger writing to stderr at the given level
// (debug, info, warn, error). An optional file path adds a file sink.
func NewLogger(level string, file string) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	cfg.OutputPaths = []string{"stderr"}
	if file != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, file)
	}

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &logger{zl: zl}, nil
}

// NewNopLogger returns a logger that discards everything. Used as the
// default when a client is constructed without explicit logging.
func NewNopLogger() Logger {
	return &logger{zl: zap.NewNop()}
}

func (l *logger) Debug(msg string, fields ...Field) {
	l.zl.Debug(msg, zapFields(fields)...)
}

func (l *logger) Info(msg string, fields ...Field) {
	l.zl.Info(msg, zapFields(fields)...)
}

func (l *logger) Warn(msg string, fields ...Field) {
	l.zl.Warn(msg, zapFields(fields)...)
}

func (l *logger) Error(msg string, fields ...Field) {
	l.zl.Error(msg, zapFields(fields)...)
}

func (l *logger) With(fields ...Field) Logger {
	return &logger{zl: l.zl.With(zapFields(fields)...)}
}

func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case error:
			if f.Key == "error" {
				out = append(out, zap.Error(v))
				continue
			}
		case time.Duration:
			out = append(out, zap.Duration(f.Key, v))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}
