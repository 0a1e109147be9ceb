package engine

import "github.com/thavarshan/fetch-go/internal/core/domain"

type noopPublisher struct{}

func (noopPublisher) Publish(domain.Event) {}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
