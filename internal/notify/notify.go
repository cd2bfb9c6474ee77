// Package notify surfaces workflow results to the user.
package notify

import "git-setup/internal/logger"

// Notifier shows messages to the user.
type Notifier interface {
	Info(message string)
	Warn(message string)
	Error(message string)
}

// Console prints notifications through the logger.
type Console struct{}

var _ Notifier = Console{}

func (Console) Info(message string) {
	logger.Info("[INFO] %s\n", message)
}

func (Console) Warn(message string) {
	logger.Warn("[WARN] %s\n", message)
}

func (Console) Error(message string) {
	logger.Error("[ERROR] %s\n", message)
}
