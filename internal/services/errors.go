package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized = errors.New("not authorized")
	ErrNotFound     = errors.New("not found")
	ErrNotConnected = errors.New("facebook account not connected")
	ErrTokenExpired = errors.New("facebook token expired, reconnect required")
	ErrNoAdAccount  = errors.New("no ad account selected")
	ErrNoPage       = errors.New("no facebook page selected")
)

// RemoteCreateError marks a failure of a remote create call, recording which
// orchestration stage was active when it happened.
type RemoteCreateError struct {
	Stage   string
	Message string
}

func (e *RemoteCreateError) Error() string {
	return fmt.Sprintf("remote create failed at %s: %s", e.Stage, e.Message)
}

// ConfigError reports missing platform app credentials. The admin sees the
// exact keys; end users get a generic message.
type ConfigError struct {
	MissingKeys []string
}

func (e *ConfigError) Error() string {
	return "facebook app not configured: missing " + strings.Join(e.MissingKeys, ", ")
}

func (e *ConfigError) AdminMessage() string {
	return "Facebook integration is not configured. Set " + strings.Join(e.MissingKeys, ", ") + " and restart."
}

func (e *ConfigError) UserMessage() string {
	return "Facebook publishing is temporarily unavailable. Please contact support."
}
