// Package puter is a client for the Puter AI gateway: one account, many
// models behind a single driver-call endpoint.
//
// A Session logs in, keeps the transcript and resends it with every prompt:
//
//	s := puter.New(puter.WithCredentials("alice", "secret"))
//	if err := s.Login(ctx); err != nil {
//		return err
//	}
//	answer, err := s.Chat(ctx, "Hello!")
//
// The building blocks live in the core packages: config, content,
// transport, response, registry, session and export. Storage and
// observability backends live under providers.
package puter

import (
	"github.com/leofalp/puter-go/core/config"
	"github.com/leofalp/puter-go/core/content"
	"github.com/leofalp/puter-go/core/session"
)

type (
	Session     = session.Session
	Option      = session.Option
	ChatRequest = session.ChatRequest
	ChatResult  = session.ChatResult
	ChatOption  = session.ChatOption
	Message     = content.Message
	Part        = content.Part
	Image       = content.Image
)

// Session options.
var (
	WithConfig           = session.WithConfig
	WithConfigOverrides  = session.WithConfigOverrides
	WithCredentials      = session.WithCredentials
	WithToken            = session.WithToken
	WithRegistry         = session.WithRegistry
	WithModel            = session.WithModel
	WithMemory           = session.WithMemory
	WithObserver         = session.WithObserver
	WithHTTPClient       = session.WithHTTPClient
	WithLogger           = session.WithLogger
	WithMetrics          = session.WithMetrics
	WithMiddleware       = session.WithMiddleware
	WithTransportOptions = session.WithTransportOptions
)

// Chat options.
var (
	WithChatModel = session.WithChatModel
	WithImages    = session.WithImages
	WithParts     = session.WithParts
)

// Errors returned by a Session.
var (
	ErrAuthFailed       = session.ErrAuthFailed
	ErrNotAuthenticated = session.ErrNotAuthenticated
	ErrInvalidInput     = content.ErrInvalidInput
)

// New creates a Session configured from config.Default unless WithConfig
// is given. Later changes to the process-wide defaults do not affect it.
func New(opts ...Option) *Session {
	return session.New(append([]Option{session.WithConfig(config.Snapshot())}, opts...)...)
}
