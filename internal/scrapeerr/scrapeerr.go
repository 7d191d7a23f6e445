// Package scrapeerr classifies scraping failures by kind so callers can
// decide what is fatal (bad patterns, bad config) and what is a per-request
// miss that only costs leads from one step.
package scrapeerr

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindNetwork
	KindParse
	KindExtraction
	KindRegex
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration"
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	case KindExtraction:
		return "extraction"
	case KindRegex:
		return "regex"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Op names the step that failed
// (e.g. "github: repo info").
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with a kind and operation. A nil err yields nil.
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds a classified error from a message.
func Newf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: eris.Errorf(format, args...)}
}

// Network, Parse, etc. are shorthands used at the call sites that dominate
// the scraping code.
func Network(op string, err error) error { return New(KindNetwork, op, err) }
func Parse(op string, err error) error   { return New(KindParse, op, err) }
func Regex(op string, err error) error   { return New(KindRegex, op, err) }
func Config(op string, err error) error  { return New(KindConfig, op, err) }
func IO(op string, err error) error      { return New(KindIO, op, err) }

// KindOf returns the kind of the outermost classified error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
