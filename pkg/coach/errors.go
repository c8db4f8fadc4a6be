// Package coach holds the dialogue engine: intent classification, context
// assembly and the pending-log workflow. Subpackages are leaf components; the
// orchestrator that ties them together lives in internal/service.
package coach

import "errors"

var (
	ErrEmptyMessage               = errors.New("message is empty")
	ErrUnknownUser                = errors.New("unknown user")
	ErrClassificationFailed       = errors.New("intent classification failed")
	ErrUpstreamGenerationFailed   = errors.New("upstream generation failed")
	ErrExtractionValidationFailed = errors.New("extracted log failed validation")
)
