package waterpy

import "fmt"

// ConfigurationError reports an invalid or missing parameter/option value.
// Raised before any simulation state is mutated.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Msg)
}

// DataAlignmentError reports an irregular or misaligned forcing series.
type DataAlignmentError struct{ Msg string }

func (e *DataAlignmentError) Error() string {
	return fmt.Sprintf("data alignment error: %s", e.Msg)
}

// NumericDomainError reports a within-run domain violation with no defined
// clamp: a non-finite value or a reservoir driven negative beyond tolerance.
// Step is the offending time index, Module the reporting module.
type NumericDomainError struct {
	Step   int
	Module string
	Msg    string
}

func (e *NumericDomainError) Error() string {
	return fmt.Sprintf("numeric domain error: %s, timestep %d: %s", e.Module, e.Step, e.Msg)
}

// RoutingError reports an inconsistent channel routing configuration.
type RoutingError struct{ Msg string }

func (e *RoutingError) Error() string {
	return fmt.Sprintf("routing error: %s", e.Msg)
}
