// Package logging assembles the structured slog loggers used across
// speechsplit.
//
// It centralizes handler and level plumbing, exposes typed attribute
// helpers, and provides component-tagged and no-op loggers so every package
// emits data with the same shape. Prefer these constructors over hand-rolled
// slog setup.
package logging
