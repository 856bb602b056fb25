// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

// Package validation gates fetched entities before they stage for commit.
//
// Two layers: struct-shape validation via go-playground/validator v10 tags
// on the entity types (thread-safe singleton instance, caches struct info),
// and domain rules on top (final-game completeness, event sequencing, stat
// plausibility, roster cardinality). Outcomes are a Report that is Passed,
// Partial with reasons, or Rejected with reasons; validation never panics
// or aborts a run.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the singleton validator instance. Thread-safe; the
// instance is initialized once with WithRequiredStructEnabled.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FieldError is a single struct-tag violation.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e FieldError) String() string {
	if e.Param != "" {
		return fmt.Sprintf("%s failed %s=%s", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("%s failed %s", e.Field, e.Tag)
}

// StructError aggregates struct-tag violations for one entity.
type StructError struct {
	Errors []FieldError
}

func (e *StructError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.String()
	}
	return strings.Join(msgs, "; ")
}

// ValidateStruct validates one entity against its struct tags. Returns nil
// when the entity is well-formed, *StructError otherwise.
func ValidateStruct(s interface{}) *StructError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &StructError{Errors: []FieldError{{Field: "unknown", Tag: err.Error()}}}
	}

	fieldErrors := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fieldErrors[i] = FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()}
	}
	return &StructError{Errors: fieldErrors}
}
