package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("cutoff_percentage", "must be at most 100", 120.0)

	if err.Field != "cutoff_percentage" {
		t.Errorf("Expected field to be 'cutoff_percentage', got '%s'", err.Field)
	}

	if err.Message != "must be at most 100" {
		t.Errorf("Expected message to be 'must be at most 100', got '%s'", err.Message)
	}

	expected := "validation error on field 'cutoff_percentage': must be at most 100"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("title", "is required", nil))
	expected := "validation failed: title is required"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("description", "is required", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}
