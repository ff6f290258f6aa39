// Package validator provides small declarative validation rules.
//
// Each exported helper returns a Rule that pairs a boolean Check with the
// error metadata reported when the check fails. Apply evaluates rules and
// aggregates failures into ValidationErrors, which satisfies the error
// interface so a whole list of violated rules travels as a single error.
//
// # Usage
//
//	err := validator.Apply(
//	    validator.Required("submitter.name", s.Name),
//	    validator.ValidEmail("submitter.email", s.Email),
//	    validator.Between("feedback.rating", rating, 1, 5),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    // report verrs.Messages() to the caller
//	}
//
// Optional fields are validated only when present:
//
//	rules = append(rules, validator.When(url != "", validator.ValidURL("context.url", url))...)
//
// ExtractValidationErrors and IsValidationError work through wrapped errors
// (errors.Join, fmt.Errorf with %w).
package validator
