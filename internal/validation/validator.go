package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/auth"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their json name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic("validation: register " + tag + ": " + err.Error())
		}
	}
	mustRegister("user_role", validateUserRole)
	mustRegister("job_status", validateJobStatus)
	mustRegister("proposal_decision", validateProposalDecision)
	mustRegister("notblank", validateNotBlank)

	return &Validator{v: v}
}

// Struct validates obj and returns a Validation app error listing every
// failed field, or nil.
func (val *Validator) Struct(obj any) error {
	err := val.v.Struct(obj)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperrors.Internal(err, "validation failed")
	}

	fields := map[string][]string{}
	for _, fe := range ve {
		fields[fe.Field()] = append(fields[fe.Field()], message(fe))
	}
	return apperrors.ValidationFields(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return "Must be at least " + fe.Param() + " characters"
		}
		return "Must be at least " + fe.Param()
	case "gt":
		return "Must be greater than " + fe.Param()
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	case "user_role":
		return "Must be one of client, freelancer"
	case "job_status":
		return "Unknown job status"
	case "proposal_decision":
		return "Must be accepted or rejected"
	default:
		return "Invalid value"
	}
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := auth.ParseRole(value)
	return ok
}

func validateJobStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.JobStatus(value).Valid()
}

func validateProposalDecision(fl validator.FieldLevel) bool {
	switch models.ProposalStatus(fl.Field().String()) {
	case models.ProposalAccepted, models.ProposalRejected:
		return true
	}
	return false
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
