package onboarding

import (
	"errors"
	"strings"

	"github.com/genova-platform/genova_backend/internal/models"
)

// Wizard steps, in order. Completion is a read-only summary and a one-way
// exit: there is no path back from it.
const (
	StepPersonalDetails = 1
	StepExperience      = 2
	StepExpertise       = 3
	StepAvailability    = 4
	StepCompletion      = 5
)

var stepNames = map[int]string{
	StepPersonalDetails: "Personal Details",
	StepExperience:      "Experience",
	StepExpertise:       "Expertise",
	StepAvailability:    "Availability",
	StepCompletion:      "Complete",
}

// StepName returns the display name for a step index.
func StepName(step int) string {
	return stepNames[step]
}

var ErrTerminalStep = errors.New("onboarding is already complete")

// ValidationError carries the per-field messages that blocked a step
// advance.
type ValidationError struct {
	Step   int
	Fields models.FieldErrors
}

func (e *ValidationError) Error() string {
	return "required fields missing for step " + StepName(e.Step)
}

// Next validates the current step's data and advances the draft. The
// availability step has no required fields; advancing past it is the
// submission point handled by the caller.
func (d *Draft) Next() error {
	if d.Step >= StepCompletion {
		return ErrTerminalStep
	}
	if errs := d.ValidateStep(d.Step); !errs.Empty() {
		return &ValidationError{Step: d.Step, Fields: errs}
	}
	d.Step++
	return nil
}

// Prev steps back without validation, floored at the first step. The
// terminal step cannot be left.
func (d *Draft) Prev() error {
	if d.Step >= StepCompletion {
		return ErrTerminalStep
	}
	if d.Step > StepPersonalDetails {
		d.Step--
	}
	return nil
}

// ValidateStep returns the field errors that block leaving the given step.
func (d *Draft) ValidateStep(step int) models.FieldErrors {
	errs := models.FieldErrors{}
	switch step {
	case StepPersonalDetails:
		if strings.TrimSpace(d.PersonalDetails.FullName) == "" {
			errs.Add("full_name", "Full name is required")
		}
		if strings.TrimSpace(d.PersonalDetails.Title) == "" {
			errs.Add("title", "Professional title is required")
		}
		if strings.TrimSpace(d.PersonalDetails.Location) == "" {
			errs.Add("location", "Location is required")
		}
		if strings.TrimSpace(d.PersonalDetails.Biography) == "" {
			errs.Add("biography", "Biography is required")
		}
	case StepExperience:
		if strings.TrimSpace(d.Experience.CareerHistory) == "" {
			errs.Add("career_history", "Career history is required")
		}
	case StepExpertise:
		if len(d.Expertise.Areas) == 0 {
			errs.Add("areas", "Select at least one expertise area")
		}
		if len(d.Expertise.Sectors) == 0 {
			errs.Add("sectors", "Select at least one sector")
		}
	case StepAvailability:
		if !models.ValidLeadTime(d.Availability.LeadTime) {
			errs.Add("lead_time", "Invalid lead time")
		}
	}
	return errs
}

// Complete reports whether the draft has reached the terminal step.
func (d *Draft) Complete() bool {
	return d.Step >= StepCompletion
}
