package appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Field string

const (
	FieldPatientName Field = "patient_name"
	FieldDoctorName  Field = "doctor_name"
	FieldTime        Field = "time"
	FieldMode        Field = "mode"
)

// Prompt is one step of the quick-add capture.
type Prompt struct {
	Field    Field
	Label    string
	Default  string
	Required bool
}

var quickAddPrompts = []Prompt{
	{Field: FieldPatientName, Label: "Enter Patient Name:", Required: true},
	{Field: FieldDoctorName, Label: "Enter Doctor Name:", Default: "Dr. Aditi Rao", Required: true},
	{Field: FieldTime, Label: "Enter Time (e.g., 10:30 AM):", Default: "10:30 AM", Required: true},
	{Field: FieldMode, Label: "Type (In-Person or Video Call):", Default: "In-Person"},
}

// InputCollector answers prompts one at a time. ok is false when the user
// cancelled the prompt.
type InputCollector interface {
	Collect(ctx context.Context, p Prompt) (value string, ok bool, err error)
}

// BuildQuickAdd runs the prompts in order and builds a Scheduled
// appointment dated today. A cancelled or empty required answer aborts
// with ErrQuickAddAborted before anything else is asked. Mode never aborts.
func BuildQuickAdd(ctx context.Context, in InputCollector, today Date) (Appointment, error) {
	answers := make(map[Field]string, len(quickAddPrompts))
	for _, p := range quickAddPrompts {
		v, ok, err := in.Collect(ctx, p)
		if err != nil {
			return Appointment{}, fmt.Errorf("collect %s: %w", p.Field, err)
		}
		v = strings.TrimSpace(v)
		if p.Required && (!ok || v == "") {
			return Appointment{}, fmt.Errorf("%w: %s is required", ErrQuickAddAborted, p.Field)
		}
		if ok {
			answers[p.Field] = v
		}
	}

	// Mode is optional; an answer we do not recognise means in-person.
	mode, err := ParseMode(answers[FieldMode])
	if err != nil {
		mode = ModeInPerson
	}

	return Appointment{
		ID:              uuid.NewString(),
		PatientName:     answers[FieldPatientName],
		Date:            today,
		Time:            answers[FieldTime],
		DurationMinutes: defaultDurationMinutes,
		DoctorName:      answers[FieldDoctorName],
		Mode:            mode,
		Status:          StatusScheduled,
	}, nil
}

// StaticCollector answers from a fixed map. Missing fields are treated as
// cancelled.
type StaticCollector map[Field]string

func (c StaticCollector) Collect(_ context.Context, p Prompt) (string, bool, error) {
	v, ok := c[p.Field]
	return v, ok, nil
}
