package form

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-adp-console/internal/schema"
)

// Mode distinguishes create from edit form sessions.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// EditState tracks which entity, if any, the open form targets. TargetID is
// set iff Mode is edit.
type EditState struct {
	Mode     Mode
	TargetID string
}

// ValidationResult reports per-field validation failures.
type ValidationResult struct {
	Valid  bool
	Errors map[string]string
}

// Binder maps an entity to and from a set of labeled string inputs, the way
// a form does. It owns the draft being edited; the controller passes data in
// and out by value.
type Binder struct {
	schema   schema.Schema
	validate *validator.Validate
	values   map[string]string
	checks   map[string]bool
	state    EditState
}

// NewBinder constructs a binder for one entity schema.
func NewBinder(s schema.Schema, validate *validator.Validate) *Binder {
	if validate == nil {
		validate = validator.New()
	}
	return &Binder{
		schema:   s,
		validate: validate,
		values:   make(map[string]string),
		checks:   make(map[string]bool),
		state:    EditState{Mode: ModeCreate},
	}
}

// State returns the current edit state.
func (b *Binder) State() EditState {
	return b.state
}

// OpenCreate clears every field and switches to create mode. Stale data from
// a previous edit session must never leak into a new create.
func (b *Binder) OpenCreate() {
	b.Clear()
	b.state = EditState{Mode: ModeCreate}
}

// OpenEdit populates the form from the target entity and switches to edit
// mode.
func (b *Binder) OpenEdit(entity schema.Entity) {
	b.Clear()
	b.Populate(entity)
	b.state = EditState{Mode: ModeEdit, TargetID: entity.ID()}
}

// Close resets the form to a closed create-mode state.
func (b *Binder) Close() {
	b.Clear()
	b.state = EditState{Mode: ModeCreate}
}

// Clear empties every input.
func (b *Binder) Clear() {
	b.values = make(map[string]string)
	b.checks = make(map[string]bool)
}

// Populate writes each entity field into its matching input. Missing entity
// fields leave the input empty; booleans map to checked state.
func (b *Binder) Populate(entity schema.Entity) {
	for _, f := range b.schema.Fields {
		switch f.Kind {
		case schema.KindBoolean:
			b.checks[f.Key] = entity.Bool(f.Key)
		case schema.KindDate:
			if ts, ok := entity.Date(f.Key); ok {
				b.values[f.Key] = ts.Format("2006-01-02")
			} else {
				b.values[f.Key] = ""
			}
		default:
			b.values[f.Key] = entity.String(f.Key)
		}
	}
}

// SetValue records raw input for a non-boolean field.
func (b *Binder) SetValue(key, raw string) {
	b.values[key] = raw
}

// SetChecked records the checked state of a boolean field.
func (b *Binder) SetChecked(key string, checked bool) {
	b.checks[key] = checked
}

// Value returns the raw input currently held for key.
func (b *Binder) Value(key string) string {
	return b.values[key]
}

// Collect reads every input back into an entity-shaped draft. Numeric fields
// parse to float64; empty or invalid numeric input is dropped when the field
// is marked OmitZero, otherwise it collects as 0. Booleans read checked
// state.
func (b *Binder) Collect() schema.Entity {
	draft := make(schema.Entity, len(b.schema.Fields))
	for _, f := range b.schema.Fields {
		switch f.Kind {
		case schema.KindBoolean:
			draft[f.Key] = b.checks[f.Key]
		case schema.KindNumber:
			raw := strings.TrimSpace(b.values[f.Key])
			n, err := strconv.ParseFloat(raw, 64)
			if raw == "" || err != nil {
				if f.OmitZero {
					continue
				}
				draft[f.Key] = float64(0)
				continue
			}
			draft[f.Key] = n
		default:
			raw := strings.TrimSpace(b.values[f.Key])
			if raw == "" {
				continue
			}
			draft[f.Key] = raw
		}
	}
	return draft
}

// Validate checks the draft against the schema. A field fails when required
// and empty, or when a numeric constraint is violated. Validation never
// mutates the draft and never touches the network.
func (b *Binder) Validate(draft schema.Entity) ValidationResult {
	errs := make(map[string]string)
	for _, f := range b.schema.Fields {
		if msg := b.validateField(f, draft); msg != "" {
			errs[f.Key] = msg
		}
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func (b *Binder) validateField(f schema.Field, draft schema.Entity) string {
	if f.Kind == schema.KindBoolean {
		return ""
	}

	raw, present := draft[f.Key]
	if f.Required {
		if !present || raw == nil {
			return fmt.Sprintf("%s is required", f.Label)
		}
		if s, ok := raw.(string); ok {
			if err := b.validate.Var(s, "required"); err != nil {
				return fmt.Sprintf("%s is required", f.Label)
			}
		}
	}

	if f.Kind == schema.KindNumber && present {
		n := draft.Number(f.Key)
		tag := rangeTag(f)
		if tag == "" {
			return ""
		}
		if err := b.validate.Var(n, tag); err != nil {
			return fmt.Sprintf("%s must be between %s and %s", f.Label, boundLabel(f.Min), boundLabel(f.Max))
		}
	}

	if f.Kind == schema.KindDate && present {
		if _, err := time.Parse("2006-01-02", draft.String(f.Key)); err != nil {
			return fmt.Sprintf("%s must be a valid date", f.Label)
		}
	}

	return ""
}

func rangeTag(f schema.Field) string {
	parts := make([]string, 0, 2)
	if f.Min != nil {
		parts = append(parts, "min="+strconv.FormatFloat(*f.Min, 'f', -1, 64))
	}
	if f.Max != nil {
		parts = append(parts, "max="+strconv.FormatFloat(*f.Max, 'f', -1, 64))
	}
	return strings.Join(parts, ",")
}

func boundLabel(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
