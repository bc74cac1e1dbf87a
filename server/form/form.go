// Package form binds submitted values to a record, validates them &
// guards persistence so that only accepted forms are ever saved.
//
// A form moves through: UNBOUND (GET) -> BOUND_INVALID | ACCEPTED (POST) -> PERSISTED.
package form

import (
	"net/http"
	"net/url"

	"github.com/Daskott/rolodex/server/validation"
	"github.com/go-playground/validator"
	"github.com/pkg/errors"
)

// FORM_KEY is the hidden field carrying the form's signed key
const FORM_KEY = "_formkey"

type State int

const (
	UNBOUND State = iota
	BOUND_INVALID
	ACCEPTED
	PERSISTED
)

var ErrNotAccepted = errors.New("form was not accepted")

// Vars are submitted values by field name. A nil value means the field was not submitted.
type Vars map[string]*string

// Errors are error messages by field name
type Errors map[string]string

// Validation checks vars & returns the errors found, if any
type Validation func(vars Vars) Errors

type KeySigner interface {
	Sign(path string, params url.Values) (string, error)
	Verify(path string, params url.Values, token string) error
}

type Field struct {
	Name  string
	Label string
	// Type is the html input type, e.g. "text", "number", "password"
	Type string
}

type Form struct {
	Action string
	Fields []Field
	Vars   Vars
	Errors Errors
	Key    string

	state  State
	signer KeySigner
}

// New creates an unbound form, pre-filled with record's values (nil for a new record)
func New(action string, fields []Field, record Vars, signer KeySigner) (*Form, error) {
	key, err := signer.Sign(action, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not sign form key")
	}

	vars := Vars{}
	for name, value := range record {
		vars[name] = value
	}

	return &Form{
		Action: action,
		Fields: fields,
		Vars:   vars,
		Errors: Errors{},
		Key:    key,
		state:  UNBOUND,
		signer: signer,
	}, nil
}

// Process binds a POST request to the form & runs validations in order.
// Other methods leave the form unbound.
func (f *Form) Process(r *http.Request, validations ...Validation) error {
	if r.Method != http.MethodPost {
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return errors.WithStack(err)
	}

	f.Vars = Vars{}
	for _, field := range f.Fields {
		if _, ok := r.PostForm[field.Name]; !ok {
			f.Vars[field.Name] = nil
			continue
		}

		value := r.PostForm.Get(field.Name)
		f.Vars[field.Name] = &value
	}

	f.Errors = Errors{}
	if err := f.signer.Verify(f.Action, nil, r.PostForm.Get(FORM_KEY)); err != nil {
		f.Errors[FORM_KEY] = "Invalid form key, please reload the page & try again"
	}

	for _, validate := range validations {
		f.Errors.merge(validate(f.Vars))
	}

	f.state = ACCEPTED
	if len(f.Errors) > 0 {
		f.state = BOUND_INVALID
	}

	return nil
}

func (f *Form) State() State {
	return f.state
}

// Persist runs save once, and only for an accepted form
func (f *Form) Persist(save func() error) error {
	if f.state != ACCEPTED {
		return ErrNotAccepted
	}

	if err := save(); err != nil {
		return err
	}

	f.state = PERSISTED
	return nil
}

func (f *Form) Value(name string) string {
	return f.Vars.Get(name)
}

func (f *Form) Error(name string) string {
	return f.Errors[name]
}

// Get returns the submitted value, or "" when the field was not submitted
func (vars Vars) Get(name string) string {
	if value := vars[name]; value != nil {
		return *value
	}
	return ""
}

// Value is a helper to build Vars from a record
func Value(value string) *string {
	return &value
}

// Required reports a missing field with message. An empty string is present, not missing.
func Required(vars Vars, name string, message string, errs Errors) {
	if vars[name] == nil {
		errs[name] = message
	}
}

// Struct returns a Validation that binds vars to a record with bind & runs
// the record's 'validate' struct tags. Binding errors win over tag errors.
func Struct(validate *validator.Validate, bind func(vars Vars) (interface{}, Errors)) Validation {
	return func(vars Vars) Errors {
		record, errs := bind(vars)
		if errs == nil {
			errs = Errors{}
		}

		if err := validate.Struct(record); err != nil {
			errs.merge(validation.FieldErrors(err))
		}

		return errs
	}
}

// merge keeps the first error reported for a field
func (errs Errors) merge(other Errors) {
	for name, message := range other {
		if _, exists := errs[name]; !exists {
			errs[name] = message
		}
	}
}
