// Package forms declares the validation schemas for every form the client
// submits. Rules are evaluated by go-playground/validator; a schema only
// decides presence, type and which message to show.
package forms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind is the Go type a field value must have.
type Kind int

const (
	KindString Kind = iota
	KindBool
)

func (k Kind) String() string {
	if k == KindBool {
		return "boolean"
	}
	return "string"
}

// Presence says whether a field may be missing or null.
type Presence int

const (
	// Required fields must be present and non-null.
	Required Presence = iota
	// Optional fields may be missing but not null.
	Optional
	// Nullish fields may be missing or null.
	Nullish
)

// Message keys that are not validator tags.
const (
	MsgRequired = "required"
	MsgType     = "type"
)

// Field is one rule set. Rules is a validator tag string such as
// "min=6,max=20,alphanum"; Messages maps a failing tag to the text shown to
// the user.
type Field struct {
	Name     string
	Kind     Kind
	Presence Presence
	Rules    string
	Messages map[string]string
}

func (f Field) message(tag string) string {
	if msg, ok := f.Messages[tag]; ok {
		return msg
	}
	switch tag {
	case MsgRequired:
		return "This field is required"
	case MsgType:
		return fmt.Sprintf("Expected a %s", f.Kind)
	}
	return fmt.Sprintf("Invalid value (%s)", tag)
}

// Schema is an immutable, named list of fields.
type Schema struct {
	Name   string
	Fields []Field
}

// Issue is one field-level validation failure.
type Issue struct {
	Field   string
	Message string
}

func (i Issue) Error() string { return i.Field + ": " + i.Message }

// Result is either valid, with Value holding only schema fields, or invalid
// with one Issue per failing rule, grouped by field in schema order.
type Result struct {
	Value  map[string]any
	Issues []Issue
}

// Valid reports whether no issues were found.
func (r Result) Valid() bool { return len(r.Issues) == 0 }

// FieldErrors maps each failing field to its first issue.
func (r Result) FieldErrors() map[string]string {
	out := make(map[string]string, len(r.Issues))
	for _, i := range r.Issues {
		if _, seen := out[i.Field]; !seen {
			out[i.Field] = i.Message
		}
	}
	return out
}

// Fields lists the failing fields once each, in schema order.
func (r Result) Fields() []string {
	var out []string
	seen := make(map[string]bool, len(r.Issues))
	for _, i := range r.Issues {
		if !seen[i.Field] {
			seen[i.Field] = true
			out = append(out, i.Field)
		}
	}
	return out
}

// Err folds the issues into one error, or nil when valid.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	errs := make([]error, len(r.Issues))
	for i, issue := range r.Issues {
		errs[i] = issue
	}
	return errors.Join(errs...)
}

// Bind decodes a valid result into dst through its json tags.
func (r Result) Bind(dst any) error {
	if !r.Valid() {
		return r.Err()
	}
	data, err := json.Marshal(r.Value)
	if err != nil {
		return fmt.Errorf("failed to encode form value: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode form value: %w", err)
	}
	return nil
}

// Validate checks every rule of every field and collects all failures.
// Presence and type failures stop the rules of that field. Unknown input keys
// are dropped.
func (s Schema) Validate(input map[string]any) Result {
	res := Result{Value: make(map[string]any, len(s.Fields))}
	for _, f := range s.Fields {
		v, present := input[f.Name]
		if msgs := checkField(f, v, present); len(msgs) > 0 {
			for _, msg := range msgs {
				res.Issues = append(res.Issues, Issue{Field: f.Name, Message: msg})
			}
			continue
		}
		if present {
			res.Value[f.Name] = v
		}
	}
	if !res.Valid() {
		res.Value = nil
	}
	return res
}

// checkField returns the messages of every failing rule, without repeats.
func checkField(f Field, v any, present bool) []string {
	if !present {
		if f.Presence == Required {
			return []string{f.message(MsgRequired)}
		}
		return nil
	}
	if v == nil {
		if f.Presence == Nullish {
			return nil
		}
		return []string{f.message(MsgRequired)}
	}

	switch f.Kind {
	case KindString:
		if _, ok := v.(string); !ok {
			return []string{f.message(MsgType)}
		}
	case KindBool:
		if _, ok := v.(bool); !ok {
			return []string{f.message(MsgType)}
		}
	}

	if f.Rules == "" {
		return nil
	}
	// validator stops at the first failing tag, so each rule runs on its own.
	var msgs []string
	for _, rule := range strings.Split(f.Rules, ",") {
		msg, ok := checkRule(f, v, rule)
		if !ok && !slices.Contains(msgs, msg) {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func checkRule(f Field, v any, rule string) (string, bool) {
	err := engine.Var(v, rule)
	if err == nil {
		return "", true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return f.message(verrs[0].Tag()), false
	}
	return err.Error(), false
}

// engine is shared; validator.Validate is safe for concurrent use once the
// custom rules are registered.
var engine = newEngine()

func newEngine() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "weburl", isWebURL)
	mustRegister(v, "password", isAccountPassword)
	mustRegister(v, "linkpassword", isLinkPassword)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("forms: registering %q: %v", tag, err))
	}
}

// isWebURL accepts absolute http and https URLs with a host.
func isWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Hostname() != ""
}

const passwordSpecials = "!@#$%^&*"

func passwordChar(c rune) (letter, digit, ok bool) {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true, false, true
	case c >= '0' && c <= '9':
		return false, true, true
	case strings.ContainsRune(passwordSpecials, c):
		return false, false, true
	}
	return false, false, false
}

// isLinkPassword restricts the character set only.
func isLinkPassword(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if _, _, ok := passwordChar(c); !ok {
			return false
		}
	}
	return true
}

// isAccountPassword additionally needs one letter and one digit.
func isAccountPassword(s string) bool {
	var hasLetter, hasDigit bool
	for _, c := range s {
		letter, digit, ok := passwordChar(c)
		if !ok {
			return false
		}
		hasLetter = hasLetter || letter
		hasDigit = hasDigit || digit
	}
	return hasLetter && hasDigit
}
