package form

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type FieldKind string

const (
	FieldKindText   FieldKind = "text"
	FieldKindNumber FieldKind = "number"
	FieldKindDate   FieldKind = "date"
	FieldKindSelect FieldKind = "select"
)

// DateLayout is the calendar-day format used by date fields.
const DateLayout = "2006-01-02"

// Checker validates one value against a validator tag expression.
type Checker interface {
	Var(value interface{}, tag string) error
}

// Field is one of TextField, NumberField, DateField or SelectField. Each
// variant validates and coerces its own raw value.
type Field interface {
	Name() string
	Label() string
	Kind() FieldKind
	Required() bool
	ReadOnly() bool
	// Check returns the field message for a non-empty raw value, or "" if the
	// value is acceptable. Emptiness is the required guard's concern.
	Check(v Checker, raw string) string
	field()
}

type base struct {
	name     string
	label    string
	optional bool
	readOnly bool
}

func (b *base) Name() string { return b.name }
func (b *base) Label() string { return b.label }
func (b *base) Required() bool { return !b.optional }
func (b *base) ReadOnly() bool { return b.readOnly }
func (b *base) field() {}

// TextField is free text, optionally constrained by a validator rule.
type TextField struct {
	base
	Multiline bool
	Rule      string
	Message   string
}

func Text(name, label string) *TextField {
	return &TextField{base: base{name: name, label: label}}
}

// WithRule attaches a validator tag and the message shown when it fails.
func (f *TextField) WithRule(rule, message string) *TextField {
	f.Rule = rule
	f.Message = message
	return f
}

func (f *TextField) AsMultiline() *TextField {
	f.Multiline = true
	return f
}

// AsReadOnly marks a field filled by lookup only.
func (f *TextField) AsReadOnly() *TextField {
	f.readOnly = true
	return f
}

func (f *TextField) Kind() FieldKind { return FieldKindText }

func (f *TextField) Check(v Checker, raw string) string {
	if f.Rule == "" {
		return ""
	}
	if err := v.Var(raw, f.Rule); err != nil {
		return f.Message
	}
	return ""
}

// NumberField holds a non-negative integer or a non-negative decimal amount.
type NumberField struct {
	base
	Integer bool
	Message string
}

func Integer(name, label, message string) *NumberField {
	return &NumberField{base: base{name: name, label: label}, Integer: true, Message: message}
}

func Money(name, label, message string) *NumberField {
	return &NumberField{base: base{name: name, label: label}, Message: message}
}

func (f *NumberField) Kind() FieldKind { return FieldKindNumber }

func (f *NumberField) Check(v Checker, raw string) string {
	if f.Integer {
		if _, err := ParseInt(raw); err != nil {
			return f.Message
		}
		return ""
	}
	if _, err := ParseMoney(raw); err != nil {
		return f.Message
	}
	return ""
}

// DateField holds a calendar day in DateLayout.
type DateField struct {
	base
	Message string
}

func Date(name, label, message string) *DateField {
	return &DateField{base: base{name: name, label: label}, Message: message}
}

func (f *DateField) Kind() FieldKind { return FieldKindDate }

func (f *DateField) Check(v Checker, raw string) string {
	if err := v.Var(raw, "datetime="+DateLayout); err != nil {
		return f.Message
	}
	return ""
}

// OptionSource names the reference collection a select draws its options from.
type OptionSource string

const (
	SourceStatic   OptionSource = ""
	SourcePatients OptionSource = "patients"
	SourceDoctors  OptionSource = "doctors"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SelectField holds exactly one value: one of Options, or the id of a record
// of Source.
type SelectField struct {
	base
	Options []Option
	Source  OptionSource
	Message string
}

func Select(name, label, message string, options ...string) *SelectField {
	opts := make([]Option, len(options))
	for i, o := range options {
		opts[i] = Option{Value: o, Label: o}
	}
	return &SelectField{base: base{name: name, label: label}, Options: opts, Message: message}
}

func Reference(name, label string, source OptionSource, message string) *SelectField {
	return &SelectField{base: base{name: name, label: label}, Source: source, Message: message}
}

func (f *SelectField) Kind() FieldKind { return FieldKindSelect }

func (f *SelectField) Check(v Checker, raw string) string {
	if f.Source != SourceStatic {
		if _, err := ParseID(raw); err != nil {
			return f.Message
		}
		return ""
	}

	values := make([]string, len(f.Options))
	for i, o := range f.Options {
		values[i] = o.Value
	}
	if err := v.Var(raw, "oneof="+strings.Join(values, " ")); err != nil {
		return f.Message
	}
	return ""
}

// ParseInt parses a non-negative integer.
func ParseInt(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// ParseID parses a positive record id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

// ParseMoney parses a non-negative decimal amount.
func ParseMoney(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, strconv.ErrRange
	}
	return d, nil
}
