// Package forms collects entity fields as text, coerces them into records and
// validates records before they are submitted to the store.
//
// Coercion never fails: a value that does not parse becomes the zero value of
// its type (or nil for optional fields). Validation then decides whether the
// resulting record may be submitted.
package forms

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the date-only format used by date inputs.
const DateLayout = "2006-01-02"

// Text is a raw input value. It accepts JSON strings, numbers, booleans and
// null so clients may post either typed or stringly values.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	*t = Text(raw)
	return nil
}

func (t Text) String() string { return strings.TrimSpace(string(t)) }

// Empty reports whether the trimmed value is blank.
func (t Text) Empty() bool { return t.String() == "" }

// Int parses t as an integer, returning 0 when it does not parse or is out
// of range.
func (t Text) Int() int {
	if i, err := strconv.Atoi(t.String()); err == nil {
		return i
	}
	f, ok := t.number()
	if !ok || f < math.MinInt32 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// Float parses t as a finite float, returning 0 when it does not parse.
func (t Text) Float() float64 {
	f, _ := t.number()
	return f
}

// number parses t as a finite float. NaN and infinities do not parse.
func (t Text) number() (float64, bool) {
	f, err := strconv.ParseFloat(t.String(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// OptInt is Int for optional fields: blank or unparseable input is nil.
func (t Text) OptInt() *int {
	if t.Empty() {
		return nil
	}
	i, err := strconv.Atoi(t.String())
	if err != nil {
		return nil
	}
	return &i
}

// OptFloat is Float for optional fields: blank or unparseable input is nil.
func (t Text) OptFloat() *float64 {
	if t.Empty() {
		return nil
	}
	f, ok := t.number()
	if !ok {
		return nil
	}
	return &f
}

// Bool parses t as a boolean, returning def when blank or unparseable.
func (t Text) Bool(def bool) bool {
	b, err := strconv.ParseBool(t.String())
	if err != nil {
		return def
	}
	return b
}

// Date parses a date-only or RFC 3339 value. Unparseable input is the zero time.
func (t Text) Date() time.Time {
	s := t.String()
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d.UTC()
	}
	return time.Time{}
}

// OptDate is Date for optional fields.
func (t Text) OptDate() *time.Time {
	d := t.Date()
	if d.IsZero() {
		return nil
	}
	return &d
}

// ID parses a hex object id. Unparseable input is the nil id.
func (t Text) ID() primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(t.String())
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

// OptID is ID for optional references. Blank, "none" and unparseable input
// are nil.
func (t Text) OptID() *primitive.ObjectID {
	id := t.ID()
	if id.IsZero() {
		return nil
	}
	return &id
}

// Strings trims every element and drops blanks.
func Strings(in []Text) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if !t.Empty() {
			out = append(out, t.String())
		}
	}
	return out
}

// Texts converts stored strings back into inputs.
func Texts(in []string) []Text {
	out := make([]Text, len(in))
	for i, s := range in {
		out[i] = Text(s)
	}
	return out
}

func dateText(d time.Time) Text {
	if d.IsZero() {
		return ""
	}
	return Text(d.UTC().Format(DateLayout))
}

func optDateText(d *time.Time) Text {
	if d == nil {
		return ""
	}
	return dateText(*d)
}

func intText(i int) Text { return Text(strconv.Itoa(i)) }

func optIntText(i *int) Text {
	if i == nil {
		return ""
	}
	return intText(*i)
}

func floatText(f float64) Text { return Text(strconv.FormatFloat(f, 'f', -1, 64)) }

func optFloatText(f *float64) Text {
	if f == nil {
		return ""
	}
	return floatText(*f)
}

func idText(id primitive.ObjectID) Text {
	if id.IsZero() {
		return ""
	}
	return Text(id.Hex())
}

func optIDText(id *primitive.ObjectID) Text {
	if id == nil {
		return ""
	}
	return idText(*id)
}

func validEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}
