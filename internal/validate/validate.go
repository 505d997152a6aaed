// Package validate holds the client-side form rules run before any request.
//
// A form is a Fields map. Validate runs every rule against it and collects
// one message per failing field into an Errors set. The set is built fresh on
// every call; nothing is carried over between submission attempts.
package validate

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// General is the Errors key for form-level and request-level failures.
const General = "general"

// Messages shared by several screens.
const (
	MsgMissingUserID   = "User ID is missing"
	MsgPositiveCount   = "Japa Count must be a positive number."
	MsgPhoneDigits     = "Phone must be 10 digits."
	MsgDateFormat      = "Format: DD-MM-YYYY."
	MsgPasswordsDiffer = "Passwords do not match"
)

var (
	phoneRe = regexp.MustCompile(`^\d{10}$`)
	dateRe  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
)

// Fields maps a form field name to its raw text.
type Fields map[string]string

// Errors maps a field name (or General) to a human readable message.
type Errors map[string]string

// Empty reports whether no rule failed.
func (e Errors) Empty() bool { return len(e) == 0 }

// Keys returns the failing field names in sorted order.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Rule inspects f and records failures in errs. A rule does not overwrite a
// message an earlier rule already set for the same key.
type Rule func(f Fields, errs Errors)

// Validate runs rules in order against f and returns every failure.
func Validate(f Fields, rules ...Rule) Errors {
	errs := Errors{}
	for _, r := range rules {
		r(f, errs)
	}
	return errs
}

func set(errs Errors, key, msg string) {
	if _, ok := errs[key]; !ok {
		errs[key] = msg
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Required fails when the trimmed value of key is empty: "<label> is required."
func Required(key, label string) Rule {
	return RequiredMessage(key, label+" is required.")
}

// RequiredMessage is Required with a custom message.
func RequiredMessage(key, msg string) Rule {
	return func(f Fields, errs Errors) {
		if blank(f[key]) {
			set(errs, key, msg)
		}
	}
}

// AllRequired records msg under key when any of keys is blank.
// Login and Registration report missing input as one form-level alert.
func AllRequired(key, msg string, keys ...string) Rule {
	return func(f Fields, errs Errors) {
		for _, k := range keys {
			if blank(f[k]) {
				set(errs, key, msg)
				return
			}
		}
	}
}

// JapaCount requires key to hold a positive base-10 integer.
func JapaCount(key string) Rule {
	return func(f Fields, errs Errors) {
		v := f[key]
		if blank(v) {
			set(errs, key, "Japa Count is required.")
			return
		}
		if n, ok := ParseCount(v); !ok || n <= 0 {
			set(errs, key, MsgPositiveCount)
		}
	}
}

// ParseCount reads the leading base-10 integer of s, skipping leading
// whitespace and accepting one sign. Trailing non-digits are ignored, so
// "12 malas" is 12. ok is false when no digit is found.
func ParseCount(s string) (n int, ok bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	v, err := strconv.ParseInt(s[:end], 10, 0)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	// Out of range values are clamped to the int bounds.
	return int(v), true
}

// Phone requires key to be exactly ten ASCII digits.
func Phone(key string) Rule {
	return func(f Fields, errs Errors) {
		v := f[key]
		if blank(v) {
			set(errs, key, "Phone number is required.")
			return
		}
		if !phoneRe.MatchString(v) {
			set(errs, key, MsgPhoneDigits)
		}
	}
}

// Date requires key to match DD-MM-YYYY. Only the shape is checked.
func Date(key string) Rule {
	return func(f Fields, errs Errors) {
		v := f[key]
		if blank(v) {
			set(errs, key, "Date is required.")
			return
		}
		if !dateRe.MatchString(v) {
			set(errs, key, MsgDateFormat)
		}
	}
}

// Match records msg under key when key and other differ. It only reports
// when no earlier rule failed, so a mismatch is never shown next to
// missing-field errors.
func Match(key, other, msg string) Rule {
	return func(f Fields, errs Errors) {
		if len(errs) > 0 {
			return
		}
		if f[key] != f[other] {
			set(errs, key, msg)
		}
	}
}

// UserID records MsgMissingUserID under General when id is blank.
func UserID(id string) Rule {
	return func(_ Fields, errs Errors) {
		if blank(id) {
			set(errs, General, MsgMissingUserID)
		}
	}
}

// MaskDate formats raw date input as the user types: non-digits are
// dropped, hyphens are inserted after the day and month, and at most eight
// digits are kept. MaskDate(MaskDate(s)) == MaskDate(s).
func MaskDate(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()

	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 4:
		return d[:2] + "-" + d[2:]
	default:
		if len(d) > 8 {
			d = d[:8]
		}
		return d[:2] + "-" + d[2:4] + "-" + d[4:]
	}
}
