package validate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func recordRules() []Rule {
	return []Rule{
		Required("name", "Name"),
		Required("tower", "Tower"),
		Required("flat", "Flat"),
		Required("japaName", "Japa Name"),
		JapaCount("japaCount"),
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	full := Fields{"name": "Asha", "tower": "B", "flat": "1204", "japaName": "Hare Krishna", "japaCount": "16"}
	assert.True(t, Validate(full, recordRules()...).Empty())

	for _, key := range []string{"name", "tower", "flat", "japaName", "japaCount"} {
		for _, empty := range []string{"", "   ", "\t"} {
			f := Fields{}
			for k, v := range full {
				f[k] = v
			}
			f[key] = empty

			errs := Validate(f, recordRules()...)
			assert.Equal(t, []string{key}, errs.Keys(), "field %q set to %q", key, empty)
		}
	}
}

func TestValidate_AllViolationsReportedTogether(t *testing.T) {
	errs := Validate(Fields{}, recordRules()...)
	assert.Equal(t, []string{"flat", "japaCount", "japaName", "name", "tower"}, errs.Keys())
	assert.Equal(t, "Name is required.", errs["name"])
	assert.Equal(t, "Japa Name is required.", errs["japaName"])
	assert.Equal(t, "Japa Count is required.", errs["japaCount"])
}

func TestJapaCount(t *testing.T) {
	cases := []struct {
		in   string
		pass bool
		msg  string
	}{
		{"0", false, MsgPositiveCount},
		{"-5", false, MsgPositiveCount},
		{"abc", false, MsgPositiveCount},
		{"", false, "Japa Count is required."},
		{"1", true, ""},
		{"42", true, ""},
		{" 108 ", true, ""},
		{"12abc", true, ""},
		{"99999999999999999999999", true, ""},
		{"-99999999999999999999999", false, MsgPositiveCount},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			errs := Validate(Fields{"japaCount": tc.in}, JapaCount("japaCount"))
			if tc.pass {
				assert.True(t, errs.Empty(), "unexpected errors %v", errs)
				return
			}
			assert.Equal(t, tc.msg, errs["japaCount"])
		})
	}
}

func TestParseCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"42", 42, true},
		{"  7 malas", 7, true},
		{"+3", 3, true},
		{"-5", -5, true},
		{"-", 0, false},
		{"x1", 0, false},
		{"", 0, false},
		{"99999999999999999999", math.MaxInt, true},
		{"-99999999999999999999", math.MinInt, true},
	}
	for _, tc := range cases {
		n, ok := ParseCount(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, n, tc.in)
	}
}

func TestPhone(t *testing.T) {
	cases := map[string]string{
		"9876543210":  "",
		"987654321":   MsgPhoneDigits,
		"98765432101": MsgPhoneDigits,
		"98765-3210":  MsgPhoneDigits,
		"98765432a0":  MsgPhoneDigits,
		"":            "Phone number is required.",
	}
	for in, want := range cases {
		errs := Validate(Fields{"phone": in}, Phone("phone"))
		assert.Equal(t, want, errs["phone"], in)
	}
}

func TestDate(t *testing.T) {
	cases := map[string]string{
		"01-02-2024": "",
		"1-2-2024":   MsgDateFormat,
		"01/02/2024": MsgDateFormat,
		"01-02-24":   MsgDateFormat,
		" ":          "Date is required.",
	}
	for in, want := range cases {
		errs := Validate(Fields{"date": in}, Date("date"))
		assert.Equal(t, want, errs["date"], in)
	}
}

func TestMatch_OnlyWhenDistinguishing(t *testing.T) {
	registration := func(f Fields) Errors {
		return Validate(f,
			AllRequired(General, "All fields are required", "name", "password", "confirm"),
			Match("password", "confirm", MsgPasswordsDiffer),
		)
	}

	errs := registration(Fields{"name": "", "password": "1234", "confirm": "9999"})
	assert.Equal(t, Errors{General: "All fields are required"}, errs)

	errs = registration(Fields{"name": "A", "password": "1234", "confirm": "9999"})
	assert.Equal(t, Errors{"password": MsgPasswordsDiffer}, errs)

	errs = registration(Fields{"name": "A", "password": "1234", "confirm": "1234"})
	assert.True(t, errs.Empty())
}

func TestUserID(t *testing.T) {
	assert.Equal(t, Errors{General: MsgMissingUserID}, Validate(nil, UserID("")))
	assert.True(t, Validate(nil, UserID("abc123")).Empty())
}

func TestRequiredMessage_FirstMessageWins(t *testing.T) {
	errs := Validate(Fields{"pooja": " "},
		RequiredMessage("pooja", "Pooja details required."),
		Required("pooja", "Pooja"),
	)
	assert.Equal(t, "Pooja details required.", errs["pooja"])
}

func TestMaskDate(t *testing.T) {
	typed := "01022024"
	var got []string
	for i := 1; i <= len(typed); i++ {
		got = append(got, MaskDate(typed[:i]))
	}
	assert.Equal(t, []string{
		"0", "01", "01-0", "01-02", "01-02-2", "01-02-20", "01-02-202", "01-02-2024",
	}, got)

	for _, s := range append(got, "", "ab", "01-02-2024", "010220249999", "1/2/2024") {
		once := MaskDate(s)
		assert.Equal(t, once, MaskDate(once), "not idempotent for %q", s)
	}
	assert.Equal(t, "01-02-2024", MaskDate("01/02/2024xx99"))
}
