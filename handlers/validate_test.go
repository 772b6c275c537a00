package handlers

import (
	"strings"
	"testing"
)

func TestValidateTime(t *testing.T) {
	cases := []struct {
		in       string
		want     string
		wantCode ValidationCode
	}{
		{"12:00", "12:00:00", ""},
		{"19:30", "19:30:00", ""},
		{"12:00:00", "12:00:00", ""},
		{" 09:15 ", "09:15:00", ""},
		{"12", "", CodeInvalidTime},
		{"12:00:0", "", CodeInvalidTime},
		{"abc", "", CodeInvalidTime},
		{"", "", CodeInvalidTime},
	}
	for _, tc := range cases {
		got, verr := validateTime(tc.in)
		if tc.wantCode == "" {
			if verr != nil {
				t.Errorf("validateTime(%q): unexpected error %v", tc.in, verr)
				continue
			}
			if got != tc.want {
				t.Errorf("validateTime(%q): expected %q, got %q", tc.in, tc.want, got)
			}
			continue
		}
		if verr == nil || verr.Code != tc.wantCode {
			t.Errorf("validateTime(%q): expected code %q, got %v", tc.in, tc.wantCode, verr)
		}
	}
}

func TestValidateDate(t *testing.T) {
	for _, ok := range []string{"2025-08-11", "1999-01-01"} {
		if got, verr := validateDate(ok); verr != nil || got != ok {
			t.Errorf("validateDate(%q): expected success, got %q, %v", ok, got, verr)
		}
	}
	for _, bad := range []string{"2025/08/11", "11-08-2025", "2025-8-1", "tomorrow", ""} {
		if _, verr := validateDate(bad); verr == nil || verr.Code != CodeInvalidDate {
			t.Errorf("validateDate(%q): expected InvalidDate, got %v", bad, verr)
		}
	}
}

func TestValidatePartySize(t *testing.T) {
	cases := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"2", 2, true},
		{" 12 ", 12, true},
		{"1", 1, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"2.5", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, verr := validatePartySize(tc.in)
		if tc.wantOK {
			if verr != nil || got != tc.want {
				t.Errorf("validatePartySize(%q): expected %d, got %d, %v", tc.in, tc.want, got, verr)
			}
			continue
		}
		if verr == nil || verr.Code != CodeInvalidPartySize {
			t.Errorf("validatePartySize(%q): expected InvalidPartySize, got %v", tc.in, verr)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	for _, ok := range []string{"john@doe.com", "a@b.co", "first.last@sub.example.org"} {
		if got, verr := validateEmail(ok); verr != nil || got != ok {
			t.Errorf("validateEmail(%q): expected success, got %q, %v", ok, got, verr)
		}
	}
	for _, bad := range []string{"john", "john@", "john@doe", "@", ""} {
		if _, verr := validateEmail(bad); verr == nil || verr.Code != CodeInvalidEmail {
			t.Errorf("validateEmail(%q): expected InvalidEmail, got %v", bad, verr)
		}
	}
}

func TestValidateSpecialRequests(t *testing.T) {
	if got, verr := validateSpecialRequests("  window seat  "); verr != nil || got != "window seat" {
		t.Errorf("expected trimmed value, got %q, %v", got, verr)
	}
	if got, verr := validateSpecialRequests("   "); verr != nil || got != "" {
		t.Errorf("whitespace should be treated as absent, got %q, %v", got, verr)
	}
	long := strings.Repeat("x", 501)
	if _, verr := validateSpecialRequests(long); verr == nil || verr.Code != CodeTooLong {
		t.Errorf("expected TooLong, got %v", verr)
	}
	exact := strings.Repeat("x", 500)
	if got, verr := validateSpecialRequests(exact); verr != nil || got != exact {
		t.Errorf("500 characters should pass, got %v", verr)
	}
	// the limit counts characters, not bytes
	wide := strings.Repeat("餐", 500)
	if got, verr := validateSpecialRequests(wide); verr != nil || got != wide {
		t.Errorf("500 multibyte characters should pass, got %v", verr)
	}
	if _, verr := validateSpecialRequests(strings.Repeat("餐", 501)); verr == nil || verr.Code != CodeTooLong {
		t.Errorf("501 multibyte characters should fail, got %v", verr)
	}
}
