package extract

import (
	"fmt"
	"strings"
	"testing"
)

func TestPhoneNumbers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"dashed", "call me at 555-123-4567 today", []string{"555-123-4567"}},
		{"dotted", "office 555.123.4567", []string{"555.123.4567"}},
		{"plain", "mobile 5551234567", []string{"5551234567"}},
		{"two numbers", "555-123-4567 or 555.987.6543", []string{"555-123-4567", "555.987.6543"}},
		{"too long", "ref 123456789012", []string{}},
		{"too short", "ext 555-1234", []string{}},
		{"none", "no digits here", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PhoneNumbers(tt.text)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if got == nil {
				t.Fatalf("expected empty slice, got nil")
			}
		})
	}
}

func TestAlternateEmailsExcludesSender(t *testing.T) {
	text := "Reply to jane@example.com or backup@corp.io, not JANE@example.com again. Also backup@corp.io"
	got := AlternateEmails(text, "jane@example.com")
	if len(got) != 1 || got[0] != "backup@corp.io" {
		t.Fatalf("expected [backup@corp.io], got %v", got)
	}
}

func TestAlternateEmailsNeverReturnsSender(t *testing.T) {
	for i := 0; i < 50; i++ {
		sender := fmt.Sprintf("user%d@example.com", i)
		other := fmt.Sprintf("alt%d@mail.example.org", i)
		text := fmt.Sprintf("From %s. Please cc %s and %s.", sender, other, strings.ToUpper(sender))
		for _, addr := range AlternateEmails(text, sender) {
			if strings.EqualFold(addr, sender) {
				t.Fatalf("sender %s returned as alternate email in %q", sender, text)
			}
		}
	}
}

func TestAlternateEmailsShortTLD(t *testing.T) {
	got := AlternateEmails("write to a@b.c or ops@team.co", "someone@else.com")
	if len(got) != 1 || got[0] != "ops@team.co" {
		t.Fatalf("expected [ops@team.co], got %v", got)
	}
}

func TestRequirementsCapAndOrder(t *testing.T) {
	text := "Hi there. I need a refund! We want the invoice fixed? Nothing else. " +
		"Our team requires SSO. I am looking for docs. Can you help with setup?"
	got := Requirements(text)
	want := []string{"I need a refund", "We want the invoice fixed", "Our team requires SSO"}
	if len(got) != len(want) {
		t.Fatalf("expected %d requirements, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("requirement %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestRequirementsCaseInsensitive(t *testing.T) {
	got := Requirements("LOOKING FOR an export option")
	if len(got) != 1 || got[0] != "LOOKING FOR an export option" {
		t.Fatalf("expected uppercase keyword match, got %v", got)
	}
}

func TestExtractCombinesSubjectAndBody(t *testing.T) {
	s := Extract("Need help with login", "Call 555-123-4567 or mail me at alt@example.net", "me@example.com")
	if len(s.PhoneNumbers) != 1 {
		t.Fatalf("expected 1 phone, got %v", s.PhoneNumbers)
	}
	if len(s.AlternateEmails) != 1 || s.AlternateEmails[0] != "alt@example.net" {
		t.Fatalf("expected alt@example.net, got %v", s.AlternateEmails)
	}
	if len(s.Requirements) != 1 || !strings.HasPrefix(s.Requirements[0], "Need help with login") {
		t.Fatalf("unexpected requirements %v", s.Requirements)
	}
}
