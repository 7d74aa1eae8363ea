package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSubmitLeadInput(t *testing.T) {
	base := SubmitLeadInput{
		Kind:    "enquiry",
		Name:    "Margaret Hale",
		Email:   "margaret@example.com",
		Consent: true,
	}

	cases := []struct {
		name     string
		mutate   func(*SubmitLeadInput)
		badField string
	}{
		{"valid input", func(i *SubmitLeadInput) {}, ""},
		{"unknown kind", func(i *SubmitLeadInput) { i.Kind = "petition" }, "kind"},
		{"blank name", func(i *SubmitLeadInput) { i.Name = "  " }, "name"},
		{"one-char name", func(i *SubmitLeadInput) { i.Name = "M" }, "name"},
		{"bad email", func(i *SubmitLeadInput) { i.Email = "margaret@@example" }, "email"},
		{"bad phone", func(i *SubmitLeadInput) { i.Phone = "abc" }, "phone"},
		{"callback without phone", func(i *SubmitLeadInput) { i.Kind = "callback_request" }, "phone"},
		{"bad birth date", func(i *SubmitLeadInput) { i.BirthDate = "15/05/1950" }, "birth_date"},
		{"future birth date", func(i *SubmitLeadInput) { i.BirthDate = "2999-01-01" }, "birth_date"},
		{"unknown urgency", func(i *SubmitLeadInput) { i.Urgency = "panic" }, "urgency"},
		{"download without resource", func(i *SubmitLeadInput) { i.Kind = "download_request" }, "resource_id"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := base
			tc.mutate(&input)
			errs := ValidateSubmitLeadInput(input)

			if tc.badField == "" {
				assert.Empty(t, errs)
				return
			}
			fields := make(map[string]bool)
			for _, e := range errs {
				fields[e.Field] = true
			}
			assert.True(t, fields[tc.badField], "expected an error on %s, got %v", tc.badField, errs)
		})
	}
}

func TestValidationAcceptsTypicalPhones(t *testing.T) {
	for _, phone := range []string{"+44 20 7946 0501", "020 7946 0501", "(11) 99999-9999"} {
		input := SubmitLeadInput{Kind: "enquiry", Name: "Margaret Hale", Email: "m@example.com", Phone: phone, Consent: true}
		assert.Empty(t, ValidateSubmitLeadInput(input), "phone %q should be accepted", phone)
	}
}
