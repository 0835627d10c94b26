package contact

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		form      Form
		wantErr   bool
		wantField string
	}{
		{
			name:    "complete",
			form:    Form{Name: "Ann", Email: "ann@example.com", Subject: "Hi", Message: "Hello"},
			wantErr: false,
		},
		{
			name:    "email shape not checked",
			form:    Form{Name: "Ann", Email: "not-an-address", Subject: "Hi", Message: "Hello"},
			wantErr: false,
		},
		{
			name:      "empty form reports name first",
			form:      Form{},
			wantErr:   true,
			wantField: FieldName,
		},
		{
			name:    "whitespace subject is a value",
			form:    Form{Name: "Ann", Email: "ann@example.com", Subject: " \t", Message: "Hello"},
			wantErr: false,
		},
		{
			name:      "empty subject",
			form:      Form{Name: "Ann", Email: "ann@example.com", Subject: "", Message: "Hello"},
			wantErr:   true,
			wantField: FieldSubject,
		},
		{
			name:      "missing message",
			form:      Form{Name: "Ann", Email: "ann@example.com", Subject: "Hi"},
			wantErr:   true,
			wantField: FieldMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}

			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("Expected ErrMissingField, got %v", err)
			}

			if !strings.HasPrefix(err.Error(), tt.wantField+":") {
				t.Errorf("Expected error naming '%s', got '%s'", tt.wantField, err.Error())
			}
		})
	}
}

func TestFormSet(t *testing.T) {
	var form Form

	for _, field := range []string{FieldName, FieldEmail, FieldSubject, FieldMessage} {
		err := form.Set(field, field+"-value")
		if err != nil {
			t.Fatalf("Failed to set %s: %v", field, err)
		}
	}

	expected := Form{Name: "name-value", Email: "email-value", Subject: "subject-value", Message: "message-value"}
	if form != expected {
		t.Errorf("Expected %+v, got %+v", expected, form)
	}
}
