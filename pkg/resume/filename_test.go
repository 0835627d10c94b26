package resume

import "testing"

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "two words", input: "Jeet Dagar", expected: "Jeet_Dagar_Resume.txt"},
		{name: "punctuation", input: "Mary-Jane O'Neil", expected: "Mary_Jane_O_Neil_Resume.txt"},
		{name: "surrounding space", input: "  Ana  ", expected: "Ana_Resume.txt"},
		{name: "unicode letters", input: "José Núñez", expected: "José_Núñez_Resume.txt"},
		{name: "empty", input: "", expected: "Resume.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Filename(tt.input)
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestPreviewFilename(t *testing.T) {
	if PreviewFilename("Jane Doe") != "Jane_Doe_Resume_Preview.html" {
		t.Errorf("Unexpected preview filename: %s", PreviewFilename("Jane Doe"))
	}

	if PreviewFilename("") != "Resume_Preview.html" {
		t.Errorf("Unexpected preview filename for empty name: %s", PreviewFilename(""))
	}
}

func TestTitle(t *testing.T) {
	if Title("Jane Doe") != "Jane Doe - Resume" {
		t.Errorf("Unexpected title: %s", Title("Jane Doe"))
	}

	if Title(" ") != "Resume" {
		t.Errorf("Unexpected title for blank name: %s", Title(" "))
	}
}
