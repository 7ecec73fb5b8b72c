package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Foo", "foo"},
		{"ExtendedFoo", "extended_foo"},
		{"BloodPressure", "blood_pressure"},
		{"HTTPSConnection", "https_connection"},
		{"PanelID", "panel_id"},
		{"lowercase", "lowercase"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToSnakeCase(tt.in), tt.in)
	}
}

func TestSplitWords(t *testing.T) {
	assert.Equal(t, []string{"blood", "pressure"}, SplitWords("BloodPressure"))
	assert.Equal(t, []string{"foo"}, SplitWords("Foo"))
}

func TestFirstLetterCasing(t *testing.T) {
	assert.Equal(t, "panelMembers", LowerFirst("PanelMembers"))
	assert.Equal(t, "", LowerFirst(""))
	assert.Equal(t, "Value", UpperFirst("value"))
	assert.Equal(t, "", UpperFirst(""))
}

func TestToPascalCase(t *testing.T) {
	assert.Equal(t, "ShrCore", ToPascalCase("shr.core", "."))
	assert.Equal(t, "Demo", ToPascalCase("demo", "."))
	assert.Equal(t, "ShrCoreVital", ToPascalCase("shr.core.vital", "."))
}

func TestPtr(t *testing.T) {
	p := Ptr(3)
	assert.Equal(t, 3, *p)
	*p = 4
	assert.NotEqual(t, p, Ptr(3))
}
