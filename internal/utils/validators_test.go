package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ana@example.com"))
	assert.True(t, IsValidEmail("consultor.rh@empresa.com.br"))

	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("sem-arroba"))
	assert.False(t, IsValidEmail("ana@sem-ponto"))
}

func TestNormalizeCNPJ_AcceptsFormattedInput(t *testing.T) {
	cases := []string{
		"11222333000181",
		"11.222.333/0001-81",
		" 11.222.333/0001-81 ",
	}
	for _, in := range cases {
		got, ok := NormalizeCNPJ(in)
		assert.True(t, ok, "input %q", in)
		assert.Equal(t, "11222333000181", got)
	}
}

func TestNormalizeCNPJ_RejectsInvalid(t *testing.T) {
	cases := []string{
		"",
		"123",
		"1122233300018",    // 13 digits
		"112223330001811",  // 15 digits
		"11222333000182",   // wrong check digit
		"11.222.333/0001-80",
		"00000000000000",   // all-equal digits
		"11111111111111",
	}
	for _, in := range cases {
		_, ok := NormalizeCNPJ(in)
		assert.False(t, ok, "input %q", in)
	}
}
