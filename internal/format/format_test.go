package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal/parse"
)

func TestNumberWords(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "zero"},
		{1, "um"},
		{9, "nove"},
		{10, "dez"},
		{14, "catorze"},
		{19, "dezenove"},
		{20, "vinte"},
		{21, "vinte e um"},
		{99, "noventa e nove"},
		{100, "cem"},
		{101, "cento e um"},
		{110, "cento e dez"},
		{200, "duzentos"},
		{234, "duzentos e trinta e quatro"},
		{999, "novecentos e noventa e nove"},
		{1000, "um mil"},
		{1001, "um mil e um"},
		{1099, "um mil e noventa e nove"},
		{1100, "um mil cem"},
		{1234, "um mil duzentos e trinta e quatro"},
		{2000, "dois mil"},
		{100000, "cem mil"},
		{101000, "cento e um mil"},
		{1000000, "um milhão"},
		{1000001, "um milhão e um"},
		{2500000, "dois milhões quinhentos mil"},
		{1000000000, "um bilhão"},
		{3000000100, "três bilhões cem"},
		{-5, "menos cinco"},
		{-1100, "menos um mil cem"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NumberWords(tt.n), "NumberWords(%d)", tt.n)
	}
}

func TestNumberWords_Extremes(t *testing.T) {
	assert.NotEmpty(t, NumberWords(9223372036854775807))
	assert.Contains(t, NumberWords(-9223372036854775808), "menos nove milhões")
}

func TestMoneyWords(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "zero real"},
		{"0.50", "zero reais e cinquenta centavos"},
		{"0.01", "zero reais e um centavo"},
		{"1", "um real"},
		{"1.01", "um real e um centavo"},
		{"2.50", "dois reais e cinquenta centavos"},
		{"1234.56", "um mil duzentos e trinta e quatro reais e cinquenta e seis centavos"},
		{"100", "cem reais"},
		{"19.999", "vinte reais"},
		{"-2", "menos dois reais"},
	}
	for _, tt := range tests {
		got := MoneyWords(decimal.RequireFromString(tt.amount))
		assert.Equal(t, tt.want, got, tt.amount)
	}
}

func TestMoney(t *testing.T) {
	got := Money(decimal.RequireFromString("1234.56"))
	assert.Equal(t, "R$ 1.234,56 (um mil duzentos e trinta e quatro reais e cinquenta e seis centavos)", got)

	assert.Equal(t, "R$ 0,00 (zero real)", Money(decimal.Zero))
}

func TestMoneyNumeric(t *testing.T) {
	tests := map[string]string{
		"0":          "0,00",
		"5":          "5,00",
		"999.9":      "999,90",
		"1000":       "1.000,00",
		"1234567.89": "1.234.567,89",
		"-1234.5":    "-1.234,50",
	}
	for in, want := range tests {
		assert.Equal(t, want, MoneyNumeric(decimal.RequireFromString(in)), in)
	}
}

func TestMoneyNumeric_RoundTripsThroughParser(t *testing.T) {
	inputs := []string{"0", "0,01", "1,5", "1.234,56", "R$ 987.654.321,99", "1234.565", "42"}
	for _, in := range inputs {
		first, err := parse.ParseMoney(in)
		require.NoError(t, err, in)

		second, err := parse.ParseMoney(MoneyNumeric(first))
		require.NoError(t, err, in)
		assert.True(t, first.Equal(second), "%s: %s != %s", in, first, second)
	}
}

func TestInteger(t *testing.T) {
	assert.Equal(t, "0", Integer(0))
	assert.Equal(t, "999", Integer(999))
	assert.Equal(t, "1.000", Integer(1000))
	assert.Equal(t, "12.345.678", Integer(12345678))
	assert.Equal(t, "-1.500", Integer(-1500))
}

func TestDate(t *testing.T) {
	d, err := parse.ParseDate("05032024")
	require.NoError(t, err)

	assert.Equal(t, "5 de março de 2024", Date(d, false))
	assert.Equal(t, "5 de Março de 2024", Date(d, true))
}

func TestDate_FromParsedInput(t *testing.T) {
	tests := map[string]string{
		"01012000":   "1 de janeiro de 2000",
		"29022024":   "29 de fevereiro de 2024",
		"311299":     "31 de dezembro de 2099",
		"15/08/2023": "15 de agosto de 2023",
	}
	for in, want := range tests {
		d, err := parse.ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, Date(d, false), in)
	}
}

func TestDateWords(t *testing.T) {
	d := parse.Date{Day: 1, Month: 5, Year: 2024}
	assert.Equal(t, "primeiro de maio de dois mil e vinte e quatro", DateWords(d))

	d = parse.Date{Day: 21, Month: 11, Year: 2030}
	assert.Equal(t, "vinte e um de novembro de dois mil e trinta", DateWords(d))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "dezembro", MonthName(12, false))
	assert.Equal(t, "Janeiro", MonthName(1, true))
	assert.Empty(t, MonthName(13, true))
}
