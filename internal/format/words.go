package format

import "github.com/shopspring/decimal"

var (
	units = [...]string{"zero", "um", "dois", "três", "quatro", "cinco", "seis", "sete", "oito", "nove"}
	teens = [...]string{"dez", "onze", "doze", "treze", "catorze", "quinze", "dezesseis", "dezessete", "dezoito", "dezenove"}
	tens  = [...]string{"", "", "vinte", "trinta", "quarenta", "cinquenta", "sessenta", "setenta", "oitenta", "noventa"}
)

var hundreds = [...]string{"", "cento", "duzentos", "trezentos", "quatrocentos", "quinhentos",
	"seiscentos", "setecentos", "oitocentos", "novecentos"}

type scale struct {
	value    uint64
	singular string
	plural   string
}

// Largest first.
var scales = []scale{
	{value: 1_000_000_000_000, singular: "trilhão", plural: "trilhões"},
	{value: 1_000_000_000, singular: "bilhão", plural: "bilhões"},
	{value: 1_000_000, singular: "milhão", plural: "milhões"},
	{value: 1_000, singular: "mil", plural: "mil"},
}

// NumberWords spells n out in Brazilian Portuguese.
func NumberWords(n int64) string {
	if n < 0 {
		return "menos " + words(uint64(-(n+1))+1)
	}
	return words(uint64(n))
}

func words(n uint64) string {
	switch {
	case n < 10:
		return units[n]
	case n < 20:
		return teens[n-10]
	case n < 100:
		return tens[n/10] + join(n%10)
	case n == 100:
		return "cem"
	case n < 1000:
		return hundreds[n/100] + join(n%100)
	}

	for _, s := range scales {
		if n < s.value {
			continue
		}
		q := n / s.value
		word := s.plural
		if q == 1 {
			word = s.singular
		}
		return words(q) + " " + word + join(n%s.value)
	}
	return ""
}

// join attaches a remainder: nothing when zero, "e" below one hundred,
// a plain space otherwise.
func join(rest uint64) string {
	switch {
	case rest == 0:
		return ""
	case rest < 100:
		return " e " + words(rest)
	default:
		return " " + words(rest)
	}
}

var hundred = decimal.NewFromInt(100)

// MoneyWords spells an amount out as reais and centavos.
func MoneyWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	if amount.IsNegative() {
		return "menos " + MoneyWords(amount.Neg())
	}

	whole := amount.Floor()
	reais := whole.IntPart()
	centavos := amount.Sub(whole).Mul(hundred).Round(0).IntPart()

	var phrase string
	switch {
	case reais == 0 && centavos == 0:
		phrase = "zero real"
	case reais == 0:
		phrase = "zero reais"
	case reais == 1:
		phrase = "um real"
	default:
		phrase = NumberWords(reais) + " reais"
	}

	switch centavos {
	case 0:
		return phrase
	case 1:
		return phrase + " e um centavo"
	default:
		return phrase + " e " + NumberWords(centavos) + " centavos"
	}
}
