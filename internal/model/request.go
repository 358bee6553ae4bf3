package model

import (
	"docgen/internal/docx"
	"docgen/internal/format"
	"docgen/internal/parse"

	"github.com/shopspring/decimal"
)

// Proposal is a parsed commercial-proposal form.
type Proposal struct {
	Client         string
	DocumentNumber string
	Model          string
	Allowance      int64
	Amount         decimal.Decimal
	// Image is optional; without it the IMAGEM placeholder is cleared.
	Image []byte
}

func (p *Proposal) Kind() Kind { return KindProposal }

func (p *Proposal) Filename() string {
	return "Proposal (" + p.Client + ").pdf"
}

// Mapping builds the placeholder values for the proposal template. sizing
// carries the image dimensions; its Data is replaced by the uploaded image.
func (p *Proposal) Mapping(today parse.Date, sizing docx.Image) *docx.Mapping {
	m := docx.NewMapping().
		SetText("DATA", format.Date(today, true)).
		SetText("CLIENTE", p.Client).
		SetText("CPF", p.DocumentNumber).
		SetText("MODELO", p.Model).
		SetText("FRANQUIA", format.Integer(p.Allowance)).
		SetText("FRANQUIA_EXTENSO", format.NumberWords(p.Allowance)).
		SetText("VALOR", format.Money(p.Amount)).
		SetText("VALOR_NUMERICO", format.MoneyNumeric(p.Amount))

	if len(p.Image) == 0 {
		return m.SetText("IMAGEM", "")
	}
	sizing.Data = p.Image
	return m.Set("IMAGEM", sizing)
}

func (p *Proposal) Artifact() *Artifact {
	return &Artifact{
		Kind:           KindProposal,
		ClientName:     p.Client,
		DocumentNumber: p.DocumentNumber,
		Model:          p.Model,
		Allowance:      p.Allowance,
		Amount:         p.Amount,
		Filename:       p.Filename(),
	}
}

// Contract is a parsed rental-contract form.
type Contract struct {
	Denomination   string
	DocumentNumber string
	Address        string
	Phone          string
	Email          string
	Equipment      string
	Accessories    string
	Start          parse.Date
	End            parse.Date
	Allowance      int64
	MonthlyAmount  decimal.Decimal
}

func (c *Contract) Kind() Kind { return KindContract }

func (c *Contract) Filename() string {
	return "Contract (" + c.Denomination + ").pdf"
}

// Months counts the whole months between Start and End.
func (c *Contract) Months() int {
	n := (c.End.Year-c.Start.Year)*12 + c.End.Month - c.Start.Month
	if c.End.Day < c.Start.Day {
		n--
	}
	if n < 0 {
		return 0
	}
	return n
}

// Mapping builds the placeholder values for the contract template. The
// contract template has no image, so sizing is unused.
func (c *Contract) Mapping(today parse.Date, _ docx.Image) *docx.Mapping {
	return docx.NewMapping().
		SetText("DATA", format.Date(today, true)).
		SetText("DENOMINACAO", c.Denomination).
		SetText("CPF_CNPJ", c.DocumentNumber).
		SetText("ENDERECO", c.Address).
		SetText("TELEFONE", c.Phone).
		SetText("EMAIL", c.Email).
		SetText("EQUIPAMENTO", c.Equipment).
		SetText("ACESSORIOS", c.Accessories).
		SetText("DATA_INICIO", format.Date(c.Start, false)).
		SetText("DATA_FIM", format.Date(c.End, false)).
		SetText("VIGENCIA_MESES", format.Integer(int64(c.Months()))).
		SetText("FRANQUIA", format.Integer(c.Allowance)).
		SetText("FRANQUIA_EXTENSO", format.NumberWords(c.Allowance)).
		SetText("VALOR_MENSAL", format.Money(c.MonthlyAmount))
}

func (c *Contract) Artifact() *Artifact {
	return &Artifact{
		Kind:           KindContract,
		ClientName:     c.Denomination,
		DocumentNumber: c.DocumentNumber,
		Model:          c.Equipment,
		Allowance:      c.Allowance,
		Amount:         c.MonthlyAmount,
		Filename:       c.Filename(),
	}
}
