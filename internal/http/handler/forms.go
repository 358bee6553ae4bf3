package handler

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"docgen/internal/model"
	"docgen/internal/parse"
)

// ProposalForm is the commercial-proposal form as posted by the page.
type ProposalForm struct {
	Cliente  string `form:"cliente" validate:"required"`
	CPF      string `form:"cpf" validate:"required"`
	Modelo   string `form:"modelo" validate:"required"`
	Franquia string `form:"franquia" validate:"required"`
	Valor    string `form:"valor" validate:"required"`
}

// ContractForm is the rental-contract form as posted by the page.
type ContractForm struct {
	Denominacao string `form:"denominacao" validate:"required"`
	CPFCNPJ     string `form:"cpf_cnpj" validate:"required"`
	Endereco    string `form:"endereco" validate:"required"`
	Telefone    string `form:"telefone" validate:"required"`
	Email       string `form:"email" validate:"required,email"`
	Equipamento string `form:"equipamento" validate:"required"`
	Acessorios  string `form:"acessorios"`
	DataInicio  string `form:"data_inicio" validate:"required"`
	DataFim     string `form:"data_fim" validate:"required"`
	Franquia    string `form:"franquia" validate:"required"`
	ValorMensal string `form:"valor_mensal" validate:"required"`
}

var validate = newValidator()

// newValidator reports fields by their form name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return v
}

// trimStrings trims every string field so whitespace-only values fail
// the required check.
func trimStrings(form any) {
	rv := reflect.ValueOf(form).Elem()
	for i := 0; i < rv.NumField(); i++ {
		if f := rv.Field(i); f.Kind() == reflect.String {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid form"
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func (f *ProposalForm) values() map[string]string {
	return map[string]string{
		"cliente":  f.Cliente,
		"cpf":      f.CPF,
		"modelo":   f.Modelo,
		"franquia": f.Franquia,
		"valor":    f.Valor,
	}
}

func (f *ContractForm) values() map[string]string {
	return map[string]string{
		"denominacao":  f.Denominacao,
		"cpf_cnpj":     f.CPFCNPJ,
		"endereco":     f.Endereco,
		"telefone":     f.Telefone,
		"email":        f.Email,
		"equipamento":  f.Equipamento,
		"acessorios":   f.Acessorios,
		"data_inicio":  f.DataInicio,
		"data_fim":     f.DataFim,
		"franquia":     f.Franquia,
		"valor_mensal": f.ValorMensal,
	}
}

func (f *ProposalForm) toProposal() (*model.Proposal, error) {
	allowance, err := parse.ParseInteger(f.Franquia)
	if err != nil {
		return nil, parse.WithField(err, "franquia")
	}
	amount, err := parse.ParseMoney(f.Valor)
	if err != nil {
		return nil, parse.WithField(err, "valor")
	}
	return &model.Proposal{
		Client:         f.Cliente,
		DocumentNumber: parse.ParseDocumentNumber(f.CPF),
		Model:          f.Modelo,
		Allowance:      allowance,
		Amount:         amount,
	}, nil
}

func (f *ContractForm) toContract() (*model.Contract, error) {
	start, err := parse.ParseDate(f.DataInicio)
	if err != nil {
		return nil, parse.WithField(err, "data_inicio")
	}
	end, err := parse.ParseDate(f.DataFim)
	if err != nil {
		return nil, parse.WithField(err, "data_fim")
	}
	if end.Before(start) {
		return nil, &parse.InputError{Field: "data_fim", Value: f.DataFim, Reason: "must not be before data_inicio"}
	}
	allowance, err := parse.ParseInteger(f.Franquia)
	if err != nil {
		return nil, parse.WithField(err, "franquia")
	}
	amount, err := parse.ParseMoney(f.ValorMensal)
	if err != nil {
		return nil, parse.WithField(err, "valor_mensal")
	}
	return &model.Contract{
		Denomination:   f.Denominacao,
		DocumentNumber: parse.ParseDocumentNumber(f.CPFCNPJ),
		Address:        f.Endereco,
		Phone:          parse.ParsePhone(f.Telefone),
		Email:          f.Email,
		Equipment:      f.Equipamento,
		Accessories:    f.Acessorios,
		Start:          start,
		End:            end,
		Allowance:      allowance,
		MonthlyAmount:  amount,
	}, nil
}

// bindForm parses, trims and validates the request body into form.
func bindForm(c *fiber.Ctx, form any) error {
	if err := c.BodyParser(form); err != nil {
		return &parse.InputError{Reason: "malformed form body"}
	}
	trimStrings(form)
	return validate.Struct(form)
}

// formImage reads an optional uploaded image. A missing or empty file is
// not an error.
func formImage(c *fiber.Ctx, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh.Size == 0 {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, &parse.InputError{Field: field, Reason: "cannot open uploaded file"}
	}
	defer f.Close()
	return io.ReadAll(f)
}
