package handler

import (
	"html/template"
	"mime"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"docgen/internal/model"
	"docgen/internal/service"
)

// ArtifactIDHeader carries the id of the stored copy when the PDF was persisted.
const ArtifactIDHeader = "X-Artifact-ID"

// CreateProposal godoc
// @Summary Generate a commercial proposal
// @Tags documents
// @Accept multipart/form-data
// @Produce application/pdf
// @Param cliente formData string true "Client name"
// @Param cpf formData string true "CPF or CNPJ"
// @Param modelo formData string true "Equipment model"
// @Param franquia formData string true "Page allowance"
// @Param valor formData string true "Amount, comma decimal"
// @Param imagem formData file false "Equipment picture"
// @Success 200 {file} binary
// @Failure 400 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /proposals [post]
func CreateProposal(gen service.Generator, page *template.Template) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form ProposalForm
		fail := func(err error) error {
			return respondFormError(c, page, FormPage{Form: "proposal", Proposal: form.values()}, err)
		}
		if err := bindForm(c, &form); err != nil {
			return fail(err)
		}
		p, err := form.toProposal()
		if err != nil {
			return fail(err)
		}
		if p.Image, err = formImage(c, "imagem"); err != nil {
			return fail(err)
		}
		return sendResult(c, gen, p)
	}
}

// CreateContract godoc
// @Summary Generate a rental contract
// @Tags documents
// @Accept multipart/form-data
// @Produce application/pdf
// @Param denominacao formData string true "Customer name"
// @Param cpf_cnpj formData string true "CPF or CNPJ"
// @Param endereco formData string true "Address"
// @Param telefone formData string true "Phone"
// @Param email formData string true "Email"
// @Param equipamento formData string true "Equipment"
// @Param acessorios formData string false "Accessories"
// @Param data_inicio formData string true "Start date (dd/mm/yyyy)"
// @Param data_fim formData string true "End date (dd/mm/yyyy)"
// @Param franquia formData string true "Page allowance"
// @Param valor_mensal formData string true "Monthly amount, comma decimal"
// @Success 200 {file} binary
// @Failure 400 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /contracts [post]
func CreateContract(gen service.Generator, page *template.Template) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form ContractForm
		fail := func(err error) error {
			return respondFormError(c, page, FormPage{Form: "contract", Contract: form.values()}, err)
		}
		if err := bindForm(c, &form); err != nil {
			return fail(err)
		}
		ct, err := form.toContract()
		if err != nil {
			return fail(err)
		}
		return sendResult(c, gen, ct)
	}
}

func sendResult(c *fiber.Ctx, gen service.Generator, req service.Request) error {
	res, err := gen.Generate(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	if res.Artifact != nil {
		c.Set(ArtifactIDHeader, strconv.FormatInt(res.Artifact.ID, 10))
	}
	c.Set(fiber.HeaderContentDisposition, contentDisposition("attachment", res.Filename))
	c.Type("pdf")
	return c.Send(res.PDF)
}

var pathSeparators = strings.NewReplacer("/", "-", "\\", "-")

// contentDisposition names the PDF exactly as generated. Path separators
// are replaced so clients do not truncate names like "ACME S/A"; non-ASCII
// names are sent as an RFC 2231 filename* parameter.
func contentDisposition(disposition, filename string) string {
	v := mime.FormatMediaType(disposition, map[string]string{
		"filename": pathSeparators.Replace(filename),
	})
	if v == "" {
		return disposition
	}
	return v
}

// TemplatePlaceholders godoc
// @Summary List the placeholders a template declares
// @Tags documents
// @Produce json
// @Param kind path string true "proposal or contract"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errorPayload
// @Router /templates/{kind}/placeholders [get]
func TemplatePlaceholders(gen service.Generator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind := model.Kind(c.Params("kind"))
		if !kind.Valid() {
			return respondError(c, service.ErrUnknownKind)
		}
		keys, err := gen.Placeholders(kind)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"kind": kind, "placeholders": keys})
	}
}
