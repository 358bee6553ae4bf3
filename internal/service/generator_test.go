package service

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docgen/internal/converter"
	"docgen/internal/docx"
	"docgen/internal/logger"
	"docgen/internal/model"
	repoMocks "docgen/internal/repository/mocks"
	"docgen/internal/storage"
	storeMocks "docgen/internal/storage/mocks"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const proposalXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>{{DATA}}</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Cliente: {{CLI</w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>ENTE}} ({{CPF}})</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Valor: {{VALOR}}</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Imagem: {{IMAGEM}}</w:t></w:r></w:p>` +
	`</w:body></w:document>`

func writeTemplate(t *testing.T, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range map[string]string{
		"[Content_Types].xml": `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":   documentXML,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

// copyConverter "converts" by copying the rendered docx, so tests can read
// the substituted text back out of the PDF bytes.
type copyConverter struct {
	err error
}

func (c copyConverter) Convert(_ context.Context, input, outDir string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	b, err := os.ReadFile(input)
	if err != nil {
		return "", err
	}
	out := filepath.Join(outDir, "document.pdf")
	return out, os.WriteFile(out, b, 0o600)
}

type generatorFixture struct {
	gen     *generator
	workDir string
}

func newGenerator(t *testing.T, conv converter.Converter, artifacts ArtifactService) generatorFixture {
	t.Helper()
	workDir := t.TempDir()
	g, err := NewGenerator(GeneratorConfig{
		Templates: map[model.Kind]string{
			model.KindProposal: writeTemplate(t, proposalXML),
			model.KindContract: filepath.Join(workDir, "missing.docx"),
		},
		WorkDir:  workDir,
		Location: time.FixedZone("BRT", -3*3600),
		Image:    docx.Image{MaxWidthMM: 50, MaxHeightMM: 50},
	}, conv, artifacts, logger.Discard(), prometheus.NewRegistry())
	require.NoError(t, err)

	gen := g.(*generator)
	// 22:00 on the 15th in BRT, already the 16th in UTC.
	gen.now = func() time.Time { return time.Date(2024, 3, 16, 1, 0, 0, 0, time.UTC) }
	return generatorFixture{gen: gen, workDir: workDir}
}

func proposal() *model.Proposal {
	return &model.Proposal{
		Client:         "Ana",
		DocumentNumber: "123.456.789-01",
		Model:          "X1",
		Allowance:      1000,
		Amount:         decimal.RequireFromString("1.50"),
	}
}

func assertWorkDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "docgen-", "work dir left behind")
	}
}

func TestGenerator_Generate(t *testing.T) {
	fx := newGenerator(t, copyConverter{}, nil)

	res, err := fx.gen.Generate(context.Background(), proposal())

	require.NoError(t, err)
	assert.Equal(t, "Proposal (Ana).pdf", res.Filename)
	assert.Nil(t, res.Artifact)

	out, err := docx.Read(res.PDF)
	require.NoError(t, err)
	assert.Equal(t, "15 de Março de 2024\n"+
		"Cliente: Ana (123.456.789-01)\n"+
		"Valor: R$ 1,50 (um real e cinquenta centavos)\n"+
		"Imagem: ", out.Text())

	assert.Equal(t, 1.0, testutil.ToFloat64(fx.gen.generated.WithLabelValues("proposal", "ok")))
	assertWorkDirEmpty(t, fx.workDir)
}

func TestGenerator_GeneratePersists(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockArtifactRepository)
	mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{Key: "proposal/k.pdf"}, nil)
	mRepo.On("Create", ctx, mock.MatchedBy(func(a *model.Artifact) bool {
		return a.Kind == model.KindProposal && a.Filename == "Proposal (Ana).pdf" && a.Size > 0
	})).Return(&model.Artifact{ID: 9}, nil)

	fx := newGenerator(t, copyConverter{}, NewArtifactService(mStore, mRepo, logger.Discard()))

	res, err := fx.gen.Generate(ctx, proposal())

	require.NoError(t, err)
	require.NotNil(t, res.Artifact)
	assert.Equal(t, int64(9), res.Artifact.ID)
	mStore.AssertExpectations(t)
	mRepo.AssertExpectations(t)
}

func TestGenerator_StorageFailureStillReturnsPDF(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("minio down"))

	fx := newGenerator(t, copyConverter{}, NewArtifactService(mStore, new(repoMocks.MockArtifactRepository), logger.Discard()))

	res, err := fx.gen.Generate(ctx, proposal())

	require.NoError(t, err)
	assert.NotEmpty(t, res.PDF)
	assert.Nil(t, res.Artifact)
}

func TestGenerator_Failures(t *testing.T) {
	t.Run("conversion", func(t *testing.T) {
		fx := newGenerator(t, copyConverter{err: converter.ErrConversion}, nil)

		_, err := fx.gen.Generate(context.Background(), proposal())

		assert.ErrorIs(t, err, converter.ErrConversion)
		assert.Equal(t, 1.0, testutil.ToFloat64(fx.gen.generated.WithLabelValues("proposal", "error")))
		assertWorkDirEmpty(t, fx.workDir)
	})

	t.Run("missing template", func(t *testing.T) {
		fx := newGenerator(t, copyConverter{}, nil)

		_, err := fx.gen.Generate(context.Background(), &model.Contract{Denomination: "ACME"})

		assert.ErrorIs(t, err, docx.ErrTemplate)
		assertWorkDirEmpty(t, fx.workDir)
	})

	t.Run("unknown kind", func(t *testing.T) {
		fx := newGenerator(t, copyConverter{}, nil)
		delete(fx.gen.cfg.Templates, model.KindProposal)

		_, err := fx.gen.Generate(context.Background(), proposal())

		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("unreadable image", func(t *testing.T) {
		fx := newGenerator(t, copyConverter{}, nil)
		p := proposal()
		p.Image = []byte("not an image")

		_, err := fx.gen.Generate(context.Background(), p)

		assert.ErrorIs(t, err, docx.ErrTemplate)
	})
}

func TestGenerator_Placeholders(t *testing.T) {
	fx := newGenerator(t, copyConverter{}, nil)

	keys, err := fx.gen.Placeholders(model.KindProposal)
	require.NoError(t, err)
	assert.Equal(t, []string{"DATA", "CLIENTE", "CPF", "VALOR", "IMAGEM"}, keys)

	_, err = fx.gen.Placeholders(model.Kind("invoice"))
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = fx.gen.Placeholders(model.KindContract)
	assert.ErrorIs(t, err, docx.ErrTemplate)
}

func TestNewGenerator_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewGenerator(GeneratorConfig{}, copyConverter{}, nil, logger.Discard(), reg)
	require.NoError(t, err)

	_, err = NewGenerator(GeneratorConfig{}, copyConverter{}, nil, logger.Discard(), reg)
	assert.Error(t, err)
}
