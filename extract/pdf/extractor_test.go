package pdf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fossouo/creche-pilou-chatbot/extract"
)

// mockRunner is a test double for CommandRunner. It dispatches on the command
// name and, for pdftotext, on the requested page.
type mockRunner struct {
	pdfinfoOut []byte
	pdfinfoErr error
	pages      map[int]string
	pageErrs   map[int]error
	wholeDoc   string
	calls      int
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.calls++
	if name == "pdfinfo" {
		return m.pdfinfoOut, m.pdfinfoErr
	}

	// pdftotext: find the -f argument to know which page is asked for.
	for i, arg := range args {
		if arg == "-f" && i+1 < len(args) {
			page := 0
			for _, c := range args[i+1] {
				page = page*10 + int(c-'0')
			}
			if err := m.pageErrs[page]; err != nil {
				return nil, err
			}
			return []byte(m.pages[page]), nil
		}
	}
	return []byte(m.wholeDoc), nil
}

func TestExtract_PerPage(t *testing.T) {
	runner := &mockRunner{
		pdfinfoOut: []byte("Title: Règlement\nPages:          3\nEncrypted: no\n"),
		pages: map[int]string{
			1: "Article 1: horaires d'accueil.",
			2: "Article 2: la sieste est obligatoire.",
			3: "Article 3: repas et goûters.",
		},
	}
	extractor := NewWithRunner(runner)

	text, err := extractor.Extract(context.Background(), "/docs/reglement.pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "horaires d'accueil")
	assert.Contains(t, text, "sieste est obligatoire")
	assert.Contains(t, text, "repas et goûters")
}

func TestExtract_SkipsFailedPages(t *testing.T) {
	runner := &mockRunner{
		pdfinfoOut: []byte("Pages: 3\n"),
		pages: map[int]string{
			1: "Première page.",
			3: "Troisième page.",
		},
		pageErrs: map[int]error{
			2: errors.New("pdftotext crashed"),
		},
	}
	extractor := NewWithRunner(runner)

	text, err := extractor.Extract(context.Background(), "/docs/reglement.pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "Première page.")
	assert.Contains(t, text, "Troisième page.")
	assert.NotContains(t, text, "Deuxième")
}

func TestExtract_AllPagesFail(t *testing.T) {
	failure := errors.New("unreadable")
	runner := &mockRunner{
		pdfinfoOut: []byte("Pages: 2\n"),
		pageErrs:   map[int]error{1: failure, 2: failure},
	}
	extractor := NewWithRunner(runner)

	_, err := extractor.Extract(context.Background(), "/docs/corrompu.pdf")
	assert.ErrorIs(t, err, extract.ErrNoText)
}

func TestExtract_WholeDocumentFallback(t *testing.T) {
	runner := &mockRunner{
		pdfinfoErr: errors.New("pdfinfo not available"),
		wholeDoc:   "Contenu complet du document.",
	}
	extractor := NewWithRunner(runner)

	text, err := extractor.Extract(context.Background(), "/docs/reglement.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Contenu complet du document.", text)
}

func TestExtract_EmptyOutput(t *testing.T) {
	runner := &mockRunner{
		pdfinfoOut: []byte("Pages: 1\n"),
		pages:      map[int]string{1: "   \n  "},
	}
	extractor := NewWithRunner(runner)

	_, err := extractor.Extract(context.Background(), "/docs/vide.pdf")
	assert.ErrorIs(t, err, extract.ErrNoText)
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &mockRunner{
		pdfinfoOut: []byte("Pages: 2\n"),
		pageErrs: map[int]error{
			1: context.Canceled,
			2: context.Canceled,
		},
	}
	extractor := NewWithRunner(runner)

	_, err := extractor.Extract(ctx, "/docs/reglement.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPageCount_Malformed(t *testing.T) {
	runner := &mockRunner{pdfinfoOut: []byte("Pages: beaucoup\n")}
	extractor := NewWithRunner(runner)

	_, err := extractor.pageCount(context.Background(), "/docs/reglement.pdf")
	assert.Error(t, err)
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestInterfaceCompliance(t *testing.T) {
	var _ extract.TextExtractor = (*Extractor)(nil)
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Error(t, ErrPDFToolNotFound)
	assert.True(t, strings.Contains(ErrPDFToolNotFound.Error(), "pdftotext"))
}
