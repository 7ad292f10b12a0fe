package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shinsei-trade/permit-ledger/internal/extract"
	"github.com/shinsei-trade/permit-ledger/internal/ledger"
	"github.com/shinsei-trade/permit-ledger/internal/parse"
	"github.com/shinsei-trade/permit-ledger/internal/permit"
)

const permitText = `輸入許可通知書

輸入許可書番号: YP5507887XX
輸入許可年月日: 2025年11月8日
輸入者: 新白岡輸入販売株式会社
追跡番号: YP5507887XX

課税価格: 103,088円
関税額: 12,345円
消費税額: 6,789円
地方消費税額: 1,234円
合計金額: 123,456円
`

// fakeExtractor serves canned text per path without touching any document.
type fakeExtractor struct {
	texts map[string]string
}

func (f *fakeExtractor) TextFromFile(path string) (string, error) {
	text, ok := f.texts[path]
	if !ok {
		return "", &extract.DocumentUnreadableError{Source: path, Reason: "cannot open document"}
	}
	return text, nil
}

type fakeFallback struct {
	fields *parse.Fields
	err    error
	called bool
}

func (f *fakeFallback) Parse(_ context.Context, _ string) (*parse.Fields, error) {
	f.called = true
	return f.fields, f.err
}

func newTestPipeline(extractor TextExtractor, fallback FallbackParser) *Pipeline {
	logger := zap.NewNop()
	return New(
		extractor,
		parse.NewParser(logger),
		permit.NewBuilder(permit.Options{}, logger),
		ledger.NewGenerator(),
		fallback,
		logger,
	)
}

func TestPipeline_Process(t *testing.T) {
	p := newTestPipeline(&fakeExtractor{texts: map[string]string{"a.pdf": permitText}}, nil)

	result, err := p.Process(context.Background(), "a.pdf")
	require.NoError(t, err)

	assert.Equal(t, "YP5507887XX", result.Permit.PermitNumber)
	assert.Equal(t, time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC), result.Permit.IssueDate)
	assert.Equal(t, "a.pdf", result.Permit.SourceRef)

	require.Len(t, result.Rows, 4)
	assert.Equal(t, ledger.CategoryPurchase, result.Rows[3].Category)
	assert.Equal(t, int64(123456), result.Rows[3].Amount)
}

func TestPipeline_Process_ExtractionFailure(t *testing.T) {
	p := newTestPipeline(&fakeExtractor{}, nil)

	_, err := p.Process(context.Background(), "missing.pdf")
	var unreadable *extract.DocumentUnreadableError
	require.ErrorAs(t, err, &unreadable)
}

func TestPipeline_Process_ParseFailureWithoutFallback(t *testing.T) {
	p := newTestPipeline(&fakeExtractor{texts: map[string]string{"a.pdf": "領収書 2025/11/08"}}, nil)

	_, err := p.Process(context.Background(), "a.pdf")
	var missing *parse.MissingMandatoryFieldError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, err.Error(), "a.pdf")
}

func TestPipeline_Process_FallbackRescuesParseFailure(t *testing.T) {
	fallback := &fakeFallback{
		fields: &parse.Fields{Values: map[string]string{
			parse.FieldPermitNumber:        "YP5507887XX",
			parse.FieldIssueDate:           "2025-11-08",
			parse.FieldCustomsDuty:         "0",
			parse.FieldConsumptionTax:      "0",
			parse.FieldLocalConsumptionTax: "0",
			parse.FieldSubtotal:            "50000",
			parse.FieldTotalAmount:         "50000",
		}},
	}
	p := newTestPipeline(&fakeExtractor{texts: map[string]string{"a.pdf": "読めない書式"}}, fallback)

	result, err := p.Process(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.True(t, fallback.called)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, ledger.CategoryPurchase, result.Rows[0].Category)
}

func TestPipeline_Process_FallbackNotUsedOnSuccess(t *testing.T) {
	fallback := &fakeFallback{err: errors.New("should not be called")}
	p := newTestPipeline(&fakeExtractor{texts: map[string]string{"a.pdf": permitText}}, fallback)

	_, err := p.Process(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.False(t, fallback.called)
}

func TestPipeline_ProcessBatch_PartialFailure(t *testing.T) {
	p := newTestPipeline(&fakeExtractor{texts: map[string]string{
		"a.pdf": permitText,
		"c.pdf": permitText,
	}}, nil)

	items := p.ProcessBatch(context.Background(), []string{"a.pdf", "b.pdf", "c.pdf"}, 2)
	require.Len(t, items, 3)

	assert.Equal(t, "a.pdf", items[0].Source)
	require.NoError(t, items[0].Err)
	assert.Equal(t, "YP5507887XX", items[0].Result.Permit.PermitNumber)

	assert.Equal(t, "b.pdf", items[1].Source)
	require.Error(t, items[1].Err)
	assert.Nil(t, items[1].Result)

	assert.Equal(t, "c.pdf", items[2].Source)
	require.NoError(t, items[2].Err)
}

func TestPipeline_ProcessBatch_UnboundedLimit(t *testing.T) {
	p := newTestPipeline(&fakeExtractor{texts: map[string]string{"a.pdf": permitText}}, nil)

	items := p.ProcessBatch(context.Background(), []string{"a.pdf"}, 0)
	require.Len(t, items, 1)
	assert.NoError(t, items[0].Err)
}
