package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestXLSXSink_Append_CreatesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	sink := NewXLSXSink(path, "仕訳", zap.NewNop())

	rows := sampleRows(t)
	require.NoError(t, sink.Append(context.Background(), rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("仕訳")
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Equal(t, header, got[0])
	assert.Equal(t, "2025/11/08", got[1][0])
	assert.Equal(t, "12345", got[1][2])
	assert.Equal(t, "租税公課", got[1][3])
	assert.Equal(t, "123456", got[4][2])
	assert.Equal(t, "仕入高", got[4][3])
}

func TestXLSXSink_Append_AppendsToExistingWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	sink := NewXLSXSink(path, "仕訳", zap.NewNop())

	rows := sampleRows(t)
	require.NoError(t, sink.Append(context.Background(), rows))
	require.NoError(t, sink.Append(context.Background(), rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("仕訳")
	require.NoError(t, err)
	assert.Len(t, got, 9, "one header plus two batches of four rows")
}

func TestXLSXSink_DefaultSheetName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	sink := NewXLSXSink(path, "", zap.NewNop())

	require.NoError(t, sink.Append(context.Background(), sampleRows(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	idx, err := f.GetSheetIndex("仕訳")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, idx, 0)
}
