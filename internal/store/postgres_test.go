package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sbrennan/vapescout/internal/extractor"
)

func testRecord() extractor.Record {
	return extractor.Record{
		Site: "vaperanger",
		Attributes: extractor.Attributes{
			Brand:            "CloudCo",
			Model:            "Bar 9000",
			Flavor:           "Mixed Berry",
			PuffCount:        "9000",
			NicotineStrength: "5%",
			BatteryCapacity:  "650mAh",
			CoilType:         "Mesh",
		},
	}
}

func TestSaveRecords(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rec := testRecord()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO structured_products")).
		WithArgs(rec.Site, rec.Brand, rec.Model, rec.Flavor,
			rec.PuffCount, rec.NicotineStrength, rec.BatteryCapacity, rec.CoilType).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	s := NewProductStore(mock, zap.NewNop())
	require.NoError(t, s.SaveRecords(context.Background(), []extractor.Record{rec}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRecordsStopsOnError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rec := testRecord()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO structured_products")).
		WithArgs(rec.Site, rec.Brand, rec.Model, rec.Flavor,
			rec.PuffCount, rec.NicotineStrength, rec.BatteryCapacity, rec.CoilType).
		WillReturnError(errors.New("connection reset"))

	s := NewProductStore(mock, zap.NewNop())
	err = s.SaveRecords(context.Background(), []extractor.Record{rec, rec})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert record")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRecordsEmpty(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewProductStore(mock, zap.NewNop())
	require.NoError(t, s.SaveRecords(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
