package export

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"aircare/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubRequestStore struct {
	requests []*models.ServiceRequest
	err      error
}

func (s *stubRequestStore) CreateRequest(ctx context.Context, req *models.ServiceRequest) error {
	return nil
}

func (s *stubRequestStore) GetRequest(ctx context.Context, requestID string) (*models.ServiceRequest, error) {
	return nil, nil
}

func (s *stubRequestStore) GetRequestsByPhone(ctx context.Context, phone string) ([]*models.ServiceRequest, error) {
	return nil, nil
}

func (s *stubRequestStore) GetRequestsByDateRange(ctx context.Context, start, end time.Time) ([]*models.ServiceRequest, error) {
	return s.requests, s.err
}

func (s *stubRequestStore) UpdateRequestStatus(ctx context.Context, requestID string, status int) error {
	return nil
}

func TestExportRequests(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	store := &stubRequestStore{requests: []*models.ServiceRequest{
		{
			RequestID:     "req-1",
			ServiceType:   "청소",
			AirconType:    "벽걸이형",
			Brand:         "LG전자",
			ClientName:    "홍길동",
			CustomerPhone: "01012345678",
			ServiceDate:   "2026-09-01",
			ServiceTime:   "14:00",
			Status:        models.StatusRequested,
			CreatedAt:     "2026년 08월 29일",
		},
		{
			RequestID:     "req-2",
			ServiceType:   "설치",
			CustomerPhone: "01099998888",
			Status:        models.StatusAccepted,
		},
	}}

	exporter := NewExporter(store, t.TempDir(), &logger)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	filePath, err := exporter.ExportRequests(ctx, start, end)
	require.NoError(t, err)
	require.FileExists(t, filePath)
	assert.Contains(t, filePath, "requests_2026-08-01_to_2026-09-01.xlsx")

	f, err := excelize.OpenFile(filePath)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Requests", "A1")
	require.NoError(t, err)
	assert.Contains(t, title, "01.08.2026")

	header, err := f.GetCellValue("Requests", "A2")
	require.NoError(t, err)
	assert.Equal(t, "request_id", header)

	firstID, err := f.GetCellValue("Requests", "A3")
	require.NoError(t, err)
	assert.Equal(t, "req-1", firstID)

	serviceType, err := f.GetCellValue("Requests", "C3")
	require.NoError(t, err)
	assert.Equal(t, "청소", serviceType)

	secondID, err := f.GetCellValue("Requests", "A4")
	require.NoError(t, err)
	assert.Equal(t, "req-2", secondID)
}

func TestExportRequestsEmptyRange(t *testing.T) {
	logger := zerolog.Nop()
	exporter := NewExporter(&stubRequestStore{}, t.TempDir(), &logger)

	filePath, err := exporter.ExportRequests(context.Background(),
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.FileExists(t, filePath)
}

func TestExportRequestsStoreError(t *testing.T) {
	logger := zerolog.Nop()
	dir := t.TempDir()
	exporter := NewExporter(&stubRequestStore{err: errors.New("db gone")}, dir, &logger)

	_, err := exporter.ExportRequests(context.Background(), time.Now().AddDate(0, 0, -1), time.Now())
	require.Error(t, err)

	// no stray files on failure
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}
