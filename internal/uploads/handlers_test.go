package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"fleetops-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUploadApp(t *testing.T) (*fiber.App, *store.MemStore) {
	st := store.NewMemStore()
	h := &Handlers{Service: &Service{Store: st, MaxBytes: 1 << 20}}
	app := fiber.New()
	app.Post("/api/v1/files/:dataset/upload", h.Upload)
	return app, st
}

func multipartCSV(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUpload_ReplacesDataset(t *testing.T) {
	app, st := setupUploadApp(t)

	body, contentType := multipartCSV(t, "fleet.csv", "Equipment,LOB\n10001,Gas Ops\n10002,Water Ops\n")
	req := httptest.NewRequest("POST", "/api/v1/files/"+store.DatasetVehicleFleet+"/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var parsed struct {
		Status string `json:"status"`
		Data   struct {
			Dataset string   `json:"dataset"`
			Rows    int      `json:"rows"`
			Columns []string `json:"columns"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, "success", parsed.Status)
	assert.Equal(t, store.DatasetVehicleFleet, parsed.Data.Dataset)
	assert.Equal(t, 2, parsed.Data.Rows)
	assert.Equal(t, []string{"Equipment", "LOB"}, parsed.Data.Columns)

	ds, err := st.Load(context.Background(), store.DatasetVehicleFleet)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, "Gas Ops", ds.Cell(0, "LOB").String())
}

func TestUpload_MissingFile(t *testing.T) {
	app, _ := setupUploadApp(t)

	req := httptest.NewRequest("POST", "/api/v1/files/"+store.DatasetVehicleFleet+"/upload", bytes.NewReader(nil))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpload_RejectsNonCSV(t *testing.T) {
	app, _ := setupUploadApp(t)

	body, contentType := multipartCSV(t, "fleet.xlsx", "not a csv")
	req := httptest.NewRequest("POST", "/api/v1/files/"+store.DatasetVehicleFleet+"/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestReplaceDataset_EmptyFile(t *testing.T) {
	s := &Service{Store: store.NewMemStore()}
	_, err := s.ReplaceDataset(context.Background(), store.DatasetVehicleFleet, strings.NewReader(""), 0)
	assert.Error(t, err)
}

func TestReplaceDataset_SizeCap(t *testing.T) {
	s := &Service{Store: store.NewMemStore(), MaxBytes: 10}
	_, err := s.ReplaceDataset(context.Background(), store.DatasetVehicleFleet, strings.NewReader("a,b\n1,2\n"), 100)
	assert.Error(t, err)
}
