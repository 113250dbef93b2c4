package datasets

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"fleetops-backend/internal/middleware"
	"fleetops-backend/internal/store"
	"fleetops-backend/internal/tabular"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDatasetApp(t *testing.T) (*fiber.App, *store.MemStore) {
	st := store.NewMemStore()
	h := &Handlers{Service: &Service{Store: st}}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	grp := app.Group("/api/v1/datasets")
	grp.Get("/", h.List)
	grp.Get("/:dataset", h.Info)
	grp.Get("/:dataset/data", h.Data)
	grp.Post("/:dataset/data", h.DataPost)
	grp.Get("/:dataset/columns/:column/stats", h.ColumnStats)
	return app, st
}

func seedFleet(t *testing.T, st *store.MemStore) {
	ds := tabular.New(store.DatasetVehicleFleet, "Equipment", "LOB", "In Service Year")
	ds.AppendRow(tabular.Text("V100"), tabular.Text("Gas Ops"), tabular.Number(2016))
	ds.AppendRow(tabular.Text("V101"), tabular.Text("Water Ops"), tabular.Number(2020))
	ds.AppendRow(tabular.Text("V102"), tabular.Text("Gas Ops"), tabular.Number(2018))
	require.NoError(t, st.Save(context.Background(), store.DatasetVehicleFleet, ds))
}

func TestListDatasets(t *testing.T) {
	app, st := setupDatasetApp(t)
	seedFleet(t, st)

	req := httptest.NewRequest("GET", "/api/v1/datasets/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Status string `json:"status"`
		Data   struct {
			Datasets []store.Info `json:"datasets"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "success", out.Status)
	require.Len(t, out.Data.Datasets, 1)
	assert.Equal(t, store.DatasetVehicleFleet, out.Data.Datasets[0].Name)
	assert.Equal(t, 3, out.Data.Datasets[0].Rows)
}

func TestDatasetInfo_NotFound(t *testing.T) {
	app, _ := setupDatasetApp(t)

	req := httptest.NewRequest("GET", "/api/v1/datasets/no_such_dataset", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var out struct {
		Status string `json:"status"`
		Error  struct {
			Message    string `json:"message"`
			StatusCode int    `json:"statusCode"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "error", out.Status)
	assert.Equal(t, fiber.StatusNotFound, out.Error.StatusCode)
}

func TestDatasetData_QueryParams(t *testing.T) {
	app, st := setupDatasetApp(t)
	seedFleet(t, st)

	url := "/api/v1/datasets/" + store.DatasetVehicleFleet + "/data" +
		"?filter[LOB]=Gas+Ops&sort_column=In+Service+Year&sort_direction=desc&page=1&page_size=10"
	req := httptest.NewRequest("GET", url, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			Rows []map[string]interface{} `json:"rows"`
		} `json:"data"`
		Metadata struct {
			TotalBefore int `json:"total_rows_before_filter"`
			TotalAfter  int `json:"total_rows_after_filter"`
		} `json:"metadata"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Data.Rows, 2)
	assert.Equal(t, "V102", out.Data.Rows[0]["Equipment"])
	assert.Equal(t, "V100", out.Data.Rows[1]["Equipment"])
	assert.Equal(t, 3, out.Metadata.TotalBefore)
	assert.Equal(t, 2, out.Metadata.TotalAfter)
}

func TestDatasetData_RangeParams(t *testing.T) {
	app, st := setupDatasetApp(t)
	seedFleet(t, st)

	url := "/api/v1/datasets/" + store.DatasetVehicleFleet + "/data" +
		"?min[In+Service+Year]=2017&max[In+Service+Year]=2020"
	req := httptest.NewRequest("GET", url, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			Rows []map[string]interface{} `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Data.Rows, 2)
}

func TestDatasetData_BadRangeValue(t *testing.T) {
	app, st := setupDatasetApp(t)
	seedFleet(t, st)

	url := "/api/v1/datasets/" + store.DatasetVehicleFleet + "/data?min[In+Service+Year]=abc"
	req := httptest.NewRequest("GET", url, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDatasetData_BadPageParams(t *testing.T) {
	app, st := setupDatasetApp(t)
	seedFleet(t, st)

	for _, qs := range []string{"page=abc", "page_size=2.5", "page=1&page_size=ten"} {
		url := "/api/v1/datasets/" + store.DatasetVehicleFleet + "/data?" + qs
		req := httptest.NewRequest("GET", url, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, qs)
	}
}

func TestDatasetData_Post(t *testing.T) {
	app, st := setupDatasetApp(t)
	seedFleet(t, st)

	body, _ := json.Marshal(map[string]interface{}{
		"column_filters": map[string][]string{"LOB": {"Water Ops"}},
	})
	req := httptest.NewRequest("POST", "/api/v1/datasets/"+store.DatasetVehicleFleet+"/data", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			Rows []map[string]interface{} `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Data.Rows, 1)
	assert.Equal(t, "V101", out.Data.Rows[0]["Equipment"])
}

func TestColumnStatsEndpoint(t *testing.T) {
	app, st := setupDatasetApp(t)
	seedFleet(t, st)

	url := "/api/v1/datasets/" + store.DatasetVehicleFleet + "/columns/Equipment/stats"
	req := httptest.NewRequest("GET", url, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			ColumnName   string `json:"column_name"`
			InferredType string `json:"inferred_type"`
			NonNull      int    `json:"non_null_values"`
			Unique       int    `json:"unique_values"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Equipment", out.Data.ColumnName)
	assert.Equal(t, "text", out.Data.InferredType)
	assert.Equal(t, 3, out.Data.NonNull)
	assert.Equal(t, 3, out.Data.Unique)
}

func TestColumnStatsEndpoint_UnknownColumn(t *testing.T) {
	app, st := setupDatasetApp(t)
	seedFleet(t, st)

	url := "/api/v1/datasets/" + store.DatasetVehicleFleet + "/columns/Nope/stats"
	req := httptest.NewRequest("GET", url, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
