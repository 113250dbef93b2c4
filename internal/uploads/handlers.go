package uploads

import (
	"path/filepath"
	"strings"

	"fleetops-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *Service
}

// Upload POST /api/v1/files/:dataset/upload — replace a dataset from a
// multipart CSV file (field name "file"). Only .csv is accepted.
func (h *Handlers) Upload(c *fiber.Ctx) error {
	name := c.Params("dataset")

	fh, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, "file is required", fiber.StatusBadRequest, nil)
	}
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".csv" {
		return response.Error(c, "Only .csv files are accepted", fiber.StatusBadRequest, nil)
	}

	f, err := fh.Open()
	if err != nil {
		return response.Error(c, "Failed to read upload", fiber.StatusInternalServerError, nil)
	}
	defer f.Close()

	result, err := h.Service.ReplaceDataset(c.Context(), name, f, fh.Size)
	if err != nil {
		return err
	}
	log.Info().Str("dataset", name).Int("rows", result.Rows).Msg("dataset replaced via upload")
	return response.Success(c, "Dataset uploaded", result, nil)
}
