package diff

import (
	"context"
	"errors"

	engine "ahb-manager/core/diff"
	"ahb-manager/core/formatversion"
	"ahb-manager/core/logger"
	"ahb-manager/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for diffs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the diff routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/diff")
	group.Get("/versions/:kind", h.HandleListVersions)
	group.Get("/reports/:id", h.HandleGetReport)
	group.Get("/ahb/:pruefi", h.HandleDiffAHB)
	group.Get("/mig/:format", h.HandleDiffMIG)
}

// DiffResponse is the body of a diff request.
type DiffResponse struct {
	Result    *engine.Result `json:"result"`
	ReportID  string         `json:"report_id,omitempty"`
	ExportKey string         `json:"export_key,omitempty"`
}

// HandleDiffAHB compares one Prüfidentifikator.
// @Summary Diff AHB
// @Description Compares the rows of a Prüfidentifikator between two format versions.
// @Tags diff
// @Produce json
// @Param pruefi path string true "Prüfidentifikator"
// @Param old query string true "Old format version, e.g. FV2404"
// @Param new query string true "New format version, e.g. FV2410"
// @Param changes query boolean false "Only return changed lines"
// @Param save query boolean false "Store the result as a diff report"
// @Param export query string false "Upload the result to the bucket (json, yaml, csv)"
// @Success 200 {object} DiffResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Scope Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /diff/ahb/{pruefi} [get]
func (h *Handler) HandleDiffAHB(c *fiber.Ctx) error {
	return h.handleDiff(c, c.Params("pruefi"), h.service.DiffAHB)
}

// HandleDiffMIG compares one format.
// @Summary Diff MIG
// @Description Compares the rows of a MIG format between two format versions.
// @Tags diff
// @Produce json
// @Param format path string true "Format, e.g. UTILMD"
// @Param old query string true "Old format version, e.g. FV2404"
// @Param new query string true "New format version, e.g. FV2410"
// @Param changes query boolean false "Only return changed lines"
// @Param save query boolean false "Store the result as a diff report"
// @Param export query string false "Upload the result to the bucket (json, yaml, csv)"
// @Success 200 {object} DiffResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Scope Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /diff/mig/{format} [get]
func (h *Handler) HandleDiffMIG(c *fiber.Ctx) error {
	return h.handleDiff(c, c.Params("format"), h.service.DiffMIG)
}

type diffFunc func(ctx context.Context, oldFV, newFV, scope string) (*engine.Result, error)

func (h *Handler) handleDiff(c *fiber.Ctx, scope string, run diffFunc) error {
	l := logger.WithRayID(h.service.logger, c)
	oldFV, newFV := c.Query("old"), c.Query("new")
	if oldFV == "" || newFV == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query parameters old and new are required"})
	}

	result, err := run(c.Context(), oldFV, newFV, scope)
	if err != nil {
		return h.fail(c, l, err)
	}

	resp := DiffResponse{Result: result}
	if format := c.Query("export"); format != "" {
		key, err := h.service.Export(c.Context(), result, format)
		if err != nil {
			return h.fail(c, l, err)
		}
		resp.ExportKey = key
	}
	if c.Query("save") == "true" {
		id, err := h.service.Save(c.Context(), result)
		if err != nil {
			return h.fail(c, l, err)
		}
		resp.ReportID = id
	}
	if c.Query("changes") == "true" {
		trimmed := *result
		trimmed.Lines = result.Changes()
		resp.Result = &trimmed
	}
	return c.JSON(resp)
}

// HandleListVersions lists the ingested format versions.
// @Summary List Format Versions
// @Description Lists the format versions with stored rows of a kind.
// @Tags diff
// @Produce json
// @Param kind path string true "ahb or mig"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /diff/versions/{kind} [get]
func (h *Handler) HandleListVersions(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	kind := store.Kind(c.Params("kind"))
	versions, err := h.service.store.ListFormatVersions(c.Context(), kind)
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(fiber.Map{"kind": kind, "format_versions": versions})
}

// HandleGetReport returns a stored diff report.
// @Summary Get Diff Report
// @Description Returns a diff report stored with save=true.
// @Tags diff
// @Produce json
// @Param id path string true "Report id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Report Not Found"
// @Router /diff/reports/{id} [get]
func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	report, lines, err := h.service.store.LoadDiff(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(fiber.Map{"report": report, "lines": lines})
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrScopeNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, formatversion.ErrInvalidFormatVersion),
		errors.Is(err, store.ErrUnknownKind),
		errors.Is(err, ErrUnknownExportFormat):
		status = fiber.StatusBadRequest
	}
	if status == fiber.StatusInternalServerError {
		l.Error("Diff request failed", zap.Error(err))
	} else {
		l.Warn("Diff request rejected", zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
