package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tradedocs/internal/learning"
	"tradedocs/internal/model"
	"tradedocs/internal/service"
)

// ProcessLauncher starts background processing for an uploaded document.
// Implemented by service.Processor.
type ProcessLauncher interface {
	Launch(documentID string)
	Process(ctx context.Context, documentID string) error
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: parse, delegate, translate errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, reviewSvc service.ReviewService, engine *learning.Engine, proc ProcessLauncher) {
	// Serve the OpenAPI document and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoint: checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	registerDocumentRoutes(app, docSvc, proc)
	registerProcessingRoutes(app, reviewSvc, proc)
	registerLearningRoutes(app, engine)
}

func registerDocumentRoutes(app *fiber.App, docSvc service.DocumentService, proc ProcessLauncher) {
	// List documents with limit & offset
	app.Get("/documents", func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := docSvc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	})

	// Upload document (multipart/form-data, field name: file). Processing
	// starts in the background; the response returns before it finishes.
	app.Post("/documents", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		req := service.UploadRequest{
			Reader:             f,
			OriginalFilename:   fh.Filename,
			ContentType:        ct,
			Size:               fh.Size,
			SenderCompanyID:    c.FormValue("sender_company_id"),
			RecipientCompanyID: c.FormValue("recipient_company_id"),
			DocumentType:       model.DocumentType(c.FormValue("document_type")),
		}

		doc, err := docSvc.Upload(c.UserContext(), req)
		if err != nil {
			if errors.Is(err, service.ErrCompaniesRequired) {
				return writeError(c, fiber.StatusBadRequest, "COMPANIES_REQUIRED", "sender and recipient companies are required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		proc.Launch(doc.ID)

		return c.Status(fiber.StatusCreated).JSON(doc)
	})

	// Get document by ID
	app.Get("/documents/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docSvc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(doc)
	})

	// Presigned download URL
	app.Get("/documents/:id/download", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := docSvc.DownloadURL(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"url": url})
	})

	// Delete document by ID
	app.Delete("/documents/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := docSvc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func registerProcessingRoutes(app *fiber.App, reviewSvc service.ReviewService, proc ProcessLauncher) {
	// Re-run the pipeline synchronously, used to retry stalled documents.
	app.Post("/processing/:id/process", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := proc.Process(c.UserContext(), id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusUnprocessableEntity, "PROCESSING_FAILED", "document could not be processed")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// Processed document with extracted fields and translation suggestions
	app.Get("/processing/:id/review", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		review, err := reviewSvc.DocumentForReview(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			case errors.Is(err, service.ErrNotProcessed):
				return writeError(c, fiber.StatusConflict, "NOT_PROCESSED", "document is not processed yet")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(review)
	})

	// Reviewer-confirmed corrections; product fields become manual mappings
	app.Post("/processing/:id/review", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var body struct {
			Reviewer    string                    `json:"reviewer"`
			Corrections []service.FieldCorrection `json:"corrections"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if len(body.Corrections) == 0 {
			return writeError(c, fiber.StatusBadRequest, "CORRECTIONS_REQUIRED", "at least one correction is required")
		}

		review, err := reviewSvc.ApplyCorrections(c.UserContext(), id, body.Reviewer, body.Corrections)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			case errors.Is(err, service.ErrNotProcessed):
				return writeError(c, fiber.StatusConflict, "NOT_PROCESSED", "document is not processed yet")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(review)
	})
}

func registerLearningRoutes(app *fiber.App, engine *learning.Engine) {
	companyPair := func(c *fiber.Ctx) (string, string, bool) {
		from := c.Query("from_company_id")
		to := c.Query("to_company_id")
		return from, to, from != "" && to != ""
	}

	// Translate a product code for a company pair
	app.Get("/learning/suggest", func(c *fiber.Ctx) error {
		from, to, ok := companyPair(c)
		code := c.Query("product_code")
		if !ok || code == "" {
			return writeError(c, fiber.StatusBadRequest, "PARAMS_REQUIRED", "from_company_id, to_company_id and product_code are required")
		}
		sugg, err := engine.Suggest(c.UserContext(), from, to, code)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(sugg)
	})

	// Rebuild the pattern model for a company pair
	app.Post("/learning/train", func(c *fiber.Ctx) error {
		var body struct {
			FromCompanyID string `json:"from_company_id"`
			ToCompanyID   string `json:"to_company_id"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if body.FromCompanyID == "" || body.ToCompanyID == "" {
			return writeError(c, fiber.StatusBadRequest, "PARAMS_REQUIRED", "from_company_id and to_company_id are required")
		}
		res, err := engine.Train(c.UserContext(), body.FromCompanyID, body.ToCompanyID)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	})

	// Accept or reject a suggested mapping. Adjustment is optional and
	// defaults to the engine's standard step.
	app.Post("/learning/feedback", func(c *fiber.Ctx) error {
		var body struct {
			MappingID  string  `json:"mapping_id"`
			Accepted   bool    `json:"accepted"`
			Adjustment float64 `json:"adjustment"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if body.MappingID == "" {
			return writeError(c, fiber.StatusBadRequest, "MAPPING_ID_REQUIRED", "mapping_id is required")
		}
		res, err := engine.ApplyFeedback(c.UserContext(), body.MappingID, body.Accepted, body.Adjustment)
		if err != nil {
			if errors.Is(err, learning.ErrMappingNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "mapping not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	})

	// Learning statistics for a company pair
	app.Get("/learning/stats", func(c *fiber.Ctx) error {
		from, to, ok := companyPair(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "PARAMS_REQUIRED", "from_company_id and to_company_id are required")
		}
		stats, err := engine.Stats(c.UserContext(), from, to)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(stats)
	})

	// Low-confidence mappings queued for review
	app.Get("/learning/review-queue", func(c *fiber.Ctx) error {
		from, to, ok := companyPair(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "PARAMS_REQUIRED", "from_company_id and to_company_id are required")
		}
		items, err := engine.ReviewQueue(c.UserContext(), from, to)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"data": items, "total": len(items)})
	})
}
