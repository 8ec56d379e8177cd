package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/bank-statement-processor/internal/logger"
	"github.com/insightdelivered/bank-statement-processor/internal/models"
	"github.com/insightdelivered/bank-statement-processor/internal/writer"
)

// Processor turns PDF bytes into a result. It never returns nil.
type Processor interface {
	Process(data []byte, filename string) *models.Result
}

// ProcessRequest is the JSON body of /api/process-pdf.
type ProcessRequest struct {
	PDFData  string `json:"pdf_data"`
	Filename string `json:"filename"`
}

// ErrorResponse is the body of every rejected request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HealthResponse is the body of /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	processor Processor
	version   string
}

// NewHandler returns handlers processing documents with p.
func NewHandler(p Processor, version string) *Handler {
	return &Handler{processor: p, version: version}
}

// HandleHealth reports liveness and the running version.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok", Version: h.version})
}

// HandleProcessPDF processes a base64-encoded PDF sent as JSON. The
// result is returned with status 200 whether or not processing succeeded.
func (h *Handler) HandleProcessPDF(c *fiber.Ctx) error {
	var req ProcessRequest
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Invalid JSON body")
		}
	}
	if strings.TrimSpace(req.PDFData) == "" {
		return writeError(c, fiber.StatusBadRequest, "No PDF data provided")
	}

	data, err := decodePDFData(req.PDFData)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid base64 PDF data: %v", err))
	}

	result := h.processor.Process(data, req.Filename)
	log := logger.FromContext(c.UserContext())
	log.Debug().
		Int("bytes", len(data)).
		Bool("success", result.Success).
		Msg("pdf processed")

	return c.JSON(result)
}

// HandleConvert processes a PDF uploaded as multipart form field "file".
// With format=csv a successful result is returned as a CSV attachment;
// header=false drops the metadata rows.
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}

	// Validate it's a PDF
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Failed to read uploaded file.")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Failed to read uploaded file.")
	}

	result := h.processor.Process(data, fh.Filename)

	if strings.EqualFold(c.FormValue("format"), writer.FormatCSV) && result.Success {
		w := &writer.CSVWriter{IncludeHeader: c.FormValue("header") != "false"}
		c.Attachment(strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename)) + ".csv")
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		if err := w.Write(c, result); err != nil {
			return fmt.Errorf("CSV generation failed: %w", err)
		}
		return nil
	}

	return c.JSON(result)
}

// methodNotAllowed answers every method an API route does not serve.
// Plain OPTIONS requests (not CORS preflight) get an empty 204.
func methodNotAllowed(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodOptions {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return writeError(c, fiber.StatusMethodNotAllowed, "Method not allowed")
}

// decodePDFData accepts plain base64 or a data URL.
func decodePDFData(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	s = strings.Join(strings.Fields(s), "")
	return base64.StdEncoding.DecodeString(s)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Success: false, Error: msg})
}
