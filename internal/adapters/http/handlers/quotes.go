package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotesync/internal/adapters/transfer"
	"github.com/jsamuelsen/quotesync/internal/app"
	"github.com/jsamuelsen/quotesync/internal/domain"
)

// DefaultMaxImportBytes caps an import body when no limit is configured.
const DefaultMaxImportBytes int64 = 1 << 20

// QuoteHandler serves the collection endpoints.
type QuoteHandler struct {
	service        *app.QuoteService
	maxImportBytes int64
}

// QuoteHandlerOption configures a QuoteHandler.
type QuoteHandlerOption func(*QuoteHandler)

// WithMaxImportBytes caps the import body. Non-positive values keep the
// default.
func WithMaxImportBytes(n int64) QuoteHandlerOption {
	return func(h *QuoteHandler) {
		if n > 0 {
			h.maxImportBytes = n
		}
	}
}

// NewQuoteHandler creates a quote handler.
func NewQuoteHandler(service *app.QuoteService, opts ...QuoteHandlerOption) *QuoteHandler {
	h := &QuoteHandler{service: service, maxImportBytes: DefaultMaxImportBytes}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// List handles GET /quotes. The category filter is optional; "All" or an
// empty value lists everything.
func (h *QuoteHandler) List(c *gin.Context) {
	var req dto.ListQuotesRequest
	if !dto.BindQuery(c, &req) {
		return
	}

	quotes := h.service.List(c.Request.Context(), req.Category)

	page, err := dto.Paginate(quotes, req.PageRequest, dto.NewQuoteResponse)
	if err != nil {
		dto.AbortWithCode(c, dto.ErrorCodeBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, page)
}

// Create handles POST /quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if !dto.BindJSON(c, &req) {
		return
	}

	q, err := h.service.Add(c.Request.Context(), app.AddQuoteInput{Text: req.Text, Category: req.Category})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuoteResponse(q))
}

// Reset handles DELETE /quotes by restoring the default collection.
func (h *QuoteHandler) Reset(c *gin.Context) {
	quotes := h.service.Reset(c.Request.Context())
	c.JSON(http.StatusOK, dto.NewResetResponse(quotes))
}

// Random handles GET /quotes/random.
func (h *QuoteHandler) Random(c *gin.Context) {
	var req dto.RandomQuoteRequest
	if !dto.BindQuery(c, &req) {
		return
	}

	q, err := h.service.Random(c.Request.Context(), req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(q))
}

// Categories handles GET /categories. The list starts with "All".
func (h *QuoteHandler) Categories(c *gin.Context) {
	categories := append([]string{domain.CategoryAll}, h.service.Categories(c.Request.Context())...)
	c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: categories})
}

// Export handles GET /export as a downloadable JSON file.
func (h *QuoteHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := transfer.Export(&buf, h.service.Export(c.Request.Context())); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+transfer.ExportFileName+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

// Import handles POST /import. The body is a JSON array of quotes.
func (h *QuoteHandler) Import(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			dto.AbortWithCode(c, dto.ErrorCodeTooLarge, fmt.Sprintf("import body exceeds %d bytes", tooLarge.Limit))
			return
		}

		dto.AbortWithCode(c, dto.ErrorCodeBadRequest, "could not read request body")
		return
	}

	drafts, err := transfer.ParseImport(body)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	res, err := h.service.Import(c.Request.Context(), drafts)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ImportResponse{Imported: res.Imported, Skipped: res.Skipped})
}

// GetPreferences handles GET /preferences.
func (h *QuoteHandler) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewPreferencesResponse(h.service.Preferences(c.Request.Context())))
}

// UpdatePreferences handles PUT /preferences.
func (h *QuoteHandler) UpdatePreferences(c *gin.Context) {
	var req dto.SelectCategoryRequest
	if !dto.BindJSON(c, &req) {
		return
	}

	prefs, err := h.service.SelectCategory(c.Request.Context(), req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPreferencesResponse(prefs))
}

// RegisterRoutes registers the collection routes on rg.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.List)
	quotes.POST("", h.Create)
	quotes.DELETE("", h.Reset)
	quotes.GET("/random", h.Random)

	rg.GET("/categories", h.Categories)
	rg.GET("/export", h.Export)
	rg.POST("/import", h.Import)
	rg.GET("/preferences", h.GetPreferences)
	rg.PUT("/preferences", h.UpdatePreferences)
}
