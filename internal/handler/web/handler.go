package web

import (
	"embed"
	"html/template"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/provider-directory/internal/model"
	providerService "github.com/jwalitptl/provider-directory/internal/service/provider"
	"github.com/jwalitptl/provider-directory/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded pages. Install them with
// gin.Engine.SetHTMLTemplate before serving.
func Templates() *template.Template {
	return template.Must(template.New("").
		Funcs(template.FuncMap{"deref": deref}).
		ParseFS(templateFS, "templates/*.html"))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type page struct {
	Title      string
	Providers  []*model.Provider
	Provider   *model.Provider
	IDs        []string
	ProviderID string
	Name       string
	Error      string
}

type Handler struct {
	service providerService.ProviderServicer
}

func NewHandler(service providerService.ProviderServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	ui := r.Group("/ui")
	{
		ui.GET("/", h.Index)
		ui.GET("/viewall", h.ViewAll)
		ui.GET("/view", h.View)
		ui.GET("/create", h.Create)
		ui.GET("/update", h.Update)
		ui.GET("/delete", h.Delete)
	}
}

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", page{Title: "Provider Directory"})
}

func (h *Handler) ViewAll(c *gin.Context) {
	providers, err := h.sorted(c)
	if err != nil {
		h.fail(c, "viewall.html", page{Title: "All providers"}, err)
		return
	}
	c.HTML(http.StatusOK, "viewall.html", page{Title: "All providers", Providers: providers})
}

// View shows the lookup form, and the result once a parameter is given.
func (h *Handler) View(c *gin.Context) {
	p := page{
		Title:      "Find a provider",
		ProviderID: c.Query("providerID"),
		Name:       c.Query("name"),
	}
	if p.ProviderID == "" && p.Name == "" {
		c.HTML(http.StatusOK, "view.html", p)
		return
	}

	provider, err := h.service.View(c.Request.Context(), p.ProviderID, p.Name)
	if err != nil {
		h.fail(c, "view.html", p, err)
		return
	}
	p.Provider = provider
	c.HTML(http.StatusOK, "view.html", p)
}

// Create renders the form with an identifier that is unused at render time.
func (h *Handler) Create(c *gin.Context) {
	id, err := h.service.NewProviderID(c.Request.Context())
	if err != nil {
		h.fail(c, "create.html", page{Title: "Create a provider"}, err)
		return
	}
	c.HTML(http.StatusOK, "create.html", page{Title: "Create a provider", ProviderID: id})
}

func (h *Handler) Update(c *gin.Context) {
	h.idForm(c, "update.html", "Update a provider")
}

func (h *Handler) Delete(c *gin.Context) {
	h.idForm(c, "delete.html", "Delete a provider")
}

func (h *Handler) idForm(c *gin.Context, name, title string) {
	providers, err := h.sorted(c)
	if err != nil {
		h.fail(c, name, page{Title: title}, err)
		return
	}
	ids := make([]string, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ProviderID)
	}
	c.HTML(http.StatusOK, name, page{Title: title, IDs: ids})
}

func (h *Handler) sorted(c *gin.Context) ([]*model.Provider, error) {
	all, err := h.service.ViewAll(c.Request.Context())
	if err != nil {
		return nil, err
	}
	providers := make([]*model.Provider, 0, len(all))
	for _, p := range all {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool {
		return providers[i].ProviderID < providers[j].ProviderID
	})
	return providers, nil
}

func (h *Handler) fail(c *gin.Context, name string, p page, err error) {
	appErr := errors.As(err)
	if appErr.Kind == errors.KindInternal {
		_ = c.Error(err)
	}
	p.Error = appErr.Message
	c.HTML(appErr.HTTPStatus(), name, p)
}
