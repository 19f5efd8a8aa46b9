package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clipchat/config"
	"clipchat/media"
	"clipchat/ops"
)

// RegisterInfoRoutes registers the discovery and introspection endpoints.
func RegisterInfoRoutes(g *gin.RouterGroup, d *Deps) {
	g.GET("/operations", d.handleListOperations)
	g.GET("/supported-formats", handleSupportedFormats)
	g.POST("/probe", d.handleProbe)
}

// OperationInfo describes one operation to API clients.
type OperationInfo struct {
	Name        string      `json:"name"`
	Kind        ops.Kind    `json:"kind"`
	Description string      `json:"description"`
	Params      []ParamInfo `json:"params,omitempty"`
	MinInputs   int         `json:"min_inputs"`
	MaxInputs   int         `json:"max_inputs"`
	Format      string      `json:"default_format"`
	Streamable  bool        `json:"streamable"`
}

type ParamInfo struct {
	Name        string        `json:"name"`
	Type        ops.ParamType `json:"type"`
	Required    bool          `json:"required"`
	Description string        `json:"description"`
	Enum        []string      `json:"enum,omitempty"`
	Default     any           `json:"default,omitempty"`
}

func (d *Deps) handleListOperations(c *gin.Context) {
	var out []OperationInfo
	for _, name := range d.Registry.Names() {
		op, err := d.Registry.Resolve(name)
		if err != nil {
			continue
		}
		min, max := op.Inputs()
		info := OperationInfo{
			Name:        op.Name,
			Kind:        op.Kind,
			Description: op.Description,
			MinInputs:   min,
			MaxInputs:   max,
			Format:      op.DefaultFormat,
			Streamable:  op.Mode == ops.ModeStream,
		}
		for _, p := range op.Params {
			info.Params = append(info.Params, ParamInfo{
				Name:        p.Name,
				Type:        p.Type,
				Required:    p.Required,
				Description: p.Description,
				Enum:        p.Enum,
				Default:     p.Default,
			})
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, gin.H{"operations": out})
}

func handleSupportedFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"video": config.FormatsByKind("video"),
		"audio": config.FormatsByKind("audio"),
		"image": config.FormatsByKind("image"),
	})
}

// handleProbe reports a file's streams and container without processing it.
func (d *Deps) handleProbe(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload: " + fh.Filename})
		return
	}
	defer f.Close()

	info, err := d.Pipeline.Inspect(c.Request.Context(), media.Input{Reader: f, Filename: fh.Filename})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
