package api

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clipchat/config"
	"clipchat/media"
	"clipchat/ops"
)

// RegisterProcessRoutes registers the media processing endpoints.
func RegisterProcessRoutes(g *gin.RouterGroup, d *Deps) {
	g.POST("/process", d.handleProcess)
	g.POST("/transition", d.handleTransition)
}

// handleProcess runs one operation. Multipart bodies are staged and run
// buffered; any other body is piped straight through the engine when the
// operation supports it.
func (d *Deps) handleProcess(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		d.processMultipart(c, c.Query("operation"))
		return
	}
	d.processStream(c)
}

// handleTransition is the multi-clip entry point; the operation is fixed and
// everything else works like /process.
func (d *Deps) handleTransition(c *gin.Context) {
	d.processMultipart(c, "transition")
}

// processStream pipes the raw request body through the engine. The operation
// and arguments ride in the query string since the body is the media itself.
func (d *Deps) processStream(c *gin.Context) {
	opName := c.Query("operation")
	if opName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "operation query parameter is required"})
		return
	}
	args, err := decodeArgs(c.Query("args"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "args must be a JSON object"})
		return
	}

	plan, err := d.Pipeline.PlanStream(opName, args)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), d.Cfg.JobTimeout)
	defer cancel()

	// The Content-Type is committed before the engine starts; if the run
	// fails after bytes went out, the response is already underway and can
	// only be truncated.
	c.Header("Content-Type", config.ContentType(plan.Format))
	c.Status(http.StatusOK)
	if err := d.Pipeline.RunStream(ctx, plan, c.Request.Body, c.Writer); err != nil {
		if c.Writer.Written() && c.Writer.Size() > 0 {
			_ = c.Error(err)
			return
		}
		writeError(c, err)
	}
}

// processMultipart stages the uploaded files and runs the job buffered.
func (d *Deps) processMultipart(c *gin.Context, opName string) {
	if opName == "" {
		opName = c.PostForm("operation")
	}
	if opName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "operation form field is required"})
		return
	}
	args, err := decodeArgs(c.PostForm("args"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "args must be a JSON object"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart body: " + err.Error()})
		return
	}

	req := &media.Request{Op: opName, Args: args}
	files := form.File["file"]
	if len(files) == 0 {
		files = form.File["files"]
	}
	var open []multipart.File
	defer func() {
		for _, f := range open {
			f.Close()
		}
	}()
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload: " + fh.Filename})
			return
		}
		open = append(open, f)
		req.Inputs = append(req.Inputs, media.Input{Reader: f, Filename: fh.Filename})
	}

	if req.Subtitle, err = textTrack(form, "subtitle"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Translation, err = textTrack(form, "translation"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), d.Cfg.JobTimeout)
	defer cancel()

	res, err := d.Pipeline.Process(ctx, req)
	if err != nil {
		writeError(c, err)
		return
	}
	defer res.Cleanup()

	if res.Info != nil {
		c.JSON(http.StatusOK, res.Info)
		return
	}
	c.Header("Content-Type", config.ContentType(res.Format))
	c.Header("Content-Disposition", `attachment; filename="output.`+res.Format+`"`)
	c.File(res.Path)
}

// decodeArgs parses the optional JSON argument bag.
func decodeArgs(raw string) (ops.Args, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var args ops.Args
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	return args, nil
}

// textTrack reads one optional subtitle upload into memory. Tracks are small
// text files; anything else has no business here.
func textTrack(form *multipart.Form, field string) (*media.TextTrack, error) {
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	fh := headers[0]
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	const maxTrackBytes = 1 << 20
	content, err := io.ReadAll(io.LimitReader(f, maxTrackBytes))
	if err != nil {
		return nil, err
	}
	return &media.TextTrack{Name: fh.Filename, Content: string(content)}, nil
}
