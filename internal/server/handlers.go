package server

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/ironsheep/cascade-archive/internal/config"
	"github.com/ironsheep/cascade-archive/internal/detection"
	"github.com/ironsheep/cascade-archive/internal/extractor"
	"github.com/ironsheep/cascade-archive/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "cascade_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall runs the named tool and wraps its JSON result in MCP's
// text content format:
//
//	{"content": [{"type": "text", "text": "<JSON result>"}]}
//
// A failing tool yields error code -32000; the server keeps serving.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	var (
		result interface{}
		err    error
	)
	switch params.Name {
	case "cascade_detect":
		result, err = s.handleCascadeDetect(params.Arguments)
	case "cascade_archive":
		result, err = s.handleCascadeArchive(params.Arguments)
	default:
		err = fmt.Errorf("unknown tool: %s", params.Name)
	}
	if err != nil {
		log.Printf("%s failed: %v", params.Name, err)
		return errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	return resultResponse(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": string(text)},
		},
	})
}

// toolArgs are the arguments shared by both tools.
type toolArgs struct {
	Path       string `json:"path"`
	Variant    string `json:"variant"`
	Backend    string `json:"backend"`
	Model      string `json:"model"`
	ArchiveDir string `json:"archive_dir"`
	Grayscale  *bool  `json:"grayscale"`
	Annotate   *bool  `json:"annotate"`
}

// runConfig overlays the call's arguments on the server configuration.
func (s *Server) runConfig(a toolArgs) (config.Config, error) {
	if a.Path == "" {
		return config.Config{}, fmt.Errorf("missing required argument: path")
	}
	cfg := s.cfg
	cfg.ImagePath = a.Path
	if a.ArchiveDir != "" {
		cfg.ArchiveDir = a.ArchiveDir
	}
	if a.Variant != "" {
		cfg.Variant = detection.Variant(a.Variant)
	}
	if a.Backend != "" {
		cfg.Backend = a.Backend
	}
	if a.Model != "" {
		cfg.ModelPath = a.Model
	}
	if a.Grayscale != nil {
		cfg.ArchiveGrayscale = *a.Grayscale
	}
	if a.Annotate != nil {
		cfg.Annotate = *a.Annotate
	}
	// Per-step debug lines for every call would flood the server's stderr.
	cfg.Debug = false
	cfg.LogLevel = "info"
	return cfg, cfg.Validate()
}

func (s *Server) opener() extractor.Opener {
	if s.open != nil {
		return s.open
	}
	return detection.New
}

// detectResult is returned by cascade_detect.
type detectResult struct {
	Variant      string             `json:"variant"`
	Format       string             `json:"format"`
	SourceWidth  int                `json:"source_width"`
	SourceHeight int                `json:"source_height"`
	Width        int                `json:"width"`
	Height       int                `json:"height"`
	Count        int                `json:"count"`
	Regions      []detection.Region `json:"regions"`
}

func (s *Server) handleCascadeDetect(args json.RawMessage) (interface{}, error) {
	var a toolArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.runConfig(a)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(cfg.ImagePath)
	if err != nil {
		return nil, err
	}
	model, err := cfg.Model()
	if err != nil {
		return nil, err
	}
	det, err := s.opener()(cfg.Backend, model, cfg.Detector)
	if err != nil {
		return nil, err
	}
	defer det.Close()

	frame := imaging.Fit(img, cfg.MaxDimension)
	regions, err := det.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}
	if regions == nil {
		regions = []detection.Region{}
	}

	info := imaging.Describe(img, cfg.ImagePath)
	return &detectResult{
		Variant:      string(cfg.Variant),
		Format:       info.Format,
		SourceWidth:  info.Width,
		SourceHeight: info.Height,
		Width:        frame.Bounds().Dx(),
		Height:       frame.Bounds().Dy(),
		Count:        len(regions),
		Regions:      regions,
	}, nil
}

func (s *Server) handleCascadeArchive(args json.RawMessage) (interface{}, error) {
	var a toolArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ArchiveDir == "" {
		return nil, fmt.Errorf("missing required argument: archive_dir")
	}
	cfg, err := s.runConfig(a)
	if err != nil {
		return nil, err
	}
	return extractor.RunConfig(cfg, s.cache.Load, s.opener())
}
