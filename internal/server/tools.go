package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// commonProperties are the arguments shared by every tool. Each one falls
// back to the server configuration when omitted.
func commonProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"variant": map[string]interface{}{
			"type":        "string",
			"description": "What to look for: face_frontal or body. Defaults to the configured variant",
			"enum":        []string{"face_frontal", "body"},
		},
		"backend": map[string]interface{}{
			"type":        "string",
			"description": "Cascade backend: pigo or opencv. Defaults to the configured backend",
			"enum":        []string{"pigo", "opencv"},
		},
		"model": map[string]interface{}{
			"type":        "string",
			"description": "Optional path to the cascade model file. Defaults to the variant's model",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	archiveProps := commonProperties()
	archiveProps["archive_dir"] = map[string]interface{}{
		"type":        "string",
		"description": "Existing directory that receives the crops, the full frame and the manifest",
	}
	archiveProps["grayscale"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Archive crops as single-channel grayscale images. Default false",
		"default":     false,
	}
	archiveProps["annotate"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Draw detection boxes and a timestamp label on the full frame. Default true",
		"default":     true,
	}

	return []Tool{
		{
			Name:        "cascade_detect",
			Description: "Run the cascade classifier over an image and return the detected regions. The image is fitted within the maximum dimension first; regions are in fitted-frame coordinates. No files are written.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": commonProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "cascade_archive",
			Description: "Detect regions in an image, crop each one, and write the crops, the annotated full frame and a YAML manifest to an archive directory. Returns the written file paths.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": archiveProps,
				"required":   []string{"path", "archive_dir"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return resultResponse(req.ID, map[string]interface{}{
		"tools": GetToolDefinitions(),
	})
}
