package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/loan-mgt/hf-lora-loader/internal/folders"
	"github.com/loan-mgt/hf-lora-loader/internal/node"
	"github.com/loan-mgt/hf-lora-loader/internal/version"
)

// RegisterDiagnosticsRoutes 暴露 /-/ 前缀的诊断接口：健康检查、版本与节点注册表。
func RegisterDiagnosticsRoutes(app *fiber.App, reg *folders.Registry) {
	if app == nil {
		return
	}

	app.Get("/-/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/-/version", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"version": version.Full()})
	})

	app.Get("/-/nodes", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"nodes":   encodeNodes(node.List()),
			"folders": encodeFolders(reg),
		})
	})
}

type nodePayload struct {
	Key         string        `json:"key"`
	DisplayName string        `json:"display_name"`
	Category    string        `json:"category"`
	Description string        `json:"description"`
	Inputs      inputsPayload `json:"inputs"`
}

type paramPayload struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default string `json:"default,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
}

type inputsPayload struct {
	Required []paramPayload `json:"required"`
	Optional []paramPayload `json:"optional"`
}

func encodeNodes(nodes []node.Metadata) []nodePayload {
	if len(nodes) == 0 {
		return nil
	}
	result := make([]nodePayload, 0, len(nodes))
	for _, meta := range nodes {
		result = append(result, nodePayload{
			Key:         meta.Key,
			DisplayName: meta.DisplayName,
			Category:    meta.Category,
			Description: meta.Description,
			Inputs: inputsPayload{
				Required: encodeParams(meta.Inputs.Required),
				Optional: encodeParams(meta.Inputs.Optional),
			},
		})
	}
	return result
}

func encodeParams(params []node.Param) []paramPayload {
	if len(params) == 0 {
		return nil
	}
	result := make([]paramPayload, 0, len(params))
	for _, p := range params {
		result = append(result, paramPayload{
			Name:    p.Name,
			Type:    p.Type,
			Default: p.Default,
			Tooltip: p.Tooltip,
		})
	}
	return result
}

func encodeFolders(reg *folders.Registry) map[string][]string {
	if reg == nil {
		return nil
	}
	result := make(map[string][]string)
	for _, category := range reg.Categories() {
		result[category] = reg.Paths(category)
	}
	return result
}
