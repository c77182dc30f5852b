package routes

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/loan-mgt/hf-lora-loader/internal/ensure"
	"github.com/loan-mgt/hf-lora-loader/internal/logging"
	"github.com/loan-mgt/hf-lora-loader/internal/server"
)

// ensureRequest 是 /v1/lora/ensure 的 JSON 入参，字段语义与 ensure.Request 对齐。
type ensureRequest struct {
	RepoID         string `json:"repo_id"`
	Filename       string `json:"filename"`
	Revision       string `json:"revision"`
	SaveAs         string `json:"save_as"`
	Token          string `json:"token"`
	ForceDownload  bool   `json:"force_download"`
	ResumeDownload *bool  `json:"resume_download"`
	ExpectedSHA256 string `json:"expected_sha256"`
	LoraRoot       string `json:"lora_root"`
}

// RegisterEnsureRoutes 暴露 ensure 操作：确保权重文件缓存在本地并返回相对路径。
func RegisterEnsureRoutes(app *fiber.App, svc *ensure.Service, logger *logrus.Logger) {
	if app == nil || svc == nil {
		return
	}

	app.Post("/v1/lora/ensure", func(c fiber.Ctx) error {
		var req ensureRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "invalid_body",
				"detail": err.Error(),
			})
		}

		rel, err := svc.Ensure(c.Context(), ensure.Request{
			RepoID:         req.RepoID,
			Filename:       req.Filename,
			Revision:       req.Revision,
			SaveAs:         req.SaveAs,
			Token:          req.Token,
			ForceDownload:  req.ForceDownload,
			ResumeDownload: req.ResumeDownload,
			ExpectedSHA256: req.ExpectedSHA256,
			LoraRoot:       req.LoraRoot,
		})
		if err != nil {
			return renderEnsureError(c, logger, req, err)
		}

		return c.JSON(fiber.Map{"path": rel})
	})
}

// renderEnsureError 把错误分级映射为 HTTP 状态码，校验失败与传输失败严格区分。
func renderEnsureError(c fiber.Ctx, logger *logrus.Logger, req ensureRequest, err error) error {
	status := fiber.StatusInternalServerError
	code := "internal_error"

	var invalid ensure.InvalidArgumentError
	var dlErr *ensure.DownloadError
	switch {
	case errors.As(err, &invalid):
		status = fiber.StatusBadRequest
		code = "invalid_argument"
	case errors.As(err, &dlErr):
		status = fiber.StatusBadGateway
		code = "download_failed"
	case errors.Is(err, ensure.ErrChecksumMismatch):
		status = fiber.StatusUnprocessableEntity
		code = "checksum_mismatch"
	case errors.Is(err, ensure.ErrNoLoraRoot), errors.Is(err, ensure.ErrNoDownloader):
		code = "configuration_error"
	}

	if logger != nil {
		fields := logging.EnsureFields(req.RepoID, req.Filename, false)
		fields["action"] = "ensure_api"
		fields["error"] = code
		fields["request_id"] = server.RequestID(c)
		logger.WithFields(fields).Error(err.Error())
	}

	return c.Status(status).JSON(fiber.Map{
		"error":  code,
		"detail": err.Error(),
	})
}
