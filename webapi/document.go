package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/osuhe/remesas/pkg/config"
	docsvc "github.com/osuhe/remesas/pkg/service/document"
	"github.com/osuhe/remesas/webapi/common"
)

// DocumentRoutes registers the document upload pipeline endpoints.
//
// Routes:
//   - POST /documents        : Upload an identity document (public).
//   - POST /documents/delete : Remove a stored object by key (admin).
//   - GET  /admin/storage    : List stored objects (admin).
func DocumentRoutes(app *fiber.App, svc *docsvc.Service, cfg *config.App) {
	admin := AdminProtected(cfg.Admin.Token)
	app.Post("/documents", UploadDocument(svc))
	app.Post("/documents/delete", admin, DeleteDocument(svc))
	app.Get("/admin/storage", admin, ListStorage(svc))
}

// UploadDocumentRequest carries one base64-encoded document.
type UploadDocumentRequest struct {
	TransactionID string `json:"transactionId" validate:"required"`
	FileName      string `json:"fileName" validate:"required"`
	DataURI       string `json:"dataUri" validate:"required"`
	// Replace allows overwriting an existing key; fresh uploads leave it off.
	Replace bool `json:"replace"`
}

// UploadDocument decodes and stores a document, answering with the public
// URL. A storage outage answers with a tagged placeholder reference instead
// of an error so the client flow can finish.
func UploadDocument(svc *docsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[UploadDocumentRequest](c)
		if input == nil {
			return err
		}

		in := docsvc.UploadInput{
			TransactionID: input.TransactionID,
			FileName:      input.FileName,
			DataURI:       input.DataURI,
		}
		var res *docsvc.UploadResult
		if input.Replace {
			res, err = svc.Replace(c.Context(), in)
		} else {
			res, err = svc.Upload(c.Context(), in)
		}
		if err != nil {
			log.Warnf("Document upload rejected: %v", err)
			return common.ProblemFromError(c, "Document upload failed", err)
		}

		body := fiber.Map{
			"success":  true,
			"url":      res.URL,
			"fileName": res.FileName,
		}
		if res.Fallback {
			body["fallback"] = true
			body["reason"] = res.Reason
		}
		return c.JSON(body)
	}
}

// DeleteDocumentRequest identifies one stored object.
type DeleteDocumentRequest struct {
	FileName string `json:"fileName" validate:"required"`
}

// DeleteDocument removes a stored object by its full key.
func DeleteDocument(svc *docsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[DeleteDocumentRequest](c)
		if input == nil {
			return err
		}
		if err := svc.Delete(c.Context(), input.FileName); err != nil {
			return common.ProblemFromError(c, "Failed to delete document", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Document deleted", nil)
	}
}

// ListStorage returns stored objects newest first.
func ListStorage(svc *docsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 100)
		offset := c.QueryInt("offset", 0)

		objects, err := svc.List(c.Context(), limit, offset)
		if err != nil {
			log.Errorf("Failed to list storage: %v", err)
			return common.ProblemFromError(c, "Failed to list storage", err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"count":   len(objects),
			"files":   objects,
		})
	}
}
