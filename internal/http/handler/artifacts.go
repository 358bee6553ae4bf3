package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"docgen/internal/service"
)

const (
	defaultLinkTTL = 15 * time.Minute
	maxLinkTTL     = 7 * 24 * time.Hour
)

// withArtifacts answers 503 when no artifact store is configured.
func withArtifacts(svc service.ArtifactService, h func(*fiber.Ctx, service.ArtifactService) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if svc == nil {
			return respondError(c, service.ErrStorageUnavailable)
		}
		return h(c, svc)
	}
}

func artifactID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrIDRequired
	}
	return id, nil
}

// ListArtifacts godoc
// @Summary List stored documents, newest first
// @Tags artifacts
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} service.ArtifactListResult
// @Failure 400 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /artifacts [get]
func ListArtifacts(svc service.ArtifactService) fiber.Handler {
	return withArtifacts(svc, func(c *fiber.Ctx, svc service.ArtifactService) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	})
}

// GetArtifact godoc
// @Summary Stored document metadata
// @Tags artifacts
// @Produce json
// @Param id path int true "Artifact id"
// @Success 200 {object} model.Artifact
// @Failure 404 {object} errorPayload
// @Router /artifacts/{id} [get]
func GetArtifact(svc service.ArtifactService) fiber.Handler {
	return withArtifacts(svc, func(c *fiber.Ctx, svc service.ArtifactService) error {
		id, err := artifactID(c)
		if err != nil {
			return respondError(c, err)
		}
		a, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(a)
	})
}

// DownloadArtifact godoc
// @Summary Stored PDF, as an attachment or inline
// @Tags artifacts
// @Produce application/pdf
// @Param id path int true "Artifact id"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /artifacts/{id}/download [get]
// @Router /artifacts/{id}/view [get]
func DownloadArtifact(svc service.ArtifactService, inline bool) fiber.Handler {
	return withArtifacts(svc, func(c *fiber.Ctx, svc service.ArtifactService) error {
		id, err := artifactID(c)
		if err != nil {
			return respondError(c, err)
		}
		rc, a, err := svc.Open(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}

		disposition := "attachment"
		if inline {
			disposition = "inline"
		}
		c.Set(fiber.HeaderContentDisposition, contentDisposition(disposition, a.Filename))
		c.Type("pdf")
		// fasthttp closes the stream once it has been written.
		return c.SendStream(rc, int(a.Size))
	})
}

// ArtifactLink godoc
// @Summary Pre-signed download URL
// @Tags artifacts
// @Produce json
// @Param id path int true "Artifact id"
// @Param ttl query int false "Validity in seconds (default 900, max 604800)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errorPayload
// @Router /artifacts/{id}/link [get]
func ArtifactLink(svc service.ArtifactService) fiber.Handler {
	return withArtifacts(svc, func(c *fiber.Ctx, svc service.ArtifactService) error {
		id, err := artifactID(c)
		if err != nil {
			return respondError(c, err)
		}
		ttl := defaultLinkTTL
		if v := c.Query("ttl"); v != "" {
			secs, err := strconv.Atoi(v)
			if err != nil || secs <= 0 || time.Duration(secs)*time.Second > maxLinkTTL {
				return writeError(c, fiber.StatusBadRequest, "INVALID_TTL", "invalid ttl")
			}
			ttl = time.Duration(secs) * time.Second
		}

		u, err := svc.Link(c.UserContext(), id, ttl)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"url":        u,
			"expires_at": time.Now().Add(ttl).UTC(),
		})
	})
}

// DeleteArtifact godoc
// @Summary Delete a stored document
// @Tags artifacts
// @Param id path int true "Artifact id"
// @Success 204 {string} string "No Content"
// @Failure 404 {object} errorPayload
// @Router /artifacts/{id} [delete]
func DeleteArtifact(svc service.ArtifactService) fiber.Handler {
	return withArtifacts(svc, func(c *fiber.Ctx, svc service.ArtifactService) error {
		id, err := artifactID(c)
		if err != nil {
			return respondError(c, err)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
