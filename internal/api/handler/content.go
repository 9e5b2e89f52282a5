package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"flightclaim/backend/internal/models"
	"flightclaim/backend/internal/storage"
	"flightclaim/backend/internal/validate"

	"github.com/gin-gonic/gin"
)

// createRecord binds a new CMS record, lets check normalise it and stores it.
func createRecord[T any](h *Handler, c *gin.Context, check func(*T) error, create func(context.Context, *T) error) {
	var row T
	if err := c.ShouldBindJSON(&row); err != nil {
		h.respondError(c, invalidInput(err))
		return
	}
	if err := check(&row); err != nil {
		h.respondError(c, invalidInput(err))
		return
	}
	if err := create(c.Request.Context(), &row); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func patchRecord[T any](h *Handler, c *gin.Context, allowed map[string]fieldKind, update func(context.Context, uint, storage.Fields) (*T, error)) {
	id, err := paramID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, invalidInput(err))
		return
	}
	fields, err := pickFields(body, allowed)
	if err != nil {
		h.respondError(c, invalidInput(err))
		return
	}
	row, err := update(c.Request.Context(), id, fields)
	if err != nil {
		h.respondError(c, err, "id", id)
		return
	}
	c.JSON(http.StatusOK, row)
}

func deleteRecord(h *Handler, c *gin.Context, del func(context.Context, uint) error) {
	id, err := paramID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := del(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "id", id)
		return
	}
	c.Status(http.StatusNoContent)
}

func listRecords[T any](h *Handler, c *gin.Context, list func() ([]T, error)) {
	rows, err := list()
	if err != nil {
		h.respondError(c, err)
		return
	}
	if rows == nil {
		rows = []T{}
	}
	c.JSON(http.StatusOK, rows)
}

func getRecord[T any](h *Handler, c *gin.Context, get func() (*T, error)) {
	row, err := get()
	if err != nil {
		h.respondError(c, err, "slug", c.Param("slug"))
		return
	}
	c.JSON(http.StatusOK, row)
}

func checkPublishable(slug, title string, status *models.ContentStatus, publishedAt **time.Time) error {
	if err := validate.Slug(slug); err != nil {
		return err
	}
	if strings.TrimSpace(title) == "" {
		return errors.New("title required")
	}
	if *status == "" {
		*status = models.ContentDraft
	}
	if !status.Valid() {
		return errors.New("status must be draft or published")
	}
	if publishedAt != nil && *status == models.ContentPublished && *publishedAt == nil {
		now := time.Now().UTC()
		*publishedAt = &now
	}
	return nil
}

// Blog

func (h *Handler) ListBlogPosts(c *gin.Context) {
	listRecords(h, c, func() ([]models.BlogPost, error) {
		return h.Storage.ListBlogPosts(c.Request.Context(), true)
	})
}

func (h *Handler) AdminListBlogPosts(c *gin.Context) {
	listRecords(h, c, func() ([]models.BlogPost, error) {
		return h.Storage.ListBlogPosts(c.Request.Context(), false)
	})
}

func (h *Handler) GetBlogPost(c *gin.Context) {
	getRecord(h, c, func() (*models.BlogPost, error) {
		return h.Storage.GetBlogPostBySlug(c.Request.Context(), c.Param("slug"), true)
	})
}

func (h *Handler) CreateBlogPost(c *gin.Context) {
	createRecord(h, c, func(p *models.BlogPost) error {
		p.ID = 0
		return checkPublishable(p.Slug, p.Title, &p.Status, &p.PublishedAt)
	}, h.Storage.CreateBlogPost)
}

func (h *Handler) UpdateBlogPost(c *gin.Context) {
	patchRecord(h, c, blogFields, h.Storage.UpdateBlogPost)
}

func (h *Handler) DeleteBlogPost(c *gin.Context) {
	deleteRecord(h, c, h.Storage.DeleteBlogPost)
}

// Pages

func (h *Handler) ListPages(c *gin.Context) {
	listRecords(h, c, func() ([]models.PageContent, error) {
		return h.Storage.ListPages(c.Request.Context(), true)
	})
}

func (h *Handler) AdminListPages(c *gin.Context) {
	listRecords(h, c, func() ([]models.PageContent, error) {
		return h.Storage.ListPages(c.Request.Context(), false)
	})
}

func (h *Handler) GetPage(c *gin.Context) {
	getRecord(h, c, func() (*models.PageContent, error) {
		return h.Storage.GetPageBySlug(c.Request.Context(), c.Param("slug"), true)
	})
}

func (h *Handler) CreatePage(c *gin.Context) {
	createRecord(h, c, func(p *models.PageContent) error {
		p.ID = 0
		return checkPublishable(p.Slug, p.Title, &p.Status, nil)
	}, h.Storage.CreatePage)
}

func (h *Handler) UpdatePage(c *gin.Context) {
	patchRecord(h, c, pageFields, h.Storage.UpdatePage)
}

func (h *Handler) DeletePage(c *gin.Context) {
	deleteRecord(h, c, h.Storage.DeletePage)
}

// Partners

func (h *Handler) ListPartners(c *gin.Context) {
	listRecords(h, c, func() ([]models.Partner, error) {
		return h.Storage.ListPartners(c.Request.Context(), true)
	})
}

func (h *Handler) AdminListPartners(c *gin.Context) {
	listRecords(h, c, func() ([]models.Partner, error) {
		return h.Storage.ListPartners(c.Request.Context(), false)
	})
}

func (h *Handler) CreatePartner(c *gin.Context) {
	createRecord(h, c, func(p *models.Partner) error {
		p.ID = 0
		return validate.Required("name", p.Name)
	}, h.Storage.CreatePartner)
}

func (h *Handler) UpdatePartner(c *gin.Context) {
	patchRecord(h, c, partnerFields, h.Storage.UpdatePartner)
}

func (h *Handler) DeletePartner(c *gin.Context) {
	deleteRecord(h, c, h.Storage.DeletePartner)
}

// Press

func (h *Handler) ListPressReleases(c *gin.Context) {
	listRecords(h, c, func() ([]models.PressRelease, error) {
		return h.Storage.ListPressReleases(c.Request.Context(), true)
	})
}

func (h *Handler) AdminListPressReleases(c *gin.Context) {
	listRecords(h, c, func() ([]models.PressRelease, error) {
		return h.Storage.ListPressReleases(c.Request.Context(), false)
	})
}

func (h *Handler) GetPressRelease(c *gin.Context) {
	getRecord(h, c, func() (*models.PressRelease, error) {
		return h.Storage.GetPressReleaseBySlug(c.Request.Context(), c.Param("slug"), true)
	})
}

func (h *Handler) CreatePressRelease(c *gin.Context) {
	createRecord(h, c, func(p *models.PressRelease) error {
		p.ID = 0
		return checkPublishable(p.Slug, p.Title, &p.Status, &p.PublishedAt)
	}, h.Storage.CreatePressRelease)
}

func (h *Handler) UpdatePressRelease(c *gin.Context) {
	patchRecord(h, c, pressFields, h.Storage.UpdatePressRelease)
}

func (h *Handler) DeletePressRelease(c *gin.Context) {
	deleteRecord(h, c, h.Storage.DeletePressRelease)
}

// Team

func (h *Handler) ListTeamMembers(c *gin.Context) {
	listRecords(h, c, func() ([]models.TeamMember, error) {
		return h.Storage.ListTeamMembers(c.Request.Context(), true)
	})
}

func (h *Handler) AdminListTeamMembers(c *gin.Context) {
	listRecords(h, c, func() ([]models.TeamMember, error) {
		return h.Storage.ListTeamMembers(c.Request.Context(), false)
	})
}

func (h *Handler) CreateTeamMember(c *gin.Context) {
	createRecord(h, c, func(m *models.TeamMember) error {
		m.ID = 0
		return validate.Required("name", m.Name)
	}, h.Storage.CreateTeamMember)
}

func (h *Handler) UpdateTeamMember(c *gin.Context) {
	patchRecord(h, c, teamFields, h.Storage.UpdateTeamMember)
}

func (h *Handler) DeleteTeamMember(c *gin.Context) {
	deleteRecord(h, c, h.Storage.DeleteTeamMember)
}
