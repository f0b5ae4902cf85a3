package handler

import (
	"net/http"
	"strconv"
	"time"

	"estore/internal/domain/model"
	"estore/internal/middleware"
	"estore/internal/repository"
	"estore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// /api/admin（ユーザー管理・集計・監査ログ）
type AdminHandler struct {
	uc *usecase.AdminUserUsecase
}

func NewAdminHandler(uc *usecase.AdminUserUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

type RoleUpdateRequest struct {
	Role string `json:"role"`
}

type StatusUpdateRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *AdminHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	admin := api.Group("/admin", guards.Admin...)

	admin.GET("/users", h.listUsers)
	admin.GET("/users/:id", h.getUser)
	admin.PUT("/users/:id/role", h.updateRole)
	admin.PUT("/users/:id/status", h.updateStatus)
	admin.DELETE("/users/:id", h.deleteUser)
	admin.GET("/stats", h.stats)
	admin.GET("/audit-logs", h.auditLogs)
}

func (h *AdminHandler) listUsers(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) getUser(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// roleは ?role= かJSONボディ
func (h *AdminHandler) updateRole(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	role := c.QueryParam("role")
	if role == "" {
		var req RoleUpdateRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		role = req.Role
	}

	actor := middleware.IdentityFrom(c)
	out, err := h.uc.UpdateRole(c.Request().Context(), actor, id, role)
	if err != nil {
		return writeError(c, err)
	}
	c.Logger().Infoj(log.JSON{"action": "admin.user.role", "actor_id": actor.UserID, "user_id": id, "role": out.Role})
	return c.JSON(http.StatusOK, out)
}

// enabledは ?enabled= かJSONボディ
func (h *AdminHandler) updateStatus(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var enabled bool
	if v := c.QueryParam("enabled"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return badRequest(c, "invalid enabled")
		}
		enabled = b
	} else {
		var req StatusUpdateRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		if req.Enabled == nil {
			return badRequest(c, "enabled is required")
		}
		enabled = *req.Enabled
	}

	actor := middleware.IdentityFrom(c)
	out, err := h.uc.UpdateStatus(c.Request().Context(), actor, id, enabled)
	if err != nil {
		return writeError(c, err)
	}
	c.Logger().Infoj(log.JSON{"action": "admin.user.status", "actor_id": actor.UserID, "user_id": id, "enabled": out.Enabled})
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) deleteUser(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	actor := middleware.IdentityFrom(c)
	if err := h.uc.Delete(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	c.Logger().Infoj(log.JSON{"action": "admin.user.delete", "actor_id": actor.UserID, "user_id": id})
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminHandler) stats(c echo.Context) error {
	out, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) auditLogs(c echo.Context) error {
	f := repository.AuditLogFilter{Limit: 50}

	if v := c.QueryParam("actorUserId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid actorUserId")
		}
		f.ActorUserID = &id
	}
	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := c.QueryParam("resourceType"); v != "" {
		rt := model.AuditResourceType(v)
		f.ResourceType = &rt
	}
	if v := c.QueryParam("resourceId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid resourceId")
		}
		f.ResourceID = &id
	}
	if v := c.QueryParam("from"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return badRequest(c, "invalid from")
		}
		f.CreatedFrom = &tm
	}
	if v := c.QueryParam("to"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return badRequest(c, "invalid to")
		}
		f.CreatedTo = &tm
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			return badRequest(c, "invalid limit")
		}
		f.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return badRequest(c, "invalid offset")
		}
		f.Offset = n
	}

	out, err := h.uc.AuditLogs(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
