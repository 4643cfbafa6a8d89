package handler

import (
	"errors"
	"net/http"
	"strconv"

	"anonworld/internal/middleware"
	"anonworld/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

type AccountsReq struct {
	Fids      []int64  `json:"fids"`
	Usernames []string `json:"usernames"`
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

// Get 社区详情
func (h *CommunityHandler) Get(c *gin.Context) {
	community, err := h.svc.GetCommunity(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCommunityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "get community failed"})
		return
	}
	c.JSON(http.StatusOK, community)
}

// List 社区列表；带 cursor 或 size 参数时走游标分页
func (h *CommunityHandler) List(c *gin.Context) {
	cursor, hasCursor := c.GetQuery("cursor")
	sizeStr, hasSize := c.GetQuery("size")

	if hasCursor || hasSize {
		var size int
		if sizeStr != "" {
			v, err := strconv.Atoi(sizeStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid size"})
				return
			}
			size = v
		}
		list, next, err := h.svc.ListCommunitiesPage(c.Request.Context(), cursor, size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"list": list, "next_cursor": next})
		return
	}

	list, err := h.svc.ListCommunities(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// ForAccounts 根据 farcaster fid 或 twitter 用户名查社区
func (h *CommunityHandler) ForAccounts(c *gin.Context) {
	var req AccountsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	list, err := h.svc.CommunitiesForAccounts(c.Request.Context(), req.Fids, req.Usernames)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Update 部分更新社区资料，需要运营人员登录
func (h *CommunityHandler) Update(c *gin.Context) {
	operatorID := c.GetUint64(middleware.ContextOperatorIDKey)

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.UpdateCommunity(c.Request.Context(), operatorID, c.Param("id"), fields); err != nil {
		if errors.Is(err, service.ErrInvalidFields) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
