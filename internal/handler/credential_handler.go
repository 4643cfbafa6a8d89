package handler

import (
	"net/http"

	"anonworld/internal/service"

	"github.com/gin-gonic/gin"
)

type CredentialHandler struct {
	svc *service.CredentialService
}

func NewCredentialHandler(svc *service.CredentialService) *CredentialHandler {
	return &CredentialHandler{svc: svc}
}

func (h *CredentialHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"list": h.svc.List()})
}

func (h *CredentialHandler) Get(c *gin.Context) {
	credential, err := h.svc.Get(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, credential)
}
