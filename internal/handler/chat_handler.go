package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dhrutik-Patel/CodeChat/internal/auth"
	"github.com/Dhrutik-Patel/CodeChat/internal/service"
)

type ChatHandler interface {
	ListChats(c *gin.Context)
	AccessDirectChat(c *gin.Context)
	CreateGroupChat(c *gin.Context)
	RenameGroupChat(c *gin.Context)
	AddMembers(c *gin.Context)
	RemoveMembers(c *gin.Context)
}

type chatHandler struct {
	service service.ChatService
}

func NewChatHandler(service service.ChatService) ChatHandler {
	return &chatHandler{
		service: service,
	}
}

func (h *chatHandler) ListChats(c *gin.Context) {
	chats, err := h.service.ListChats(c.Request.Context(), auth.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chats": chats,
	})
}

type directChatRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *chatHandler) AccessDirectChat(c *gin.Context) {
	var req directChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.service.AccessDirectChat(c.Request.Context(), auth.UserID(c), req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chat": chat,
	})
}

type createGroupRequest struct {
	Name    string   `json:"name" binding:"required"`
	UserIDs []string `json:"userIds" binding:"required"`
}

func (h *chatHandler) CreateGroupChat(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.service.CreateGroupChat(c.Request.Context(), auth.UserID(c), req.Name, req.UserIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"chat": chat,
	})
}

type renameGroupRequest struct {
	ChatID string `json:"chatId" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

func (h *chatHandler) RenameGroupChat(c *gin.Context) {
	var req renameGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.service.RenameGroupChat(c.Request.Context(), auth.UserID(c), req.ChatID, req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chat": chat,
	})
}

type membersRequest struct {
	ChatID  string   `json:"chatId" binding:"required"`
	UserIDs []string `json:"userIds" binding:"required"`
}

func (h *chatHandler) AddMembers(c *gin.Context) {
	var req membersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.service.AddMembers(c.Request.Context(), auth.UserID(c), req.ChatID, req.UserIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chat": chat,
	})
}

func (h *chatHandler) RemoveMembers(c *gin.Context) {
	var req membersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.service.RemoveMembers(c.Request.Context(), auth.UserID(c), req.ChatID, req.UserIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chat": chat,
	})
}
