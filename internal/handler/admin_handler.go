package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pagecraft/internal/db"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login 校验管理员账号并写入会话
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	user, err := db.Authenticate(a.db, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, db.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "用户名或密码错误")
			return
		}
		respondError(c, http.StatusInternalServerError, "登录失败")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": user.Username})
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}
	c.Status(http.StatusNoContent)
}

// Dashboard 返回后台概览：页面、区块、待发布区块与媒体数量
func (a *API) Dashboard(c *gin.Context) {
	session := sessions.Default(c)

	var pageCount, sectionCount, mediaCount int64
	a.db.Model(&db.Page{}).Count(&pageCount)
	a.db.Model(&db.Section{}).Count(&sectionCount)
	a.db.Model(&db.MediaAsset{}).Where("is_active = ?", true).Count(&mediaCount)

	pages, err := a.pages.ListPages()
	if err != nil {
		respondServiceError(c, err, "获取页面失败")
		return
	}

	pending := 0
	for _, page := range pages {
		changed, err := a.sections.ChangedSections(page.ID)
		if err != nil {
			respondServiceError(c, err, "获取待发布区块失败")
			return
		}
		pending += len(changed)
	}

	c.JSON(http.StatusOK, gin.H{
		"username":        session.Get("username"),
		"pageCount":       pageCount,
		"sectionCount":    sectionCount,
		"pendingSections": pending,
		"mediaCount":      mediaCount,
	})
}

// AuthRequired 是一个简单的认证中间件
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get("user_id") == nil {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}
