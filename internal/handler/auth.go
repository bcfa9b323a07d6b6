package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/newsdesk/internal/db"
	"github.com/newsdesk/internal/service"
	"golang.org/x/crypto/bcrypt"
)

const actorContextKey = "__actor"

// Login 处理用户登录请求，校验通过后把身份写入会话。
func (a *API) Login(c *gin.Context) {
	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &credentials, "invalid login payload") {
		return
	}

	var user db.User
	if err := a.db.Where("username = ?", credentials.Username).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(credentials.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("user_role", user.Role)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username, "role": user.Role})
}

// Logout 清除会话。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ActorRequired 解析请求者身份并注入上下文。核心逻辑信任上游：
// 优先取登录会话，其次取网关注入的 X-Actor-Id / X-Actor-Role 头，
// 两者都没有则拒绝请求。
func ActorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, ok := actorFromSession(c); ok {
			c.Set(actorContextKey, actor)
			c.Next()
			return
		}
		if actor, ok := actorFromHeaders(c); ok {
			c.Set(actorContextKey, actor)
			c.Next()
			return
		}

		respondError(c, http.StatusUnauthorized, "authentication required")
		c.Abort()
	}
}

func actorFromSession(c *gin.Context) (service.Actor, bool) {
	// 会话中间件未安装时直接走头部回退
	if _, exists := c.Get(sessions.DefaultKey); !exists {
		return service.Actor{}, false
	}
	session := sessions.Default(c)

	rawID := session.Get("user_id")
	rawRole := session.Get("user_role")
	if rawID == nil || rawRole == nil {
		return service.Actor{}, false
	}

	id, ok := rawID.(uint)
	if !ok {
		return service.Actor{}, false
	}
	role, ok := rawRole.(string)
	if !ok {
		return service.Actor{}, false
	}

	return service.Actor{ID: id, Role: role}, true
}

func actorFromHeaders(c *gin.Context) (service.Actor, bool) {
	rawID := strings.TrimSpace(c.GetHeader("X-Actor-Id"))
	role := strings.TrimSpace(c.GetHeader("X-Actor-Role"))
	if rawID == "" || role == "" {
		return service.Actor{}, false
	}

	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil || id == 0 {
		return service.Actor{}, false
	}

	return service.Actor{ID: uint(id), Role: role}, true
}

func currentActor(c *gin.Context) service.Actor {
	if value, exists := c.Get(actorContextKey); exists {
		if actor, ok := value.(service.Actor); ok {
			return actor
		}
	}
	return service.Actor{}
}
