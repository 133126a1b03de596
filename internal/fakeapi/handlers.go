package fakeapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "fakeapi.userID"

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"senha" binding:"required"`
}

type createFolderRequest struct {
	Name     string `json:"nomePasta" binding:"required"`
	ParentID *int64 `json:"idPastaPai"`
}

type applyCouponRequest struct {
	Code   string `json:"codigo" binding:"required"`
	PlanID int64  `json:"idPlano" binding:"required"`
}

func failure(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"codRetorno": status, "message": message})
}

func userJSON(u User) gin.H {
	return gin.H{
		"id":           u.ID,
		"primeiroNome": u.FirstName,
		"sobrenome":    u.LastName,
		"email":        u.Email,
		"cpf":          u.CPF,
		"status":       1,
	}
}

// requireToken rejects requests without a valid bearer token.
func (s *Server) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		failure(c, http.StatusUnauthorized, "Token não informado")
		return
	}

	claims, err := s.parseToken(raw)
	if err != nil {
		s.logger.Debugf("rejecting token: %v", err)
		failure(c, http.StatusUnauthorized, "Token inválido")
		return
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		failure(c, http.StatusUnauthorized, "Token inválido")
		return
	}

	c.Set(userIDKey, id)
	c.Next()
}

func (s *Server) userByID(id int64) (User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[req.Email]
	if !ok || u.Password != req.Password {
		failure(c, http.StatusUnauthorized, "Login inválido")
		return
	}

	token, err := s.issueToken(u)
	if err != nil {
		failure(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"codRetorno": http.StatusOK,
		"message":    "OK",
		"token":      token,
		"dados":      userJSON(u),
		"pastas":     s.folderTree(u.ID, nil),
	})
}

// folderTree renders the folders of ownerID below parentID.
func (s *Server) folderTree(ownerID int64, parentID *int64) []gin.H {
	out := []gin.H{}
	for _, f := range s.folders {
		if f.ownerID != ownerID || !sameParent(f.parentID, parentID) {
			continue
		}
		id := f.id
		out = append(out, gin.H{
			"id":         f.id,
			"nomePasta":  f.name,
			"idPastaPai": f.parentID,
			"subpastas":  s.folderTree(ownerID, &id),
		})
	}
	return out
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *Server) findFolder(ownerID, id int64) (folder, bool) {
	for _, f := range s.folders {
		if f.ownerID == ownerID && f.id == id {
			return f, true
		}
	}
	return folder{}, false
}

func (s *Server) listFolders(c *gin.Context) {
	userID := c.GetInt64(userIDKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"pastas": s.folderTree(userID, nil)})
}

func (s *Server) createFolder(c *gin.Context) {
	userID := c.GetInt64(userIDKey)

	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ParentID != nil {
		if _, ok := s.findFolder(userID, *req.ParentID); !ok {
			failure(c, http.StatusNotFound, "Pasta pai não encontrada")
			return
		}
	}

	f := folder{id: s.allocID(), ownerID: userID, name: req.Name, parentID: req.ParentID}
	s.folders = append(s.folders, f)

	c.JSON(http.StatusCreated, gin.H{
		"codRetorno": http.StatusCreated,
		"message":    "Pasta criada",
		"pasta": gin.H{
			"id":         f.id,
			"nomePasta":  f.name,
			"idPastaPai": f.parentID,
		},
	})
}

func (s *Server) uploadImage(c *gin.Context) {
	userID := c.GetInt64(userIDKey)

	folderID, err := strconv.ParseInt(c.PostForm("idPasta"), 10, 64)
	if err != nil {
		failure(c, http.StatusUnprocessableEntity, "idPasta inválido")
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		failure(c, http.StatusUnprocessableEntity, "image é obrigatório")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findFolder(userID, folderID); !ok {
		failure(c, http.StatusNotFound, "Pasta não encontrada")
		return
	}

	s.lastUpload = &Upload{
		FolderID:    folderID,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}

	id := s.allocID()
	c.JSON(http.StatusOK, gin.H{
		"codRetorno": http.StatusOK,
		"message":    "OK",
		"photo": gin.H{
			"id":       id,
			"url":      "https://fakeapi.local/photos/" + strconv.FormatInt(id, 10) + "/" + header.Filename,
			"pasta_id": folderID,
		},
	})
}

func (s *Server) userData(c *gin.Context) {
	userID := c.GetInt64(userIDKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.userByID(userID)
	if !ok {
		failure(c, http.StatusNotFound, "Usuário não encontrado")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(u)})
}

func (s *Server) listPlans(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]gin.H, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, gin.H{
			"id":           p.ID,
			"nome":         p.Name,
			"valor":        p.Price.InexactFloat64(),
			"limitePastas": p.FolderLimit,
		})
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) applyCoupon(c *gin.Context) {
	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.plans {
		if p.ID != req.PlanID {
			continue
		}
		percent, ok := p.CouponCodes[req.Code]
		if !ok {
			failure(c, http.StatusNotFound, "Cupom inválido")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"codRetorno": http.StatusOK,
			"message":    "OK",
			"data": gin.H{
				"id":                 1,
				"cupom":              req.Code,
				"percentualDesconto": percent,
			},
		})
		return
	}

	failure(c, http.StatusNotFound, "Plano não encontrado")
}
