// Package ledgertest provides an in-memory rendition of the ledger
// service API for tests. It implements the same endpoints, status codes
// and wire encodings the real service uses, including bearer-token
// auth, so HTTP repositories can be exercised end to end without a
// remote service.
package ledgertest

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"

	"github.com/tebucks/tebucks-cli/internal/domain"
)

const signingKey = "ledgertest-0123456789abcdefghijklmn"

type accountState struct {
	ID      int32
	UserID  int32
	Balance decimal.Decimal
}

type transferState struct {
	ID          int64
	TypeID      int32
	StatusID    int32
	AccountFrom int32
	AccountTo   int32
	Amount      decimal.Decimal
}

// Server is the fake ledger. All state is guarded by one mutex; tests
// drive it through its HTTP surface.
type Server struct {
	engine *gin.Engine

	mu             sync.Mutex
	users          map[int32]domain.User
	passwords      map[int32]string
	userIDByName   map[string]int32
	accounts       map[int32]*accountState
	accountByUser  map[int32]int32
	transfers      map[int64]*transferState
	nextUserID     int32
	nextAccountID  int32
	nextTransferID int64
}

// New returns a seeded-empty fake ledger.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		engine:         gin.New(),
		users:          make(map[int32]domain.User),
		passwords:      make(map[int32]string),
		userIDByName:   make(map[string]int32),
		accounts:       make(map[int32]*accountState),
		accountByUser:  make(map[int32]int32),
		transfers:      make(map[int64]*transferState),
		nextUserID:     1,
		nextAccountID:  1000,
		nextTransferID: 3000,
	}

	s.engine.POST("/register", s.register)
	s.engine.POST("/login", s.login)

	auth := s.engine.Group("/").Use(s.authenticate)
	auth.GET("/account/balance", s.balance)
	auth.GET("/account/users", s.listUsers)
	auth.POST("/account/transfer", s.createTransfer)
	auth.POST("/account/request", s.requestTransfer)
	auth.GET("/account/transfers", s.listTransfers)
	auth.GET("/account/transfers/pending", s.listPendingTransfers)
	auth.PUT("/transfers/:id", s.updateTransferStatus)
	auth.GET("/accounts/:id", s.getAccount)
	auth.GET("/users/:id", s.getUser)

	return s
}

// Router exposes the HTTP surface for httptest.NewServer.
func (s *Server) Router() http.Handler {
	return s.engine
}

// Seed registers a user with an account holding the given balance and
// returns the user.
func (s *Server) Seed(username, password, balance string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addUser(username, password, decimal.RequireFromString(balance))
}

// AccountOf returns the id of the user's account.
func (s *Server) AccountOf(u domain.User) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accountByUser[u.ID]
}

// BalanceOf returns the user's current balance as a fixed two-decimal
// string.
func (s *Server) BalanceOf(u domain.User) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accounts[s.accountByUser[u.ID]].Balance.StringFixed(2)
}

// TokenFor issues a valid bearer token for the user, letting tests
// skip the login round-trip.
func (s *Server) TokenFor(u domain.User) string {
	return s.issueToken(u.Username)
}

func (s *Server) addUser(username, password string, balance decimal.Decimal) domain.User {
	u := domain.User{ID: s.nextUserID, Username: username}
	s.nextUserID++

	a := &accountState{ID: s.nextAccountID, UserID: u.ID, Balance: balance}
	s.nextAccountID++

	s.users[u.ID] = u
	s.passwords[u.ID] = password
	s.userIDByName[u.Username] = u.ID
	s.accounts[a.ID] = a
	s.accountByUser[u.ID] = a.ID

	return u
}

func (s *Server) issueToken(username string) string {
	claims := jwt.MapClaims{
		"username": username,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	if err != nil {
		panic(err)
	}

	return token
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) register(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userIDByName[creds.Username]; ok {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	}

	s.addUser(creds.Username, creds.Password, decimal.NewFromInt(1000))

	c.Status(http.StatusCreated)
}

func (s *Server) login(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	userID, ok := s.userIDByName[creds.Username]
	valid := ok && s.passwords[userID] == creds.Password
	user := s.users[userID]
	s.mu.Unlock()

	if !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong username or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": s.issueToken(user.Username), "user": user})
}

func (s *Server) authenticate(c *gin.Context) {
	const prefix = "Bearer "

	header := c.GetHeader("Authorization")
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(header[len(prefix):], claims, func(*jwt.Token) (interface{}, error) {
		return []byte(signingKey), nil
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	username, _ := claims["username"].(string)

	s.mu.Lock()
	userID, ok := s.userIDByName[username]
	s.mu.Unlock()

	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}

	c.Set("userID", userID)
	c.Next()
}

func (s *Server) currentUserID(c *gin.Context) int32 {
	return c.MustGet("userID").(int32)
}

func (s *Server) balance(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusOK, s.accounts[s.accountByUser[s.currentUserID(c)]].Balance)
}

func (s *Server) listUsers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]domain.User, 0, len(s.users))
	for id := int32(1); id < s.nextUserID; id++ {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}

	c.JSON(http.StatusOK, users)
}

type transferRequest struct {
	UserID int32  `json:"user_id" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

func transferJSON(t *transferState) gin.H {
	return gin.H{
		"transfer_id":        t.ID,
		"transfer_type_id":   t.TypeID,
		"transfer_status_id": t.StatusID,
		"account_from":       t.AccountFrom,
		"account_to":         t.AccountTo,
		"amount":             t.Amount.StringFixed(2),
	}
}

func (s *Server) createTransfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	senderID := s.currentUserID(c)

	receiverAccountID, ok := s.accountByUser[req.UserID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if req.UserID == senderID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot transfer to self"})
		return
	}

	from := s.accounts[s.accountByUser[senderID]]
	to := s.accounts[receiverAccountID]

	if from.Balance.LessThan(amount) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
		return
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)

	t := &transferState{
		ID:          s.nextTransferID,
		TypeID:      2, // Send
		StatusID:    2, // Approved
		AccountFrom: from.ID,
		AccountTo:   to.ID,
		Amount:      amount,
	}
	s.nextTransferID++
	s.transfers[t.ID] = t

	c.JSON(http.StatusCreated, transferJSON(t))
}

func (s *Server) requestTransfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	requesterID := s.currentUserID(c)

	payerAccountID, ok := s.accountByUser[req.UserID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if req.UserID == requesterID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot request from self"})
		return
	}

	t := &transferState{
		ID:          s.nextTransferID,
		TypeID:      1, // Request
		StatusID:    1, // Pending
		AccountFrom: payerAccountID,
		AccountTo:   s.accountByUser[requesterID],
		Amount:      amount,
	}
	s.nextTransferID++
	s.transfers[t.ID] = t

	c.JSON(http.StatusCreated, transferJSON(t))
}

func (s *Server) listTransfers(c *gin.Context) {
	s.listWhere(c, func(*transferState) bool { return true })
}

func (s *Server) listPendingTransfers(c *gin.Context) {
	s.listWhere(c, func(t *transferState) bool { return t.StatusID == 1 })
}

func (s *Server) listWhere(c *gin.Context, keep func(*transferState) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accountID := s.accountByUser[s.currentUserID(c)]

	out := make([]gin.H, 0)
	for id := int64(3000); id < s.nextTransferID; id++ {
		t, ok := s.transfers[id]
		if !ok || !keep(t) {
			continue
		}

		if t.AccountFrom == accountID || t.AccountTo == accountID {
			out = append(out, transferJSON(t))
		}
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) updateTransferStatus(c *gin.Context) {
	transferID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad transfer id"})
		return
	}

	statusID, err := strconv.ParseInt(c.Query("statusId"), 10, 32)
	if err != nil || (statusID != 2 && statusID != 3) {
		c.JSON(http.StatusConflict, gin.H{"error": "illegal status change"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transfers[transferID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "transfer not found"})
		return
	}

	payerAccount := s.accounts[t.AccountFrom]
	if payerAccount.UserID != s.currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the payer may resolve this transfer"})
		return
	}

	if t.StatusID != 1 {
		c.JSON(http.StatusConflict, gin.H{"error": "transfer already resolved"})
		return
	}

	if statusID == 2 {
		if payerAccount.Balance.LessThan(t.Amount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
			return
		}

		payee := s.accounts[t.AccountTo]
		payerAccount.Balance = payerAccount.Balance.Sub(t.Amount)
		payee.Balance = payee.Balance.Add(t.Amount)
	}

	t.StatusID = int32(statusID)

	c.Status(http.StatusOK)
}

func (s *Server) getAccount(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad account id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[int32(id)]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": a.ID, "user_id": a.UserID, "balance": a.Balance.StringFixed(2)})
}

func (s *Server) getUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad user id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[int32(id)]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, u)
}
