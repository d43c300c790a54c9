package api

import (
	"net/http"
	"time"

	"solder/domain"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
)

func (ctrl *Controller) GetSessionHandler(c *gin.Context) {
	state, err := ctrl.storage.LoadSession(c.Request.Context())
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": state})
}

func (ctrl *Controller) PutSessionHandler(c *gin.Context) {
	var state domain.SessionState
	if err := c.ShouldBindJSON(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	state.Updated = time.Now()
	if err := ctrl.storage.SaveSession(c.Request.Context(), state); err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": state})
}

type CreateAccountRequest struct {
	Name string `json:"name"`
}

// CreateAccountHandler adds a simulated account to the session. Generated
// ids carry a SIM- prefix so they can never be mistaken for funded keys.
func (ctrl *Controller) CreateAccountHandler(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account name is required"})
		return
	}

	state, err := ctrl.storage.LoadSession(c.Request.Context())
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}

	account := domain.Account{
		Id:        "SIM-" + ksuid.New().String(),
		Name:      req.Name,
		Simulated: true,
		Balance:   "10000.0000000",
		Created:   time.Now(),
	}
	state.Accounts = append(state.Accounts, account)
	if state.SelectedAccount == "" {
		state.SelectedAccount = account.Id
	}
	state.Updated = time.Now()

	if err := ctrl.storage.SaveSession(c.Request.Context(), state); err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "account": account, "session": state})
}

func (ctrl *Controller) GetNetworksHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "networks": ctrl.config.Networks})
}
