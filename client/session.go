package client

import (
	"net/http"

	"solder/common"
	"solder/domain"
)

type sessionResponse struct {
	Session domain.SessionState `json:"session"`
}

// GetSession fetches the persisted account and network selection.
func (c *Client) GetSession() (domain.SessionState, error) {
	var resp sessionResponse
	if err := c.do(http.MethodGet, "/api/v1/session", nil, &resp); err != nil {
		return domain.SessionState{}, err
	}
	return resp.Session, nil
}

// SaveSession replaces the persisted session state.
func (c *Client) SaveSession(state domain.SessionState) (domain.SessionState, error) {
	var resp sessionResponse
	if err := c.do(http.MethodPut, "/api/v1/session", state, &resp); err != nil {
		return domain.SessionState{}, err
	}
	return resp.Session, nil
}

type createAccountResponse struct {
	Account domain.Account      `json:"account"`
	Session domain.SessionState `json:"session"`
}

// CreateAccount adds a simulated account and returns it with the updated
// session.
func (c *Client) CreateAccount(name string) (domain.Account, domain.SessionState, error) {
	var resp createAccountResponse
	if err := c.do(http.MethodPost, "/api/v1/session/accounts", map[string]string{"name": name}, &resp); err != nil {
		return domain.Account{}, domain.SessionState{}, err
	}
	return resp.Account, resp.Session, nil
}

type networksResponse struct {
	Networks []common.NetworkConfig `json:"networks"`
}

// GetNetworks fetches the deploy target networks the server knows about.
func (c *Client) GetNetworks() ([]common.NetworkConfig, error) {
	var resp networksResponse
	if err := c.do(http.MethodGet, "/api/v1/networks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Networks, nil
}
