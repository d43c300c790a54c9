package client

import (
	"net/http"
	"net/url"

	"solder/domain"
)

// Compile runs build then optimize for a project. A toolchain failure comes
// back as an *APIError carrying the compiler's stderr.
func (c *Client) Compile(project string) (domain.BuildResult, error) {
	var resp domain.BuildResult
	err := c.doSlow(http.MethodPost, "/api/v1/projects/"+url.PathEscape(project)+"/compile", nil, &resp)
	if err != nil {
		return domain.BuildResult{}, err
	}
	return resp, nil
}

// DeployRequest names the source account and network for a deploy.
type DeployRequest struct {
	Source  string `json:"source"`
	Network string `json:"network"`
}

// Deploy deploys a built contract. A nil ContractId means the toolchain
// printed no parseable identifier, not that the deploy failed.
func (c *Client) Deploy(project string, req DeployRequest) (domain.DeployResult, error) {
	var resp domain.DeployResult
	err := c.doSlow(http.MethodPost, "/api/v1/projects/"+url.PathEscape(project)+"/deploy", req, &resp)
	if err != nil {
		return domain.DeployResult{}, err
	}
	return resp, nil
}

type deploysResponse struct {
	Deploys []domain.DeployRecord `json:"deploys"`
}

// GetDeploys fetches a project's deploy history, most recent first.
func (c *Client) GetDeploys(project string) ([]domain.DeployRecord, error) {
	var resp deploysResponse
	if err := c.do(http.MethodGet, "/api/v1/projects/"+url.PathEscape(project)+"/deploys", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Deploys, nil
}
