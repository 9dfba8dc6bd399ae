package authsdk

import "context"

// GetValidation returns the latest cached validation report.
func (c *SDKClient) GetValidation(ctx context.Context) (*ValidationReport, error) {
	var out ValidationReport
	if err := c.getJSON(ctx, "/v1/validation", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) GetATOFindings(ctx context.Context) (*ATOResponse, error) {
	var out ATOResponse
	if err := c.getJSON(ctx, "/v1/analysis/ato", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) GetMFACoverage(ctx context.Context) (*MFACoverageResponse, error) {
	var out MFACoverageResponse
	if err := c.getJSON(ctx, "/v1/analysis/mfa", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) GetSessionStats(ctx context.Context) (*SessionStatsResponse, error) {
	var out SessionStatsResponse
	if err := c.getJSON(ctx, "/v1/analysis/sessions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetJWKS returns the public key that verifies sessions.token.
func (c *SDKClient) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	var out JWKSResponse
	if err := c.getJSON(ctx, "/.well-known/jwks.json", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
