package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"KidFlex/internal/model/dto"
	"KidFlex/internal/service"
	"KidFlex/pkg/response"
)

// ExchangeIdentity trades a verified parent identity for an API token pair.
// POST /v1/auth/exchange
func ExchangeIdentity(ctx context.Context, c *app.RequestContext) {
	var req dto.ExchangeRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	pair, err := service.Auth().Exchange(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, pair)
}

// RefreshToken issues a fresh token pair from a refresh token.
// POST /v1/auth/token/refresh
func RefreshToken(ctx context.Context, c *app.RequestContext) {
	var req dto.RefreshRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	pair, err := service.Auth().Refresh(ctx, req.RefreshToken)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, pair)
}
