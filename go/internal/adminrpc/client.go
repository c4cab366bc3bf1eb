package adminrpc

import (
	"context"

	"connectrpc.com/connect"
	"github.com/google/uuid"
)

// Client calls the admin service
type Client struct {
	processWaivers *connect.Client[ProcessWaiversRequest, ProcessWaiversResponse]
	expireTrades   *connect.Client[ExpireTradesRequest, ExpireTradesResponse]
	setUserRole    *connect.Client[SetUserRoleRequest, SetUserRoleResponse]
	health         *connect.Client[HealthRequest, HealthResponse]
}

// NewClient creates a client for the server at baseURL
func NewClient(httpClient connect.HTTPClient, baseURL, token string) *Client {
	opts := []connect.ClientOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(sendToken(token)),
	}
	return &Client{
		processWaivers: connect.NewClient[ProcessWaiversRequest, ProcessWaiversResponse](httpClient, baseURL+ProcessWaiversProcedure, opts...),
		expireTrades:   connect.NewClient[ExpireTradesRequest, ExpireTradesResponse](httpClient, baseURL+ExpireTradesProcedure, opts...),
		setUserRole:    connect.NewClient[SetUserRoleRequest, SetUserRoleResponse](httpClient, baseURL+SetUserRoleProcedure, opts...),
		health:         connect.NewClient[HealthRequest, HealthResponse](httpClient, baseURL+HealthProcedure, opts...),
	}
}

func (c *Client) ProcessWaivers(ctx context.Context, leagueID uuid.UUID) (*ProcessWaiversResponse, error) {
	res, err := c.processWaivers.CallUnary(ctx, connect.NewRequest(&ProcessWaiversRequest{LeagueID: leagueID.String()}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *Client) ExpireTrades(ctx context.Context) (*ExpireTradesResponse, error) {
	res, err := c.expireTrades.CallUnary(ctx, connect.NewRequest(&ExpireTradesRequest{}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *Client) SetUserRole(ctx context.Context, userID uuid.UUID, role string) (*SetUserRoleResponse, error) {
	res, err := c.setUserRole.CallUnary(ctx, connect.NewRequest(&SetUserRoleRequest{UserID: userID.String(), Role: role}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	res, err := c.health.CallUnary(ctx, connect.NewRequest(&HealthRequest{}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func sendToken(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				req.Header().Set(TokenHeader, token)
			}
			return next(ctx, req)
		}
	}
}
