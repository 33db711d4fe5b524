// Package lambdaapi adapts the auth core to API Gateway proxy events. Like
// the HTTP adapter it is glue only: decode, call, map to a status code.
package lambdaapi

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"

	"github.com/flado/awareness/internal/common"
	"github.com/flado/awareness/internal/logging"
	"github.com/flado/awareness/internal/server/httpapi"
	"github.com/flado/awareness/internal/server/services"
)

type API struct {
	users *services.Service
	log   logging.Logger
}

func NewAPI(users *services.Service, log logging.Logger) *API {
	return &API{users: users, log: log}
}

func (a *API) Register(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var in services.RegisterInput
	if err := json.Unmarshal([]byte(req.Body), &in); err != nil {
		return a.errorResponse(ctx, common.NewValidationError("body", "request body must be valid JSON")), nil
	}

	session, err := a.users.Register(ctx, in)
	if err != nil {
		return a.errorResponse(ctx, err), nil
	}
	return a.jsonResponse(ctx, session), nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) Login(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var in loginRequest
	if err := json.Unmarshal([]byte(req.Body), &in); err != nil {
		return a.errorResponse(ctx, common.NewValidationError("body", "request body must be valid JSON")), nil
	}

	session, err := a.users.Login(ctx, in.Email, in.Password)
	if err != nil {
		return a.errorResponse(ctx, err), nil
	}
	return a.jsonResponse(ctx, session), nil
}

// Me serves the profile of the subject the gateway authorizer resolved.
func (a *API) Me(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	principal, _ := req.RequestContext.Authorizer["principalId"].(string)

	user, err := a.users.Profile(ctx, principal)
	if err != nil {
		return a.errorResponse(ctx, err), nil
	}
	return a.jsonResponse(ctx, user), nil
}

// GetUser serves /users/{id}; the route is protected by the same authorizer.
func (a *API) GetUser(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	user, err := a.users.Profile(ctx, req.PathParameters["id"])
	if err != nil {
		return a.errorResponse(ctx, err), nil
	}
	return a.jsonResponse(ctx, user), nil
}

func (a *API) Activate(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id := req.PathParameters["id"]
	token := req.QueryStringParameters["token"]

	user, err := a.users.Activate(ctx, id, token)
	if err != nil {
		return a.errorResponse(ctx, err), nil
	}

	return events.APIGatewayProxyResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "text/html"},
		Body:       httpapi.ActivationPage(user.Email),
	}, nil
}

func (a *API) jsonResponse(ctx context.Context, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		a.log.Error(ctx, "encoding response", "error", err)
		return a.errorResponse(ctx, common.ErrInternal)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func (a *API) errorResponse(ctx context.Context, err error) events.APIGatewayProxyResponse {
	status := common.HTTPStatus(err)
	if status == 500 {
		a.log.Error(ctx, "request failed", "error", err)
	}
	body, _ := json.Marshal(map[string]string{"message": common.PublicMessage(err)})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
