package lambdaapi

import (
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/events"

	"github.com/flado/awareness/internal/logging"
	"github.com/flado/awareness/internal/server/auth"
)

// ErrUnauthorized is the literal error API Gateway expects from a TOKEN
// authorizer to answer the caller with a plain 401.
var ErrUnauthorized = errors.New("Unauthorized")

// Authorizer adapts the request authorizer to the API Gateway custom
// authorizer protocol: it answers with an IAM policy allowing
// execute-api:Invoke for the method ARN, carrying the subject as principal.
type Authorizer struct {
	authorizer *auth.Authorizer
	log        logging.Logger
}

func NewAuthorizer(authorizer *auth.Authorizer, log logging.Logger) *Authorizer {
	return &Authorizer{authorizer: authorizer, log: log}
}

func (a *Authorizer) Handle(ctx context.Context, req events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	token := auth.BearerFromHeader(req.AuthorizationToken)

	decision := a.authorizer.Authorize(token)
	if !decision.Allowed {
		a.log.Info(ctx, "request denied", "methodArn", req.MethodArn)
		return events.APIGatewayCustomAuthorizerResponse{}, ErrUnauthorized
	}

	return allowPolicy(decision.SubjectID, req.MethodArn), nil
}

func allowPolicy(principalID, methodArn string) events.APIGatewayCustomAuthorizerResponse {
	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: principalID,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: "2012-10-17",
			Statement: []events.IAMPolicyStatement{
				{
					Action:   []string{"execute-api:Invoke"},
					Effect:   "Allow",
					Resource: []string{methodArn},
				},
			},
		},
	}
}
