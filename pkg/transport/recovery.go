package transport

import (
	"context"
	"fmt"

	"github.com/rekurs-dev/rekurs/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to server error responses. The server continues to
// accept new requests after a panic is recovered.
func Recovery() Middleware {
	return func(next QueryHandler) QueryHandler {
		return QueryHandlerFunc(func(ctx context.Context, req *api.QueryRequest) (res *api.Result, retErr error) {
			defer func() {
				if r := recover(); r != nil {
					res = nil
					retErr = api.NewServerError(fmt.Sprintf("internal server error: %v", r))
				}
			}()
			return next.RunQuery(ctx, req)
		})
	}
}
