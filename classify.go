package drivestorage

import (
	"github.com/Jumpaku/go-drivestorage/internal/logging"
	"github.com/Jumpaku/go-drivestorage/internal/metrics"
)

// classify converts a failure of a remote call into the local error taxonomy.
// When err carries several remote failures, an auth failure takes precedence over the others.
// An auth-recoverable failure forgets the failing account, or every account when the failing one is unknown.
func (r *Registry) classify(err error) error {
	if err == nil {
		return nil
	}
	rerrs := remoteErrors(err)
	if len(rerrs) == 0 {
		return err
	}
	rerr := rerrs[0]
	for _, e := range rerrs {
		if e.Kind == RemoteAuth {
			rerr = e
			break
		}
	}
	metrics.RecordRemoteError(rerr.Kind.String())
	switch rerr.Kind {
	case RemoteNotFound:
		return newNotFoundError(ErrRemoteNotFound, rerr.Op, err)
	case RemoteAuth:
		if rerr.Account != "" {
			r.Forget(rerr.Account)
			metrics.RecordAuthInvalidation("account")
			logging.Warn("authorization required, account forgotten", logging.String("account", rerr.Account))
		} else {
			r.Clear()
			metrics.RecordAuthInvalidation("all")
			logging.Warn("authorization required, all accounts forgotten")
		}
		return newAuthError(rerr.Op, err)
	default:
		return newRemoteError(rerr.Op, err)
	}
}

// remoteErrors returns every *RemoteError in the tree of err in depth-first order.
func remoteErrors(err error) []*RemoteError {
	switch err := err.(type) {
	case nil:
		return nil
	case *RemoteError:
		return []*RemoteError{err}
	case interface{ Unwrap() error }:
		return remoteErrors(err.Unwrap())
	case interface{ Unwrap() []error }:
		var rerrs []*RemoteError
		for _, e := range err.Unwrap() {
			rerrs = append(rerrs, remoteErrors(e)...)
		}
		return rerrs
	}
	return nil
}
