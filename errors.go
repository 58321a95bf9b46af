package flume

import "errors"

// ErrAborted indicates a streaming request was cancelled locally via the
// request registry. Wrap it (or context.Canceled) in a terminal stream
// error to make the request settle as aborted rather than failed.
var ErrAborted = errors.New("request aborted")
