package client

// NewRequestID exposes request identifier allocation to tests.
var NewRequestID = newRequestID
