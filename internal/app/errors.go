package service

import "errors"

// ErrNotReady is returned by Predict until Start has loaded the artifacts.
var ErrNotReady = errors.New("service not ready")
