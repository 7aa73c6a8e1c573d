package core

import "errors"

// ErrInsufficientData indicates the training dataset is smaller than the
// configured minimum. Train leaves the current model state untouched when
// returning it; callers should retry with more data or keep the prior model.
var ErrInsufficientData = errors.New("insufficient training data")
